package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	commentService service.CommentServiceInterface
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListByPost handles GET /api/v1/posts/:id/comments
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	page, err := h.commentService.ListByPost(c.Request.Context(), postID, parsePageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListReplies handles GET /api/v1/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	replies, err := h.commentService.ListReplies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": replies})
}

// GetComment handles GET /api/v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	comment, err := h.commentService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// CreateComment handles POST /api/v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var in domain.CreateCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), &in, callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PublishComment handles POST /api/v1/comments/:id/publish
func (h *CommentHandler) PublishComment(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.commentService.Publish(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.CommentStatusApproved)})
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
