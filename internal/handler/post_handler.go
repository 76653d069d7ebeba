package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/middleware"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// PostHandler handles post-related HTTP requests.
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	domain.CreatePostInput
	Status string `json:"status"`
}

type updatePostRequest struct {
	domain.UpdatePostInput
	Status *string `json:"status"`
}

// parsePageRequest reads page and page_size query parameters.
func parsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return domain.PageRequest{Page: page, PageSize: size}
}

// ListFeed handles GET /api/v1/posts
func (h *PostHandler) ListFeed(c *gin.Context) {
	filter := domain.PostFilter{
		PageRequest: parsePageRequest(c),
		Date:        c.Query("date"),
		Author:      c.Query("author"),
		Content:     c.Query("content"),
		Tags:        c.Query("tags"),
		SortBy:      c.Query("sort"),
	}
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be an integer"})
			return
		}
		filter.DurationMin = &minutes
	}

	feed := domain.FeedType(c.DefaultQuery("type", string(domain.FeedAll)))
	if !domain.IsValidFeedType(feed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of: all, published, scheduled, draft, recommended"})
		return
	}

	requesterID := middleware.GetCallerID(c)
	if feed != domain.FeedAll && requesterID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, err := h.postService.ListFeed(c.Request.Context(), filter, feed, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPost handles GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	post, err := h.postService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.postService.Create(c.Request.Context(), &req.CreatePostInput, callerID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, &req.UpdatePostInput, callerID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
