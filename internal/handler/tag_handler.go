package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// TagHandler handles tag-related HTTP requests.
type TagHandler struct {
	tagService service.TagServiceInterface
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService service.TagServiceInterface) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	page, err := h.tagService.ListPaged(c.Request.Context(), parsePageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTag handles GET /api/v1/tags/:id
func (h *TagHandler) GetTag(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	tag, err := h.tagService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

type createTagRequest struct {
	Name string `json:"name"`
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}

	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// DeleteTag handles DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
