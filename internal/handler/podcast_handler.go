package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// PodcastHandler handles podcast-related HTTP requests.
type PodcastHandler struct {
	podcastService service.PodcastServiceInterface
}

// NewPodcastHandler creates a new PodcastHandler.
func NewPodcastHandler(podcastService service.PodcastServiceInterface) *PodcastHandler {
	return &PodcastHandler{podcastService: podcastService}
}

// GetPodcast handles GET /api/v1/podcasts/:id
func (h *PodcastHandler) GetPodcast(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	podcast, err := h.podcastService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcast)
}

// CreatePodcast handles POST /api/v1/podcasts
func (h *PodcastHandler) CreatePodcast(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}

	var in domain.CreatePodcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	podcast, err := h.podcastService.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, podcast)
}

// UpdatePodcast handles PUT /api/v1/podcasts/:id
func (h *PodcastHandler) UpdatePodcast(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var in domain.UpdatePodcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	podcast, err := h.podcastService.Update(c.Request.Context(), id, &in, callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, podcast)
}

// DeletePodcast handles DELETE /api/v1/podcasts/:id
func (h *PodcastHandler) DeletePodcast(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.podcastService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Listen handles POST /api/v1/podcasts/:id/listen
func (h *PodcastHandler) Listen(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	listens, err := h.podcastService.IncrementListens(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listen_count": listens})
}
