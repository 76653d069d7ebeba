package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
)

// UserHandler handles user and social-graph HTTP requests.
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.userService.ListPaged(c.Request.Context(), parsePageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var in domain.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &in, callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	role := domain.UserRole(req.Role)
	if !domain.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be one of: author, administrator"})
		return
	}

	if err := h.userService.UpdateRole(c.Request.Context(), id, role, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": req.Role})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, callerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleSubscription handles POST /api/v1/users/:id/subscribe
func (h *UserHandler) ToggleSubscription(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	authorID := c.Param("id")
	if _, err := uuid.Parse(authorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	outcome, err := h.userService.ToggleSubscription(c.Request.Context(), callerID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": outcome})
}

// ToggleLike handles POST /api/v1/posts/:id/like
func (h *UserHandler) ToggleLike(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	outcome, err := h.userService.ToggleLike(c.Request.Context(), callerID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": outcome})
}
