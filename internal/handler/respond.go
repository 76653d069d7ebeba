// Package handler exposes the engine over HTTP. Handlers stay thin: they
// parse the request, hand off to a service, and map errors to status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/domain"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/logger"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/middleware"
)

// respondError maps engine errors to HTTP status codes: NotFound to 404,
// Forbidden to 403, validation errors to 400, anything else to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": vErrs})
			return
		}
		logger.WithRequestID(middleware.GetRequestID(c)).Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireCaller returns the authenticated caller id, or writes a 401 and
// reports false.
func requireCaller(c *gin.Context) (string, bool) {
	callerID := middleware.GetCallerID(c)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return callerID, true
}
