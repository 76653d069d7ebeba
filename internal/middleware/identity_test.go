package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIdentity_ExtractsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Identity())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = middleware.GetCallerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.CallerIDHeader, "u-42")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "u-42", seen)
}

func TestIdentity_AnonymousIsAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Identity())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = middleware.GetCallerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen)
}
