package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// CallerIDHeader carries the already-authenticated caller id. Token
	// verification happens upstream; the engine only needs the identity.
	CallerIDHeader = "X-User-ID"
	// CallerIDKey is the context key for the caller id
	CallerIDKey = "caller_id"
)

// Identity extracts the authenticated caller id from the request headers and
// stores it in the gin context. Requests without an identity proceed as
// anonymous; individual handlers reject them where one is required.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerID := c.GetHeader(CallerIDHeader); callerID != "" {
			c.Set(CallerIDKey, callerID)
		}
		c.Next()
	}
}

// GetCallerID retrieves the caller id from the gin context. An empty string
// means the request is anonymous.
func GetCallerID(c *gin.Context) string {
	if callerID, exists := c.Get(CallerIDKey); exists {
		if id, ok := callerID.(string); ok {
			return id
		}
	}
	return ""
}
