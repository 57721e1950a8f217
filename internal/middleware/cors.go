package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CorsMiddleware answers preflight requests and sets CORS headers. An empty
// origins list, or one containing "*", allows any origin.
func CorsMiddleware(origins []string) gin.HandlerFunc {
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case anyOrigin:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		case c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Authorization, Content-Type, Cache-Control, expires")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
