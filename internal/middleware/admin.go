package middleware

import (
	"errors"
	"net/http"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// AdminOnly restricts access to admin accounts. It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.Actor(c)
		if !ok {
			util.HandleError(c, http.StatusUnauthorized, auth.ErrMissingToken)
			return
		}

		if !actor.IsAdmin() {
			util.HandleError(c, http.StatusForbidden, errors.New("insufficient permissions: admin access required"))
			return
		}

		c.Next()
	}
}
