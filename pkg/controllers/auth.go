package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// TokenRevoker stores tokens that must no longer be accepted.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AuthController struct {
	revoker TokenRevoker
}

// InitAuthController builds the session endpoints. revoker may be nil when
// redis is not configured.
func InitAuthController(revoker TokenRevoker) *AuthController {
	return &AuthController{revoker: revoker}
}

// Logout handles POST /v1/auth/logout
func (ac *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		raw, claim, ok := auth.Token(c)
		if !ok {
			util.HandleError(c, http.StatusUnauthorized, auth.ErrMissingToken)
			return
		}
		if ac.revoker == nil {
			util.HandleError(c, http.StatusNotImplemented, errors.New("token revocation is not configured"))
			return
		}

		if err := ac.revoker.Revoke(ctx, raw, claim.ExpiresIn()); err != nil {
			util.LogError("revoke token", err)
			util.HandleError(c, http.StatusInternalServerError, errors.New("unable to end session"))
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Logged out", nil)
	}
}
