package middleware

import (
	"context"
	"errors"
	"net/http"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RevocationChecker reports tokens revoked at logout.
type RevocationChecker interface {
	Revoked(ctx context.Context, token string) (bool, error)
}

type Authenticator struct {
	secret  string
	users   UserFinder
	revoked RevocationChecker
}

// NewAuthenticator builds the auth middlewares. revoked may be nil.
func NewAuthenticator(secret string, users UserFinder, revoked RevocationChecker) *Authenticator {
	return &Authenticator{secret: secret, users: users, revoked: revoked}
}

func (a *Authenticator) authenticate(c *gin.Context) (int, error) {
	raw := auth.ExtractToken(c)
	if raw == "" {
		return http.StatusUnauthorized, auth.ErrMissingToken
	}
	claim, err := auth.ValidateToken(a.secret, raw)
	if err != nil {
		return http.StatusUnauthorized, err
	}

	ctx := c.Request.Context()
	if a.revoked != nil {
		revoked, err := a.revoked.Revoked(ctx, raw)
		if err != nil {
			util.LogError("check token denylist", err)
			return http.StatusServiceUnavailable, errors.New("unable to verify session")
		}
		if revoked {
			return http.StatusUnauthorized, errors.New("token has been revoked, please login again")
		}
	}

	user, err := a.users.FindByID(ctx, claim.Id)
	if errs.Is(err, errs.NotFound) {
		return http.StatusUnauthorized, errors.New("account not found")
	}
	if err != nil {
		util.LogError("load user "+claim.Id, err)
		return http.StatusInternalServerError, errors.New("unable to load account")
	}
	if !user.Active {
		return http.StatusForbidden, errors.New("account is disabled")
	}

	auth.SetActor(c, user.Actor(), claim, raw)
	return 0, nil
}

// Auth rejects requests without a valid token for an active account.
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if status, err := a.authenticate(c); err != nil {
			util.HandleError(c, status, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the actor when a token is present and lets anonymous
// requests through.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.ExtractToken(c) == "" {
			c.Next()
			return
		}
		if status, err := a.authenticate(c); err != nil {
			util.HandleError(c, status, err)
			return
		}
		c.Next()
	}
}
