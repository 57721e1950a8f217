package auth

import (
	"ceylonhomes-api-io/api/pkg/models"

	"github.com/gin-gonic/gin"
)

const (
	actorKey = "ceylonhomes.actor"
	tokenKey = "ceylonhomes.token"
)

func SetActor(c *gin.Context, actor models.Actor, token JWTClaim, raw string) {
	c.Set(actorKey, actor)
	c.Set(tokenKey, session{claim: token, raw: raw})
}

// Actor returns the authenticated principal, if any.
func Actor(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	a, ok := v.(models.Actor)
	return a, ok
}

// OptionalActor is Actor for handlers that also serve anonymous callers.
func OptionalActor(c *gin.Context) *models.Actor {
	if a, ok := Actor(c); ok {
		return &a
	}
	return nil
}

type session struct {
	claim JWTClaim
	raw   string
}

// Token returns the raw token and its claims for the current request.
func Token(c *gin.Context) (string, JWTClaim, bool) {
	v, ok := c.Get(tokenKey)
	if !ok {
		return "", JWTClaim{}, false
	}
	s, ok := v.(session)
	return s.raw, s.claim, ok
}
