package auth

import (
	"errors"
	"strings"
	"time"

	"ceylonhomes-api-io/api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const AccessTokenExpirationTime = 24 * time.Hour

var (
	ErrMissingToken = errors.New("request does not contain an access token")
	ErrInvalidToken = errors.New("invalid access token")
)

type JWTClaim struct {
	Id    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate auth token for a user session.
func GenerateJWT(secret string, u *models.User, ttl time.Duration) (string, int64, error) {
	if ttl <= 0 {
		ttl = AccessTokenExpirationTime
	}
	expirationTime := time.Now().Add(ttl)

	claims := JWTClaim{
		Id:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        models.NewID(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

// Validate a signed jwt auth token and its expiration time.
func ValidateToken(secret, signedToken string) (JWTClaim, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return JWTClaim{}, err
	}

	claim, ok := token.Claims.(*JWTClaim)
	if !ok || !token.Valid || claim.Id == "" {
		return JWTClaim{}, ErrInvalidToken
	}

	return *claim, nil
}

// ExpiresIn returns the remaining lifetime of the token.
func (j JWTClaim) ExpiresIn() time.Duration {
	if j.ExpiresAt == nil {
		return 0
	}
	return time.Until(j.ExpiresAt.Time)
}

// Extract the bearer token from the Authorization header.
func ExtractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
