package controllers

import (
	"context"
	"net/http"
	"time"

	"ceylonhomes-api-io/api/internal/auth"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
)

const REQUEST_TIMEOUT_SECS = 15 * time.Second

// UploadTimeout covers photo uploads, which wait on the media store.
const UploadTimeout = 2 * time.Minute

// WithTimeout derives the request context with the standard timeout
func WithTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), REQUEST_TIMEOUT_SECS)
}

// RequireActor returns the authenticated actor and writes a 401 when missing
func RequireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := auth.Actor(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, auth.ErrMissingToken)
		return models.Actor{}, false
	}
	return actor, true
}

// BindJSON decodes the request body and handles malformed payloads.
// Field validation happens in the services.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}

// HandlePaginationAndResponse is a utility for common pagination responses
func HandlePaginationAndResponse(c *gin.Context, data any, count int64, paginationArgs util.PaginationArgs, message string) {
	util.HandleSuccessMeta(c, http.StatusOK, message, data, gin.H{
		"pagination": util.Pagination{
			Limit: paginationArgs.Limit,
			Skip:  paginationArgs.Skip,
			Count: count,
		},
	})
}
