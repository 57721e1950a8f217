package util

import (
	"log"
	"net/http"

	"ceylonhomes-api-io/api/pkg/errs"

	"github.com/gin-gonic/gin"
)

type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func HandleSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Status:  statusCode,
		Message: message,
		Data:    data,
		Meta:    nil,
	})
}

func HandleSuccessMeta(c *gin.Context, statusCode int, message string, data, meta interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Status:  statusCode,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

type ErrorResponse struct {
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status"`
}

func HandleError(c *gin.Context, statusCode int, err error) {
	log.Printf("error: %v", err)
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:  err.Error(),
		Status: statusCode,
	})
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Unauthorized:
		return http.StatusForbidden
	case errs.Validation:
		return http.StatusBadRequest
	case errs.InvalidState, errs.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// HandleServiceError writes a classified service error. Internal errors are
// reported but their text is not exposed.
func HandleServiceError(c *gin.Context, err error) {
	status := StatusFor(err)
	kind := errs.KindOf(err)
	msg := errs.Message(err)
	if kind == errs.Internal {
		LogError("internal error on "+c.FullPath(), err)
		msg = "internal server error"
	} else {
		log.Printf("error: %v", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:  msg,
		Kind:   kind.String(),
		Status: status,
	})
}

type PaginationArgs struct {
	Sort  string
	Limit int
	Skip  int
}

type Pagination struct {
	Limit int   `json:"limit"`
	Skip  int   `json:"skip"`
	Count int64 `json:"count"`
}
