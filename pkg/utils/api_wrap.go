package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondSuccess writes {status:true, message, trace_id} merged with payload.
func RespondSuccess(c *gin.Context, message string, payload gin.H) {
	RespondWithStatus(c, http.StatusOK, message, payload)
}

func RespondWithStatus(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{"status": true}
	if message != "" {
		body["message"] = message
	}
	if traceID := c.GetString("trace_id"); traceID != "" {
		body["trace_id"] = traceID
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Status:  false,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case IsClientError(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrTooManyRequests):
		RespondError(c, http.StatusTooManyRequests, err.Error())
	default:
		zap.L().Error("unhandled service error",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}
