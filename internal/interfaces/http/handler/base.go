package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobashop/backend/internal/domain/possync"
	"github.com/bobashop/backend/internal/infrastructure/scheduler"
	"github.com/bobashop/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps known sync errors to HTTP responses. Unknown errors are
// reported as internal without leaking their message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := errorCode(err)
	message := err.Error()
	if code == dto.ErrCodeInternal {
		message = "an unexpected error occurred"
	}
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, scheduler.ErrSyncInProgress):
		return dto.ErrCodeSyncInProgress
	case errors.Is(err, possync.ErrConfigNotFound),
		errors.Is(err, possync.ErrQueueItemNotFound),
		errors.Is(err, possync.ErrMappingNotFound):
		return dto.ErrCodeNotFound
	case errors.Is(err, possync.ErrConfigInactive):
		return dto.ErrCodeConflict
	case errors.Is(err, possync.ErrPosUnavailable),
		errors.Is(err, possync.ErrAuthFailed):
		return dto.ErrCodePosUnavailable
	default:
		return dto.ErrCodeInternal
	}
}
