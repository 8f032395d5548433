package handler

import (
	"errors"
	"net/http"

	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/channelbridge/backend/internal/domain/shared"
	"github.com/channelbridge/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
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

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// sentinelStatus maps domain sentinel errors to HTTP responses
var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{linking.ErrLinkNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
	{linking.ErrAccountNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
	{linking.ErrLinkAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
	{linking.ErrAccountInactive, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
	{linking.ErrAccountMissingChannel, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
	{linking.ErrInvalidChannelCode, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
	{linking.ErrLinkInvalidAccount, http.StatusBadRequest, dto.ErrCodeInvalidInput},
	{linking.ErrLinkInvalidLinkable, http.StatusBadRequest, dto.ErrCodeInvalidInput},
	{linking.ErrSyncMissingExternalID, http.StatusBadRequest, dto.ErrCodeInvalidInput},
	{linking.ErrSyncMissingSKU, http.StatusBadRequest, dto.ErrCodeInvalidInput},
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, dto.NewErrorResponseWithRequestID(m.code, m.err.Error(), requestID))
			return
		}
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
