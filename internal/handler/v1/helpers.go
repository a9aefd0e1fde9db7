package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, document.ErrUnknownKind),
		errors.Is(err, document.ErrDocumentNotFound),
		errors.Is(err, pt.ErrHistoryNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, document.ErrSignatureRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "SIGNATURE_REQUIRED"})

	case errors.Is(err, document.ErrInvalidSignature),
		errors.Is(err, document.ErrUnknownField),
		errors.Is(err, document.ErrInvalidFieldValue),
		errors.Is(err, document.ErrSignDateInFuture),
		errors.Is(err, client.ErrInvalidDateOfBirth),
		errors.Is(err, pt.ErrInvalidPainAreas),
		errors.Is(err, pt.ErrPainOutOfRange),
		errors.Is(err, pt.ErrDescriptionLength),
		errors.Is(err, service.ErrTooManyPoints):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseQueryInt returns defaultVal when key is absent. A present value
// that is not an integer is reported and ok is false.
func parseQueryInt(c *gin.Context, key string, defaultVal int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": must be an integer"})
		return 0, false
	}
	return v, true
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.RequestIDFrom(c),
	}
}
