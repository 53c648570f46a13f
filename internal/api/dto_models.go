package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/core"
	"investing-journal-go/internal/storage"
)

// ErrorResponse is the JSON shape of every error crossing the boundary.
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error to an HTTP status and a JSON
// {message} body. All handlers report errors through this single mapper;
// unknown errors become a generic 500 with the detail kept server-side.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	switch {
	case errors.Is(err, core.ErrValidation):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrDuplicateVaultName):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrIncorrectPassword):
		statusCode = http.StatusForbidden
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrVaultNotFound),
		errors.Is(err, core.ErrThesisPointNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, core.ErrOwnershipMismatch):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, storage.ErrInvalidMimeType):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrSizeExceeded):
		statusCode = http.StatusRequestEntityTooLarge
	default:
		logger.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "An unexpected internal server error occurred"})
		return
	}
	c.JSON(statusCode, ErrorResponse{Message: err.Error()})
}

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User ID not found in context"})
		return "", false
	}
	return userID.(string), true
}
