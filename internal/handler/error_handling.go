package handler

import (
	"errors"
	"net/http"

	"acara-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	message := err.Error()
	var data any

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		data = gin.H{"errors": validationErr.Violations}
	case errors.Is(err, domain.ErrConflict):
		statusCode = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = domain.ErrUnauthorized.Error()
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = domain.ErrInternalServer.Error()
	}

	c.AbortWithStatusJSON(statusCode, Response{Message: message, Data: data})
}

func respondBadRequest(c *gin.Context, err error) {
	zap.L().Debug("Malformed request body", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{Message: "invalid request body"})
}
