package handler

import (
	"net/http"

	"acara-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Current account profile
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h *AuthHandler) me(c *gin.Context) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		handleServiceError(c, domain.ErrUnauthorized)
		return
	}

	zap.L().Debug("Handling /me request", zap.String("accountID", identity.ID.String()))

	account, err := h.authService.Me(c.Request.Context(), identity.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Message: "Success get user profile", Data: account})
}
