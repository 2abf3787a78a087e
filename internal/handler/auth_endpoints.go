package handler

import (
	"errors"
	"net/http"

	"acara-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration data"
// @Success 200 {object} Response "Success Registration!"
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/auth/register [post]
func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req.payload())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.JSON(http.StatusOK, Response{Message: "Success Registration!", Data: account})
}

// @Summary Log in with email or user name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} Response "data holds the access token"
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.payload())
	if err != nil {
		status := "failure"
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			status = "invalid"
		}
		loginsTotal.WithLabelValues(status).Inc()
		handleServiceError(c, err)
		return
	}

	loginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, Response{Message: "Success login", Data: token})
}

// @Summary Activate an account with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body activationRequest true "Activation code"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/auth/activation [post]
func (h *AuthHandler) activation(c *gin.Context) {
	var req activationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	account, err := h.authService.Activate(c.Request.Context(), req.Code)
	if err != nil {
		activationsTotal.WithLabelValues("failure").Inc()
		handleServiceError(c, err)
		return
	}

	activationsTotal.WithLabelValues("success").Inc()
	zap.L().Info("Account activated via API", zap.String("accountID", account.ID.String()))
	c.JSON(http.StatusOK, Response{Message: "User successfully activated", Data: account})
}
