package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acara-backend/internal/database"
	"acara-backend/internal/domain"
	"acara-backend/internal/hasher"
	"acara-backend/internal/service"
	"acara-backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureNotifier struct {
	sent chan domain.Account
}

func (n *captureNotifier) NotifyRegistration(_ context.Context, account *domain.Account) error {
	n.sent <- *account
	return nil
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *captureNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := hasher.New(hasher.SchemeHMAC, "handler-test-pepper")
	require.NoError(t, err)
	tokens, err := token.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)
	notifier := &captureNotifier{sent: make(chan domain.Account, 4)}

	svc := service.NewAuthService(
		database.NewMemoryAccountRepository(zap.NewNop()),
		h, tokens, notifier,
		service.Options{LoginRequireActive: true, NotificationTimeout: time.Second},
		zap.NewNop(),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})

	router := gin.New()
	NewAuthHandler(svc).RegisterRoutes(router)
	return router, notifier
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, bearer string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

const validRegistration = `{"fullName":"Ann Lee","userName":"annlee","email":"Ann@Example.com","password":"Passw0rd","confirmPassword":"Passw0rd"}`

func TestAccountLifecycleOverHTTP(t *testing.T) {
	router, notifier := setupRouter(t)

	status, resp := doJSON(t, router, http.MethodPost, "/api/auth/register", validRegistration, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Success Registration!", resp.Message)

	var registered map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &registered))
	assert.Equal(t, "ann@example.com", registered["email"])
	assert.Equal(t, false, registered["isActive"])
	assert.NotContains(t, registered, "passwordHash")
	assert.NotContains(t, registered, "activationCode")

	var sent domain.Account
	select {
	case sent = <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("registration notification was not dispatched")
	}

	status, resp = doJSON(t, router, http.MethodPost, "/api/auth/login", `{"identifier":"annlee","password":"Passw0rd"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), resp.Message)

	status, resp = doJSON(t, router, http.MethodPost, "/api/auth/activation", `{"code":"`+sent.ActivationCode+`"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User successfully activated", resp.Message)

	status, _ = doJSON(t, router, http.MethodPost, "/api/auth/activation", `{"code":"`+sent.ActivationCode+`"}`, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = doJSON(t, router, http.MethodPost, "/api/auth/login", `{"identifier":"ann@example.com","password":"Passw0rd"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Success login", resp.Message)
	var accessToken string
	require.NoError(t, json.Unmarshal(resp.Data, &accessToken))
	require.NotEmpty(t, accessToken)

	status, resp = doJSON(t, router, http.MethodGet, "/api/auth/me", "", accessToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Success get user profile", resp.Message)
	var me map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, sent.ID.String(), me["id"])
	assert.Equal(t, true, me["isActive"])
}

func TestRegisterErrors(t *testing.T) {
	router, _ := setupRouter(t)

	status, _ := doJSON(t, router, http.MethodPost, "/api/auth/register", validRegistration, "")
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Malformed body", `{"fullName":`, http.StatusBadRequest},
		{"Weak password", `{"fullName":"Bo","userName":"bob","email":"bob@example.com","password":"weak","confirmPassword":"weak"}`, http.StatusBadRequest},
		{"Mismatched confirmation", `{"fullName":"Bo","userName":"bob","email":"bob@example.com","password":"Passw0rd","confirmPassword":"Passw0rd1"}`, http.StatusBadRequest},
		{"Duplicate user name", `{"fullName":"Ann","userName":"annlee","email":"other@example.com","password":"Passw0rd","confirmPassword":"Passw0rd"}`, http.StatusConflict},
		{"Duplicate email", `{"fullName":"Ann","userName":"other","email":"ann@example.com","password":"Passw0rd","confirmPassword":"Passw0rd"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := doJSON(t, router, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.expectedStatus, status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestMeRequiresBearerToken(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"Missing header", ""},
		{"Wrong scheme", "Basic abc"},
		{"Garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, domain.ErrUnauthorized.Error(), resp.Message)
		})
	}
}

func TestActivationWithEmptyCode(t *testing.T) {
	router, _ := setupRouter(t)

	status, resp := doJSON(t, router, http.MethodPost, "/api/auth/activation", `{"code":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, resp.Message)
}
