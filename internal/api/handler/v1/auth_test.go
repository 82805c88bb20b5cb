package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/config"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/pkg/jwthelper"
	"github.com/dskf/bookraffle-api/internal/service"
)

type stubAuthService struct {
	user      domain.User
	signupErr error
	loginErr  error
}

func (s *stubAuthService) Signup(_ context.Context, _ domain.User) (domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (domain.User, error) {
	return s.user, s.loginErr
}

func newAuthTestRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewAuthHandler(&config.APIConfig{JWTSigningKey: "test-signing-key"}, svc)
	router.POST("/auth/signup", handler.HandleSignup)
	router.POST("/auth/login", handler.HandleLogin)

	return router
}

func TestHandleSignup(t *testing.T) {
	validBody := `{
		"email_address": "reader@example.com",
		"password": "secret1234",
		"confirm_password": "secret1234",
		"first_name": "Ada",
		"last_name": "Reader"
	}`

	tests := []struct {
		name         string
		body         string
		svcErr       error
		expectedCode int
	}{
		{"created", validBody, nil, http.StatusCreated},
		{"duplicate email", validBody, service.ErrUserEmailExists, http.StatusConflict},
		{"weak password", `{"email_address":"reader@example.com","password":"short","confirm_password":"short","first_name":"Ada","last_name":"Reader"}`, nil, http.StatusBadRequest},
		{"missing email", `{"password":"secret1234","confirm_password":"secret1234","first_name":"Ada","last_name":"Reader"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&stubAuthService{
				user:      domain.User{ID: 1, EmailAddress: "reader@example.com"},
				signupErr: tt.svcErr,
			})

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandleLogin(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{user: domain.User{ID: 42}})

	body := `{"email_address":"reader@example.com","password":"secret1234"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.User.ID)

	claims, err := jwthelper.ParseToken([]byte("test-signing-key"), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "test-agent", claims.UserAgent)
}

func TestHandleLogin_WrongCredentials(t *testing.T) {
	tests := []struct {
		name   string
		svcErr error
	}{
		{"unknown user", service.ErrUserNotFound},
		{"wrong password", service.ErrWrongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&stubAuthService{loginErr: tt.svcErr})

			body := `{"email_address":"reader@example.com","password":"secret1234"}`
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
