package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dskf/bookraffle-api/internal/domain"
)

type stubUserLoader struct {
	user domain.User
	err  error
}

func (s *stubUserLoader) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, s.err
}

func newGateRouter(loader UserLoader, permission int, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if authenticated {
		router.Use(func(ctx *gin.Context) {
			ctx.Set(ContextKeyUserID, uint(1))
		})
	}
	router.GET("/guarded", NewPermissionGate(loader).Require(permission), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return router
}

func TestPermissionGate(t *testing.T) {
	moderator := domain.User{
		ID:   1,
		Role: domain.Role{Permissions: domain.PermissionVisit | domain.PermissionMember | domain.PermissionModerate},
	}

	tests := []struct {
		name          string
		loader        UserLoader
		permission    int
		authenticated bool
		expectedCode  int
	}{
		{
			name:          "permission granted",
			loader:        &stubUserLoader{user: moderator},
			permission:    domain.PermissionModerate,
			authenticated: true,
			expectedCode:  http.StatusOK,
		},
		{
			name:          "permission missing",
			loader:        &stubUserLoader{user: moderator},
			permission:    domain.PermissionAdmin,
			authenticated: true,
			expectedCode:  http.StatusForbidden,
		},
		{
			name:          "not authenticated",
			loader:        &stubUserLoader{user: moderator},
			permission:    domain.PermissionModerate,
			authenticated: false,
			expectedCode:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGateRouter(tt.loader, tt.permission, tt.authenticated)

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
