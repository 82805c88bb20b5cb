package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/domain"
)

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// PermissionGate loads the authenticated user and checks their role's
// bitmask. Must run after VerifyJWT.
type PermissionGate struct {
	users UserLoader
}

func NewPermissionGate(users UserLoader) *PermissionGate {
	return &PermissionGate{
		users: users,
	}
}

func (g *PermissionGate) Require(permission int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(ContextKeyUserID)
		userID, ok := value.(uint)
		if !exists || !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("not authenticated"))
			return
		}

		user, err := g.users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("not authenticated"))
			return
		}

		if !user.Can(permission) {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				fmt.Errorf("user %v lacks required permission", user.ID)))
			return
		}

		ctx.Next()
	}
}
