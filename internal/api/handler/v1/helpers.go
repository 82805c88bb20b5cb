package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/api/middleware"
	"github.com/dskf/bookraffle-api/internal/domain"
)

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %v: %v", name, ctx.Param(name))
	}

	return uint(value), nil
}

// getUserFromContext resolves the authenticated user stored by the JWT
// middleware into a full domain user.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("not authenticated")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("not authenticated")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("not authenticated")
	}

	return user, nil
}
