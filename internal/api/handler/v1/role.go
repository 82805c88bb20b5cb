package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/request"
	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/service"
)

type RoleService interface {
	CreateRole(ctx context.Context, role domain.Role) (domain.Role, error)
	GetRole(ctx context.Context, id uint) (domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	GetRoleUsers(ctx context.Context, roleID uint) ([]domain.User, error)
	UpdateRole(ctx context.Context, role domain.Role) (domain.Role, error)
	AddPermission(ctx context.Context, roleID uint, p int) (domain.Role, error)
	RemovePermission(ctx context.Context, roleID uint, p int) (domain.Role, error)
	DeleteRole(ctx context.Context, id uint) error
}

type RoleHandler struct {
	svc RoleService
}

func NewRoleHandler(svc RoleService) *RoleHandler {
	return &RoleHandler{
		svc: svc,
	}
}

// HandleCreateRole godoc
// @Summary      Create a role
// @Tags         roles
// @Produce      json
// @Param        request  body       request.CreateRoleRequest true "request body"
// @Success      201      {object}   domain.Role
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles [post]
// @Security     BearerAuth
func (h *RoleHandler) HandleCreateRole(ctx *gin.Context) {
	var req request.CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.CreateRole(ctx.Request.Context(), domain.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateRole -> h.svc.CreateRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, role)
}

// HandleGetRole godoc
// @Summary      Get a role by ID
// @Tags         roles
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Success      200      {object}   domain.Role
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID} [get]
// @Security     BearerAuth
func (h *RoleHandler) HandleGetRole(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.GetRole(ctx.Request.Context(), roleID)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRole -> h.svc.GetRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// HandleListRoles godoc
// @Summary      List all roles
// @Tags         roles
// @Produce      json
// @Success      200      {array}    domain.Role
// @Failure      500      {object}   response.Err
// @Router       /roles [get]
// @Security     BearerAuth
func (h *RoleHandler) HandleListRoles(ctx *gin.Context) {
	roles, err := h.svc.ListRoles(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRoles -> h.svc.ListRoles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

// HandleGetRoleUsers godoc
// @Summary      List users holding a role
// @Tags         roles,users
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Success      200      {array}    domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID}/users [get]
// @Security     BearerAuth
func (h *RoleHandler) HandleGetRoleUsers(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	users, err := h.svc.GetRoleUsers(ctx.Request.Context(), roleID)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRoleUsers -> h.svc.GetRoleUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleUpdateRole godoc
// @Summary      Update a role's name and description
// @Tags         roles
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Param        request  body       request.UpdateRoleRequest true "request body"
// @Success      200      {object}   domain.Role
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID} [put]
// @Security     BearerAuth
func (h *RoleHandler) HandleUpdateRole(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.GetRole(ctx.Request.Context(), roleID)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateRole -> h.svc.GetRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	role.Name = req.Name
	role.Description = req.Description

	updated, err := h.svc.UpdateRole(ctx.Request.Context(), role)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateRole -> h.svc.UpdateRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleAddPermission godoc
// @Summary      Grant a permission to a role
// @Tags         roles
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Param        request  body       request.PermissionRequest true "request body"
// @Success      200      {object}   domain.Role
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID}/permissions [post]
// @Security     BearerAuth
func (h *RoleHandler) HandleAddPermission(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.PermissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.AddPermission(ctx.Request.Context(), roleID, req.Permission)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
			return
		}

		err = fmt.Errorf("v1.HandleAddPermission -> h.svc.AddPermission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// HandleRemovePermission godoc
// @Summary      Revoke a permission from a role
// @Tags         roles
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Param        request  body       request.PermissionRequest true "request body"
// @Success      200      {object}   domain.Role
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID}/permissions [delete]
// @Security     BearerAuth
func (h *RoleHandler) HandleRemovePermission(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.PermissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.RemovePermission(ctx.Request.Context(), roleID, req.Permission)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
			return
		}

		err = fmt.Errorf("v1.HandleRemovePermission -> h.svc.RemovePermission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// HandleDeleteRole godoc
// @Summary      Delete a role
// @Description  Fails while users still hold the role.
// @Tags         roles
// @Produce      json
// @Param        roleID   path       int  true "role ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /roles/{roleID} [delete]
// @Security     BearerAuth
func (h *RoleHandler) HandleDeleteRole(ctx *gin.Context) {
	roleID, err := parseUintParam(ctx, "roleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteRole(ctx.Request.Context(), roleID); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("role", "ID", roleID))
		case errors.Is(err, service.ErrRoleInUse):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRoleInUse))
		default:
			err = fmt.Errorf("v1.HandleDeleteRole -> h.svc.DeleteRole -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
