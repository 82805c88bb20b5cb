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
	"github.com/dskf/bookraffle-api/internal/pkg/filestore"
	"github.com/dskf/bookraffle-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateProfileImage(ctx context.Context, id uint, filename string) error
	DeleteUser(ctx context.Context, id uint) error
	GetUserTickets(ctx context.Context, userID uint) ([]domain.Ticket, error)
	GetUserTasks(ctx context.Context, userID uint) ([]domain.Task, error)
}

type UserHandler struct {
	svc   UserService
	files *filestore.Store
}

func NewUserHandler(svc UserService, files *filestore.Store) *UserHandler {
	return &UserHandler{
		svc:   svc,
		files: files,
	}
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      500      {object}   response.Err
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleUpdateUser godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Produce      json
// @Param        request  body       request.UpdateUserRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me [put]
// @Security     BearerAuth
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateUser(ctx.Request.Context(), domain.User{
		ID:          user.ID,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		PhoneNumber: req.PhoneNumber,
		Nationality: req.Nationality,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUploadProfileImage godoc
// @Summary      Upload the authenticated user's profile image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "profile image"
// @Success      200    {object}  domain.User
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /users/me/image [post]
// @Security     BearerAuth
func (h *UserHandler) HandleUploadProfileImage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	filename, err := h.files.SaveImage(ctx, fileHeader, "profiles")
	if err != nil {
		if errors.Is(err, filestore.ErrUnsupportedType) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUploadProfileImage -> h.files.SaveImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if err := h.svc.UpdateProfileImage(ctx.Request.Context(), user.ID, filename); err != nil {
		err = fmt.Errorf("v1.HandleUploadProfileImage -> h.svc.UpdateProfileImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if user.ProfileImage != "" {
		h.files.Remove(user.ProfileImage)
	}

	user.ProfileImage = filename
	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Description  Fails while the user still holds live tickets in open raffles.
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrUserHasLiveEntry):
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserHasLiveEntry))
		default:
			err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetUserTicketsByID godoc
// @Summary      List a user's tickets
// @Tags         users,tickets
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {array}    domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/tickets [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUserTicketsByID(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tickets, err := h.svc.GetUserTickets(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUserTicketsByID -> h.svc.GetUserTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetUserTasksByID godoc
// @Summary      List a user's tasks
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {array}    domain.Task
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/tasks [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUserTasksByID(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tasks, err := h.svc.GetUserTasks(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUserTasksByID -> h.svc.GetUserTasks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// HandleGetUserTickets godoc
// @Summary      List the authenticated user's tickets
// @Tags         users,tickets
// @Produce      json
// @Success      200      {array}    domain.Ticket
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/tickets [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUserTickets(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.GetUserTickets(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUserTickets -> h.svc.GetUserTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetUserTasks godoc
// @Summary      List the authenticated user's tasks
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.Task
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/tasks [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUserTasks(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tasks, err := h.svc.GetUserTasks(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUserTasks -> h.svc.GetUserTasks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}
