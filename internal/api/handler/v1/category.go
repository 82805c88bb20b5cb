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

type CategoryService interface {
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, id uint) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBooks(ctx context.Context, categoryID uint) ([]domain.Book, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{
		svc: svc,
	}
}

// HandleCreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Produce      json
// @Param        request  body       request.CreateCategoryRequest true "request body"
// @Success      201      {object}   domain.Category
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /categories [post]
// @Security     BearerAuth
func (h *CategoryHandler) HandleCreateCategory(ctx *gin.Context) {
	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.CreateCategory(ctx.Request.Context(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCategory -> h.svc.CreateCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// HandleGetCategory godoc
// @Summary      Get a category by ID
// @Tags         categories
// @Produce      json
// @Param        categoryID path     int  true "category ID"
// @Success      200      {object}   domain.Category
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /categories/{categoryID} [get]
// @Security     BearerAuth
func (h *CategoryHandler) HandleGetCategory(ctx *gin.Context) {
	categoryID, err := parseUintParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.GetCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCategory -> h.svc.GetCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// HandleListCategories godoc
// @Summary      List all categories
// @Tags         categories
// @Produce      json
// @Success      200      {array}    domain.Category
// @Failure      500      {object}   response.Err
// @Router       /categories [get]
// @Security     BearerAuth
func (h *CategoryHandler) HandleListCategories(ctx *gin.Context) {
	categories, err := h.svc.ListCategories(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCategories -> h.svc.ListCategories -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleGetCategoryBooks godoc
// @Summary      List a category's books
// @Tags         categories,books
// @Produce      json
// @Param        categoryID path     int  true "category ID"
// @Success      200      {array}    domain.Book
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /categories/{categoryID}/books [get]
// @Security     BearerAuth
func (h *CategoryHandler) HandleGetCategoryBooks(ctx *gin.Context) {
	categoryID, err := parseUintParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	books, err := h.svc.GetCategoryBooks(ctx.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCategoryBooks -> h.svc.GetCategoryBooks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, books)
}

// HandleUpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Produce      json
// @Param        categoryID path     int  true "category ID"
// @Param        request  body       request.CreateCategoryRequest true "request body"
// @Success      200      {object}   domain.Category
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /categories/{categoryID} [put]
// @Security     BearerAuth
func (h *CategoryHandler) HandleUpdateCategory(ctx *gin.Context) {
	categoryID, err := parseUintParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.GetCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateCategory -> h.svc.GetCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	category.Name = req.Name
	category.Description = req.Description

	updated, err := h.svc.UpdateCategory(ctx.Request.Context(), category)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateCategory -> h.svc.UpdateCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCategory godoc
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Param        categoryID path     int  true "category ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /categories/{categoryID} [delete]
// @Security     BearerAuth
func (h *CategoryHandler) HandleDeleteCategory(ctx *gin.Context) {
	categoryID, err := parseUintParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteCategory(ctx.Request.Context(), categoryID); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteCategory -> h.svc.DeleteCategory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
