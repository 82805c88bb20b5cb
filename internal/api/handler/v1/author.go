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

type AuthorService interface {
	CreateAuthor(ctx context.Context, author domain.Author) (domain.Author, error)
	GetAuthor(ctx context.Context, id uint) (domain.Author, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	GetAuthorBooks(ctx context.Context, authorID uint) ([]domain.Book, error)
	UpdateAuthor(ctx context.Context, author domain.Author) (domain.Author, error)
	DeleteAuthor(ctx context.Context, id uint) error
}

type AuthorHandler struct {
	svc AuthorService
}

func NewAuthorHandler(svc AuthorService) *AuthorHandler {
	return &AuthorHandler{
		svc: svc,
	}
}

// HandleCreateAuthor godoc
// @Summary      Create an author
// @Tags         authors
// @Produce      json
// @Param        request  body       request.CreateAuthorRequest true "request body"
// @Success      201      {object}   domain.Author
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /authors [post]
// @Security     BearerAuth
func (h *AuthorHandler) HandleCreateAuthor(ctx *gin.Context) {
	var req request.CreateAuthorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	author, err := h.svc.CreateAuthor(ctx.Request.Context(), domain.Author{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		EmailAddress: req.EmailAddress,
		PhoneNumber:  req.PhoneNumber,
		Nationality:  req.Nationality,
		Summary:      req.Summary,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateAuthor -> h.svc.CreateAuthor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, author)
}

// HandleGetAuthor godoc
// @Summary      Get an author by ID
// @Tags         authors
// @Produce      json
// @Param        authorID path       int  true "author ID"
// @Success      200      {object}   domain.Author
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /authors/{authorID} [get]
// @Security     BearerAuth
func (h *AuthorHandler) HandleGetAuthor(ctx *gin.Context) {
	authorID, err := parseUintParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	author, err := h.svc.GetAuthor(ctx.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("author", "ID", authorID))
			return
		}

		err = fmt.Errorf("v1.HandleGetAuthor -> h.svc.GetAuthor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, author)
}

// HandleListAuthors godoc
// @Summary      List all authors
// @Tags         authors
// @Produce      json
// @Success      200      {array}    domain.Author
// @Failure      500      {object}   response.Err
// @Router       /authors [get]
// @Security     BearerAuth
func (h *AuthorHandler) HandleListAuthors(ctx *gin.Context) {
	authors, err := h.svc.ListAuthors(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAuthors -> h.svc.ListAuthors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, authors)
}

// HandleGetAuthorBooks godoc
// @Summary      List an author's books
// @Tags         authors,books
// @Produce      json
// @Param        authorID path       int  true "author ID"
// @Success      200      {array}    domain.Book
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /authors/{authorID}/books [get]
// @Security     BearerAuth
func (h *AuthorHandler) HandleGetAuthorBooks(ctx *gin.Context) {
	authorID, err := parseUintParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	books, err := h.svc.GetAuthorBooks(ctx.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("author", "ID", authorID))
			return
		}

		err = fmt.Errorf("v1.HandleGetAuthorBooks -> h.svc.GetAuthorBooks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, books)
}

// HandleUpdateAuthor godoc
// @Summary      Update an author
// @Tags         authors
// @Produce      json
// @Param        authorID path       int  true "author ID"
// @Param        request  body       request.CreateAuthorRequest true "request body"
// @Success      200      {object}   domain.Author
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /authors/{authorID} [put]
// @Security     BearerAuth
func (h *AuthorHandler) HandleUpdateAuthor(ctx *gin.Context) {
	authorID, err := parseUintParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.CreateAuthorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	author, err := h.svc.GetAuthor(ctx.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("author", "ID", authorID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateAuthor -> h.svc.GetAuthor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	author.FirstName = req.FirstName
	author.MiddleName = req.MiddleName
	author.LastName = req.LastName
	author.Gender = req.Gender
	author.EmailAddress = req.EmailAddress
	author.PhoneNumber = req.PhoneNumber
	author.Nationality = req.Nationality
	author.Summary = req.Summary

	updated, err := h.svc.UpdateAuthor(ctx.Request.Context(), author)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateAuthor -> h.svc.UpdateAuthor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteAuthor godoc
// @Summary      Delete an author
// @Tags         authors
// @Produce      json
// @Param        authorID path       int  true "author ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /authors/{authorID} [delete]
// @Security     BearerAuth
func (h *AuthorHandler) HandleDeleteAuthor(ctx *gin.Context) {
	authorID, err := parseUintParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteAuthor(ctx.Request.Context(), authorID); err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("author", "ID", authorID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteAuthor -> h.svc.DeleteAuthor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
