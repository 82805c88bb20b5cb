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

type BookService interface {
	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	GetBook(ctx context.Context, id uint) (domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	SearchBooks(ctx context.Context, query string) ([]domain.Book, error)
	GetBookAuthors(ctx context.Context, bookID uint) ([]domain.Author, error)
	GetBookCategories(ctx context.Context, bookID uint) ([]domain.Category, error)
	AddBookAuthor(ctx context.Context, bookID, authorID uint) error
	AddBookCategory(ctx context.Context, bookID, categoryID uint) error
	UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	UpdateCoverImage(ctx context.Context, id uint, filename string) error
	DeleteBook(ctx context.Context, id uint) error
}

type BookHandler struct {
	svc   BookService
	files *filestore.Store
}

func NewBookHandler(svc BookService, files *filestore.Store) *BookHandler {
	return &BookHandler{
		svc:   svc,
		files: files,
	}
}

// HandleCreateBook godoc
// @Summary      Create a book
// @Tags         books
// @Produce      json
// @Param        request  body       request.CreateBookRequest true "request body"
// @Success      201      {object}   domain.Book
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books [post]
// @Security     BearerAuth
func (h *BookHandler) HandleCreateBook(ctx *gin.Context) {
	var req request.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.CreateBook(ctx.Request.Context(), domain.Book{
		Title:         req.Title,
		Summary:       req.Summary,
		Publisher:     req.Publisher,
		YearPublished: req.YearPublished,
		Edition:       req.Edition,
		IsActive:      true,
	})
	if err != nil {
		if errors.Is(err, service.ErrBookValidation) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateBook -> h.svc.CreateBook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	for _, authorID := range req.AuthorIDs {
		if err := h.svc.AddBookAuthor(ctx.Request.Context(), book.ID, authorID); err != nil {
			if errors.Is(err, service.ErrAuthorNotFound) {
				response.RenderErr(ctx, response.ErrNotFound("author", "ID", authorID))
				return
			}

			err = fmt.Errorf("v1.HandleCreateBook -> h.svc.AddBookAuthor -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
	}

	for _, categoryID := range req.CategoryIDs {
		if err := h.svc.AddBookCategory(ctx.Request.Context(), book.ID, categoryID); err != nil {
			if errors.Is(err, service.ErrCategoryNotFound) {
				response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
				return
			}

			err = fmt.Errorf("v1.HandleCreateBook -> h.svc.AddBookCategory -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
	}

	ctx.JSON(http.StatusCreated, book)
}

// HandleGetBook godoc
// @Summary      Get a book by ID
// @Tags         books
// @Produce      json
// @Param        bookID   path       int  true "book ID"
// @Success      200      {object}   domain.Book
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books/{bookID} [get]
// @Security     BearerAuth
func (h *BookHandler) HandleGetBook(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.GetBook(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBook -> h.svc.GetBook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, book)
}

// HandleListBooks godoc
// @Summary      List books, optionally filtered by a search query
// @Tags         books
// @Produce      json
// @Param        q   query      string  false "search query"
// @Success      200 {array}    domain.Book
// @Failure      500 {object}   response.Err
// @Router       /books [get]
// @Security     BearerAuth
func (h *BookHandler) HandleListBooks(ctx *gin.Context) {
	books, err := h.svc.SearchBooks(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListBooks -> h.svc.SearchBooks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, books)
}

// HandleGetBookAuthors godoc
// @Summary      List a book's authors
// @Tags         books,authors
// @Produce      json
// @Param        bookID   path       int  true "book ID"
// @Success      200      {array}    domain.Author
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books/{bookID}/authors [get]
// @Security     BearerAuth
func (h *BookHandler) HandleGetBookAuthors(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	authors, err := h.svc.GetBookAuthors(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBookAuthors -> h.svc.GetBookAuthors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, authors)
}

// HandleGetBookCategories godoc
// @Summary      List a book's categories
// @Tags         books,categories
// @Produce      json
// @Param        bookID   path       int  true "book ID"
// @Success      200      {array}    domain.Category
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books/{bookID}/categories [get]
// @Security     BearerAuth
func (h *BookHandler) HandleGetBookCategories(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	categories, err := h.svc.GetBookCategories(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBookCategories -> h.svc.GetBookCategories -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleUpdateBook godoc
// @Summary      Update a book
// @Tags         books
// @Produce      json
// @Param        bookID   path       int  true "book ID"
// @Param        request  body       request.UpdateBookRequest true "request body"
// @Success      200      {object}   domain.Book
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books/{bookID} [put]
// @Security     BearerAuth
func (h *BookHandler) HandleUpdateBook(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.GetBook(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateBook -> h.svc.GetBook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	book.Title = req.Title
	book.Summary = req.Summary
	book.Publisher = req.Publisher
	book.YearPublished = req.YearPublished
	book.Edition = req.Edition

	updated, err := h.svc.UpdateBook(ctx.Request.Context(), book)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateBook -> h.svc.UpdateBook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUploadCoverImage godoc
// @Summary      Upload a book's cover image
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Param        bookID path      int   true "book ID"
// @Param        image  formData  file  true "cover image"
// @Success      200    {object}  domain.Book
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /books/{bookID}/image [post]
// @Security     BearerAuth
func (h *BookHandler) HandleUploadCoverImage(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.GetBook(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleUploadCoverImage -> h.svc.GetBook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	filename, err := h.files.SaveImage(ctx, fileHeader, "covers")
	if err != nil {
		if errors.Is(err, filestore.ErrUnsupportedType) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUploadCoverImage -> h.files.SaveImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if err := h.svc.UpdateCoverImage(ctx.Request.Context(), bookID, filename); err != nil {
		err = fmt.Errorf("v1.HandleUploadCoverImage -> h.svc.UpdateCoverImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if book.CoverImage != "" {
		h.files.Remove(book.CoverImage)
	}

	book.CoverImage = filename
	ctx.JSON(http.StatusOK, book)
}

// HandleDeleteBook godoc
// @Summary      Delete a book
// @Description  Fails while open raffles still reference the book.
// @Tags         books
// @Produce      json
// @Param        bookID   path       int  true "book ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /books/{bookID} [delete]
// @Security     BearerAuth
func (h *BookHandler) HandleDeleteBook(ctx *gin.Context) {
	bookID, err := parseUintParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteBook(ctx.Request.Context(), bookID); err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
		case errors.Is(err, service.ErrBookHasOpenRaffles):
			response.RenderErr(ctx, response.ErrConflict(service.ErrBookHasOpenRaffles))
		default:
			err = fmt.Errorf("v1.HandleDeleteBook -> h.svc.DeleteBook -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
