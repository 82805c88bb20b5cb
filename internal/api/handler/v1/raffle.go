package v1

import (
	"bytes"
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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RaffleService interface {
	OpenRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	GetRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	ListRaffles(ctx context.Context) ([]domain.Raffle, error)
	UpdateRaffle(ctx context.Context, id uint, participantLimit int, price float64) (domain.Raffle, error)
	ActivateRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	DeactivateRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	CloseRaffle(ctx context.Context, id uint) (domain.Raffle, *domain.Ticket, error)
	PurchaseTicket(ctx context.Context, raffleID, userID uint) (domain.Ticket, error)
	GetRaffleTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
}

type ReportService interface {
	BuildRaffleReport(ctx context.Context, raffleID uint) (*bytes.Buffer, error)
}

type RaffleHandler struct {
	svc     RaffleService
	users   UserService
	reports ReportService
}

func NewRaffleHandler(svc RaffleService, users UserService, reports ReportService) *RaffleHandler {
	return &RaffleHandler{
		svc:     svc,
		users:   users,
		reports: reports,
	}
}

// HandleOpenRaffle godoc
// @Summary      Open a raffle for a book
// @Description  The raffle starts out inactive and sells no tickets until activated.
// @Tags         raffles
// @Produce      json
// @Param        request  body       request.OpenRaffleRequest true "request body"
// @Success      201      {object}   domain.Raffle
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleOpenRaffle(ctx *gin.Context) {
	var req request.OpenRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.OpenRaffle(ctx.Request.Context(), domain.Raffle{
		BookID:           req.BookID,
		ParticipantLimit: req.ParticipantLimit,
		Price:            req.Price,
	})
	if err != nil {
		if errors.Is(err, service.ErrRaffleValidation) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleOpenRaffle -> h.svc.OpenRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, raffle)
}

// HandleGetRaffle godoc
// @Summary      Get a raffle by ID
// @Tags         raffles
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {object}   domain.Raffle
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID} [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetRaffle(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.GetRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffle -> h.svc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleListRaffles godoc
// @Summary      List all raffles
// @Tags         raffles
// @Produce      json
// @Success      200      {array}    domain.Raffle
// @Failure      500      {object}   response.Err
// @Router       /raffles [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleListRaffles(ctx *gin.Context) {
	raffles, err := h.svc.ListRaffles(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRaffles -> h.svc.ListRaffles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffles)
}

// HandleUpdateRaffle godoc
// @Summary      Update a raffle's participant limit and price
// @Description  Fails once the raffle is closed.
// @Tags         raffles
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Param        request  body       request.UpdateRaffleRequest true "request body"
// @Success      200      {object}   domain.Raffle
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID} [put]
// @Security     BearerAuth
func (h *RaffleHandler) HandleUpdateRaffle(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.UpdateRaffle(ctx.Request.Context(), raffleID, req.ParticipantLimit, req.Price)
	if err != nil {
		if errors.Is(err, service.ErrRaffleValidation) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderLifecycleErr(ctx, "v1.HandleUpdateRaffle", raffleID, err)
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleActivateRaffle godoc
// @Summary      Activate a raffle
// @Description  Opens ticket sales. Fails once the raffle is closed.
// @Tags         raffles
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {object}   domain.Raffle
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/activate [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleActivateRaffle(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.ActivateRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		h.renderLifecycleErr(ctx, "v1.HandleActivateRaffle", raffleID, err)
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleDeactivateRaffle godoc
// @Summary      Deactivate a raffle
// @Description  Suspends ticket sales without closing the raffle.
// @Tags         raffles
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {object}   domain.Raffle
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/deactivate [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDeactivateRaffle(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, err := h.svc.DeactivateRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		h.renderLifecycleErr(ctx, "v1.HandleDeactivateRaffle", raffleID, err)
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleCloseRaffle godoc
// @Summary      Close a raffle and draw the winner
// @Description  Draws one winner from the non-cancelled tickets. A second close attempt fails.
// @Tags         raffles
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {object}   response.CloseRaffleResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/close [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCloseRaffle(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	raffle, winner, err := h.svc.CloseRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		h.renderLifecycleErr(ctx, "v1.HandleCloseRaffle", raffleID, err)
		return
	}

	ctx.JSON(http.StatusOK, response.CloseRaffleResponse{
		Raffle:        raffle,
		WinningTicket: winner,
	})
}

// HandlePurchaseTicket godoc
// @Summary      Buy a ticket in a raffle
// @Description  Fails when the raffle is not selling or has reached its participant limit.
// @Tags         raffles,tickets
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      201      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/tickets [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandlePurchaseTicket(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, respErr := getUserFromContext(ctx, h.users)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticket, err := h.svc.PurchaseTicket(ctx.Request.Context(), raffleID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
		case errors.Is(err, service.ErrRaffleNotOngoing):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRaffleNotOngoing))
		case errors.Is(err, service.ErrRaffleFull):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRaffleFull))
		case errors.Is(err, service.ErrInsufficientBalance):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInsufficientBalance))
		default:
			err = fmt.Errorf("v1.HandlePurchaseTicket -> h.svc.PurchaseTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleGetRaffleTickets godoc
// @Summary      List a raffle's tickets
// @Tags         raffles,tickets
// @Produce      json
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {array}    domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/tickets [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetRaffleTickets(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tickets, err := h.svc.GetRaffleTickets(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffleTickets -> h.svc.GetRaffleTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetRaffleReport godoc
// @Summary      Download a raffle's results as an xlsx workbook
// @Tags         raffles
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        raffleID path       int  true "raffle ID"
// @Success      200      {file}     binary
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /raffles/{raffleID}/report [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetRaffleReport(ctx *gin.Context) {
	raffleID, err := parseUintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	buf, err := h.reports.BuildRaffleReport(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffleReport -> h.reports.BuildRaffleReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	filename := fmt.Sprintf("raffle-%d-results.xlsx", raffleID)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *RaffleHandler) renderLifecycleErr(ctx *gin.Context, op string, raffleID uint, err error) {
	switch {
	case errors.Is(err, service.ErrRaffleNotFound):
		response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
	case errors.Is(err, service.ErrRaffleClosed):
		response.RenderErr(ctx, response.ErrConflict(service.ErrRaffleClosed))
	default:
		err = fmt.Errorf("%s -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
