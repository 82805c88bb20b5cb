package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/service"
)

type TicketService interface {
	GetTicket(ctx context.Context, id uint) (domain.Ticket, error)
	CancelTicket(ctx context.Context, id uint) (domain.Ticket, error)
	ValidateTicket(ctx context.Context, id uint) (domain.Ticket, bool, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleGetTicket godoc
// @Summary      Get a ticket by ID
// @Tags         tickets
// @Produce      json
// @Param        ticketID path       int  true "ticket ID"
// @Success      200      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets/{ticketID} [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetTicket(ctx *gin.Context) {
	ticketID, err := parseUintParam(ctx, "ticketID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.GetTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
			return
		}

		err = fmt.Errorf("v1.HandleGetTicket -> h.svc.GetTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleCancelTicket godoc
// @Summary      Cancel a ticket
// @Description  Cancelling an already cancelled ticket is a no-op. A drawn winning ticket cannot be cancelled.
// @Tags         tickets
// @Produce      json
// @Param        ticketID path       int  true "ticket ID"
// @Success      200      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets/{ticketID}/cancel [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCancelTicket(ctx *gin.Context) {
	ticketID, err := parseUintParam(ctx, "ticketID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.CancelTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrWinningTicket):
			response.RenderErr(ctx, response.ErrConflict(service.ErrWinningTicket))
		default:
			err = fmt.Errorf("v1.HandleCancelTicket -> h.svc.CancelTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleValidateTicket godoc
// @Summary      Check whether a ticket is still a live entry
// @Tags         tickets
// @Produce      json
// @Param        ticketID path       int  true "ticket ID"
// @Success      200      {object}   response.TicketValidityResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets/{ticketID}/validate [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleValidateTicket(ctx *gin.Context) {
	ticketID, err := parseUintParam(ctx, "ticketID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, valid, err := h.svc.ValidateTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
			return
		}

		err = fmt.Errorf("v1.HandleValidateTicket -> h.svc.ValidateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TicketValidityResponse{
		Ticket:  ticket,
		IsValid: valid,
	})
}
