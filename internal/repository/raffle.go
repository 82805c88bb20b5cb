package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

var (
	ErrRaffleNotFound      = dao.ErrRaffleNotFound
	ErrRaffleClosed        = dao.ErrRaffleClosed
	ErrRaffleNotOngoing    = dao.ErrRaffleNotOngoing
	ErrRaffleFull          = dao.ErrRaffleFull
	ErrTicketNotFound      = dao.ErrTicketNotFound
	ErrWinningTicket       = dao.ErrWinningTicket
	ErrInsufficientBalance = dao.ErrInsufficientBalance
)

type RaffleDAO interface {
	Insert(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	FindByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindAll(ctx context.Context) ([]dao.Raffle, error)
	Update(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	Activate(ctx context.Context, id uint) (dao.Raffle, error)
	Deactivate(ctx context.Context, id uint) (dao.Raffle, error)
	Close(ctx context.Context, id uint) (dao.Raffle, *dao.Ticket, error)
	PurchaseTicket(ctx context.Context, raffleID, userID uint) (dao.Ticket, error)
	FindTickets(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	FindTicketByID(ctx context.Context, id uint) (dao.Ticket, error)
	CancelTicket(ctx context.Context, id uint) (dao.Ticket, error)
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func raffleDomainToDao(r domain.Raffle) dao.Raffle {
	return dao.Raffle{
		ID:               r.ID,
		BookID:           r.BookID,
		ParticipantLimit: r.ParticipantLimit,
		Price:            r.Price,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		IsActive:         r.IsActive,
		IsClosed:         r.IsClosed,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func raffleDaoToDomain(r dao.Raffle) domain.Raffle {
	raffle := domain.Raffle{
		ID:               r.ID,
		BookID:           r.BookID,
		ParticipantLimit: r.ParticipantLimit,
		Price:            r.Price,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		IsActive:         r.IsActive,
		IsClosed:         r.IsClosed,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	for _, t := range r.Tickets {
		raffle.Tickets = append(raffle.Tickets, ticketDaoToDomain(t))
	}

	return raffle
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:              t.ID,
		RaffleID:        t.RaffleID,
		UserID:          t.UserID,
		UniqueNumber:    t.UniqueNumber,
		IsWinningTicket: t.IsWinningTicket,
		IsCancelled:     t.IsCancelled,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r *RaffleRepository) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := r.dao.Insert(ctx, raffleDomainToDao(raffle))
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return raffleDaoToDomain(created), nil
}

func (r *RaffleRepository) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return raffleDaoToDomain(found), nil
}

func (r *RaffleRepository) FindAll(ctx context.Context) ([]domain.Raffle, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	raffles := make([]domain.Raffle, len(found))
	for i, raffle := range found {
		raffles[i] = raffleDaoToDomain(raffle)
	}

	return raffles, nil
}

func (r *RaffleRepository) Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	updated, err := r.dao.Update(ctx, raffleDomainToDao(raffle))
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return raffleDaoToDomain(updated), nil
}

func (r *RaffleRepository) Activate(ctx context.Context, id uint) (domain.Raffle, error) {
	activated, err := r.dao.Activate(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Activate -> %w", err)
	}

	return raffleDaoToDomain(activated), nil
}

func (r *RaffleRepository) Deactivate(ctx context.Context, id uint) (domain.Raffle, error) {
	deactivated, err := r.dao.Deactivate(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Deactivate -> %w", err)
	}

	return raffleDaoToDomain(deactivated), nil
}

// Close ends the raffle and returns it along with the winning ticket,
// if any ticket was eligible for the draw.
func (r *RaffleRepository) Close(ctx context.Context, id uint) (domain.Raffle, *domain.Ticket, error) {
	closed, winner, err := r.dao.Close(ctx, id)
	if err != nil {
		return domain.Raffle{}, nil, fmt.Errorf("r.dao.Close -> %w", err)
	}

	var winningTicket *domain.Ticket
	if winner != nil {
		t := ticketDaoToDomain(*winner)
		winningTicket = &t
	}

	return raffleDaoToDomain(closed), winningTicket, nil
}

func (r *RaffleRepository) PurchaseTicket(ctx context.Context, raffleID, userID uint) (domain.Ticket, error) {
	ticket, err := r.dao.PurchaseTicket(ctx, raffleID, userID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.PurchaseTicket -> %w", err)
	}

	return ticketDaoToDomain(ticket), nil
}

func (r *RaffleRepository) FindTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindTickets(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTickets -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = ticketDaoToDomain(t)
	}

	return tickets, nil
}

func (r *RaffleRepository) FindTicketByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.FindTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindTicketByID -> %w", err)
	}

	return ticketDaoToDomain(found), nil
}

func (r *RaffleRepository) CancelTicket(ctx context.Context, id uint) (domain.Ticket, error) {
	cancelled, err := r.dao.CancelTicket(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.CancelTicket -> %w", err)
	}

	return ticketDaoToDomain(cancelled), nil
}
