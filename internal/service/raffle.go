package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var (
	ErrRaffleNotFound      = repository.ErrRaffleNotFound
	ErrRaffleClosed        = repository.ErrRaffleClosed
	ErrRaffleNotOngoing    = repository.ErrRaffleNotOngoing
	ErrRaffleFull          = repository.ErrRaffleFull
	ErrTicketNotFound      = repository.ErrTicketNotFound
	ErrWinningTicket       = repository.ErrWinningTicket
	ErrInsufficientBalance = repository.ErrInsufficientBalance
	ErrRaffleValidation    = errors.New("raffle validation failed")
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindAll(ctx context.Context) ([]domain.Raffle, error)
	Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	Activate(ctx context.Context, id uint) (domain.Raffle, error)
	Deactivate(ctx context.Context, id uint) (domain.Raffle, error)
	Close(ctx context.Context, id uint) (domain.Raffle, *domain.Ticket, error)
	PurchaseTicket(ctx context.Context, raffleID, userID uint) (domain.Ticket, error)
	FindTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	FindTicketByID(ctx context.Context, id uint) (domain.Ticket, error)
	CancelTicket(ctx context.Context, id uint) (domain.Ticket, error)
}

type RaffleBookRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Book, error)
}

// WinnerNotifier delivers the win to the ticket holder, typically by
// persisting a notification and pushing it over the live stream.
type WinnerNotifier interface {
	NotifyWinner(ctx context.Context, raffle domain.Raffle, ticket domain.Ticket)
}

type RaffleService struct {
	repo     RaffleRepository
	books    RaffleBookRepository
	notifier WinnerNotifier
}

func NewRaffleService(repo RaffleRepository, books RaffleBookRepository, notifier WinnerNotifier) *RaffleService {
	return &RaffleService{
		repo:     repo,
		books:    books,
		notifier: notifier,
	}
}

// OpenRaffle creates a raffle in the inactive state. The book must
// exist, the participant limit must be positive and the price cannot be
// negative.
func (s *RaffleService) OpenRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	if raffle.ParticipantLimit <= 0 || raffle.Price < 0 || raffle.BookID == 0 {
		return domain.Raffle{}, ErrRaffleValidation
	}

	if _, err := s.books.FindByID(ctx, raffle.BookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return domain.Raffle{}, ErrRaffleValidation
		}

		return domain.Raffle{}, fmt.Errorf("s.books.FindByID -> %w", err)
	}

	raffle.IsActive = false
	raffle.IsClosed = false
	raffle.EndTime = nil

	created, err := s.repo.Create(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RaffleService) GetRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return raffle, nil
}

func (s *RaffleService) ListRaffles(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return raffles, nil
}

// UpdateRaffle adjusts the participant limit and price of a raffle that
// has not closed yet.
func (s *RaffleService) UpdateRaffle(ctx context.Context, id uint, participantLimit int, price float64) (domain.Raffle, error) {
	if participantLimit <= 0 || price < 0 {
		return domain.Raffle{}, ErrRaffleValidation
	}

	raffle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if raffle.IsClosed {
		return domain.Raffle{}, ErrRaffleClosed
	}

	raffle.ParticipantLimit = participantLimit
	raffle.Price = price

	updated, err := s.repo.Update(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RaffleService) ActivateRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.Activate(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Activate -> %w", err)
	}

	return raffle, nil
}

func (s *RaffleService) DeactivateRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Deactivate -> %w", err)
	}

	return raffle, nil
}

// CloseRaffle draws the winner and moves the raffle to its terminal
// state. The winner, when one exists, gets notified after the draw has
// been committed.
func (s *RaffleService) CloseRaffle(ctx context.Context, id uint) (domain.Raffle, *domain.Ticket, error) {
	raffle, winner, err := s.repo.Close(ctx, id)
	if err != nil {
		return domain.Raffle{}, nil, fmt.Errorf("s.repo.Close -> %w", err)
	}

	if winner != nil && s.notifier != nil {
		s.notifier.NotifyWinner(ctx, raffle, *winner)
	}

	return raffle, winner, nil
}

// PurchaseTicket enters the user into the raffle. The ticket price is
// debited from the holder's account balance in the same transaction
// that reserves the slot.
func (s *RaffleService) PurchaseTicket(ctx context.Context, raffleID, userID uint) (domain.Ticket, error) {
	ticket, err := s.repo.PurchaseTicket(ctx, raffleID, userID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.PurchaseTicket -> %w", err)
	}

	return ticket, nil
}

func (s *RaffleService) GetRaffleTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindTickets(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTickets -> %w", err)
	}

	return tickets, nil
}

func (s *RaffleService) GetTicket(ctx context.Context, id uint) (domain.Ticket, error) {
	ticket, err := s.repo.FindTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindTicketByID -> %w", err)
	}

	return ticket, nil
}

// CancelTicket frees the holder's slot and refunds the ticket price.
// Cancelling an already cancelled ticket changes nothing.
func (s *RaffleService) CancelTicket(ctx context.Context, id uint) (domain.Ticket, error) {
	cancelled, err := s.repo.CancelTicket(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.CancelTicket -> %w", err)
	}

	return cancelled, nil
}

// ValidateTicket reports whether the ticket is still a live entry in
// its raffle.
func (s *RaffleService) ValidateTicket(ctx context.Context, id uint) (domain.Ticket, bool, error) {
	ticket, err := s.repo.FindTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, false, fmt.Errorf("s.repo.FindTicketByID -> %w", err)
	}

	raffle, err := s.repo.FindByID(ctx, ticket.RaffleID)
	if err != nil {
		return domain.Ticket{}, false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return ticket, ticket.IsValid(&raffle), nil
}
