package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

// fakeRaffleRepo mirrors the store's transactional semantics: capacity
// and balance checks happen atomically under one lock, cancellation is
// idempotent and refunds at most once.
type fakeRaffleRepo struct {
	mu       sync.Mutex
	raffles  map[uint]domain.Raffle
	tickets  map[uint]domain.Ticket
	balances map[uint]float64
	nextID   uint
}

func newFakeRaffleRepo() *fakeRaffleRepo {
	return &fakeRaffleRepo{
		raffles:  make(map[uint]domain.Raffle),
		tickets:  make(map[uint]domain.Ticket),
		balances: make(map[uint]float64),
		nextID:   1,
	}
}

func (f *fakeRaffleRepo) balance(userID uint) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.balances[userID]
}

func (f *fakeRaffleRepo) Create(_ context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raffle.ID = f.nextID
	f.nextID++
	f.raffles[raffle.ID] = raffle

	return raffle, nil
}

func (f *fakeRaffleRepo) FindByID(_ context.Context, id uint) (domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raffle, ok := f.raffles[id]
	if !ok {
		return domain.Raffle{}, repository.ErrRaffleNotFound
	}

	return raffle, nil
}

func (f *fakeRaffleRepo) FindAll(_ context.Context) ([]domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var raffles []domain.Raffle
	for _, raffle := range f.raffles {
		raffles = append(raffles, raffle)
	}

	return raffles, nil
}

func (f *fakeRaffleRepo) Update(_ context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.raffles[raffle.ID]; !ok {
		return domain.Raffle{}, repository.ErrRaffleNotFound
	}
	f.raffles[raffle.ID] = raffle

	return raffle, nil
}

func (f *fakeRaffleRepo) setActive(id uint, active bool) (domain.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raffle, ok := f.raffles[id]
	if !ok {
		return domain.Raffle{}, repository.ErrRaffleNotFound
	}
	if raffle.IsClosed {
		return domain.Raffle{}, repository.ErrRaffleClosed
	}

	raffle.IsActive = active
	f.raffles[id] = raffle

	return raffle, nil
}

func (f *fakeRaffleRepo) Activate(_ context.Context, id uint) (domain.Raffle, error) {
	return f.setActive(id, true)
}

func (f *fakeRaffleRepo) Deactivate(_ context.Context, id uint) (domain.Raffle, error) {
	return f.setActive(id, false)
}

func (f *fakeRaffleRepo) Close(_ context.Context, id uint) (domain.Raffle, *domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raffle, ok := f.raffles[id]
	if !ok {
		return domain.Raffle{}, nil, repository.ErrRaffleNotFound
	}
	if raffle.IsClosed {
		return domain.Raffle{}, nil, repository.ErrRaffleClosed
	}

	var winner *domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.RaffleID == id && !ticket.IsCancelled {
			ticket.IsWinningTicket = true
			f.tickets[ticket.ID] = ticket
			t := ticket
			winner = &t
			break
		}
	}

	now := time.Now()
	raffle.IsActive = false
	raffle.IsClosed = true
	raffle.EndTime = &now
	f.raffles[id] = raffle

	return raffle, winner, nil
}

func (f *fakeRaffleRepo) PurchaseTicket(_ context.Context, raffleID, userID uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raffle, ok := f.raffles[raffleID]
	if !ok {
		return domain.Ticket{}, repository.ErrRaffleNotFound
	}
	if raffle.IsClosed || !raffle.IsActive {
		return domain.Ticket{}, repository.ErrRaffleNotOngoing
	}

	var sold int
	for _, ticket := range f.tickets {
		if ticket.RaffleID == raffleID && !ticket.IsCancelled {
			sold++
		}
	}
	if sold >= raffle.ParticipantLimit {
		return domain.Ticket{}, repository.ErrRaffleFull
	}

	if raffle.Price > 0 {
		if f.balances[userID] < raffle.Price {
			return domain.Ticket{}, repository.ErrInsufficientBalance
		}
		f.balances[userID] -= raffle.Price
	}

	ticket := domain.Ticket{
		ID:           f.nextID,
		RaffleID:     raffleID,
		UserID:       userID,
		UniqueNumber: 100000 + int(f.nextID),
	}
	f.nextID++
	f.tickets[ticket.ID] = ticket

	return ticket, nil
}

func (f *fakeRaffleRepo) FindTickets(_ context.Context, raffleID uint) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var tickets []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.RaffleID == raffleID {
			tickets = append(tickets, ticket)
		}
	}

	return tickets, nil
}

func (f *fakeRaffleRepo) FindTicketByID(_ context.Context, id uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}

	return ticket, nil
}

func (f *fakeRaffleRepo) CancelTicket(_ context.Context, id uint) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}
	if ticket.IsCancelled {
		return ticket, nil
	}

	raffle := f.raffles[ticket.RaffleID]
	if raffle.IsClosed && ticket.IsWinningTicket {
		return domain.Ticket{}, repository.ErrWinningTicket
	}

	ticket.IsCancelled = true
	f.tickets[id] = ticket
	f.balances[ticket.UserID] += raffle.Price

	return ticket, nil
}

type fakeBookRepo struct {
	books map[uint]domain.Book
}

func (f *fakeBookRepo) FindByID(_ context.Context, id uint) (domain.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return domain.Book{}, repository.ErrBookNotFound
	}

	return book, nil
}

type recordingNotifier struct {
	raffles []domain.Raffle
	tickets []domain.Ticket
}

func (n *recordingNotifier) NotifyWinner(_ context.Context, raffle domain.Raffle, ticket domain.Ticket) {
	n.raffles = append(n.raffles, raffle)
	n.tickets = append(n.tickets, ticket)
}

func newTestRaffleService() (*RaffleService, *fakeRaffleRepo, *recordingNotifier) {
	repo := newFakeRaffleRepo()
	repo.balances[1] = 100
	repo.balances[2] = 0.5

	books := &fakeBookRepo{books: map[uint]domain.Book{
		1: {ID: 1, Title: "Some Book"},
	}}
	notifier := &recordingNotifier{}

	return NewRaffleService(repo, books, notifier), repo, notifier
}

func TestOpenRaffle_Validation(t *testing.T) {
	svc, _, _ := newTestRaffleService()
	ctx := context.Background()

	tests := []struct {
		name   string
		raffle domain.Raffle
	}{
		{"zero participant limit", domain.Raffle{BookID: 1, ParticipantLimit: 0}},
		{"negative participant limit", domain.Raffle{BookID: 1, ParticipantLimit: -5}},
		{"negative price", domain.Raffle{BookID: 1, ParticipantLimit: 10, Price: -1}},
		{"missing book", domain.Raffle{ParticipantLimit: 10}},
		{"unknown book", domain.Raffle{BookID: 42, ParticipantLimit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.OpenRaffle(ctx, tt.raffle)
			assert.ErrorIs(t, err, ErrRaffleValidation)
		})
	}
}

func TestOpenRaffle_StartsInactive(t *testing.T) {
	svc, _, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{
		BookID:           1,
		ParticipantLimit: 10,
		Price:            2,
		IsActive:         true, // Caller cannot force activation.
		IsClosed:         true,
	})
	require.NoError(t, err)

	assert.False(t, raffle.IsActive)
	assert.False(t, raffle.IsClosed)
	assert.Nil(t, raffle.EndTime)
}

func TestUpdateRaffle(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10, Price: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateRaffle(ctx, raffle.ID, 20, 3)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.ParticipantLimit)
	assert.InDelta(t, 3, updated.Price, 0.001)

	_, err = svc.UpdateRaffle(ctx, raffle.ID, 0, 3)
	assert.ErrorIs(t, err, ErrRaffleValidation)

	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)
	_, _, err = svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)

	_, err = svc.UpdateRaffle(ctx, raffle.ID, 20, 3)
	assert.ErrorIs(t, err, ErrRaffleClosed)
}

func TestPurchaseTicket_DebitsBalance(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10, Price: 2.5})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	ticket, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), ticket.UserID)

	assert.InDelta(t, 97.5, repo.balance(1), 0.001)
}

func TestPurchaseTicket_InsufficientBalance(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10, Price: 2})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	tickets, err := svc.GetRaffleTickets(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestPurchaseTicket_PropagatesCapacityErrors(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 1})
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleNotOngoing)

	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleFull)
}

func TestCloseRaffle_NotifiesWinner(t *testing.T) {
	svc, repo, notifier := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	ticket, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	closed, winner, err := svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)

	assert.True(t, closed.IsClosed)
	assert.Equal(t, ticket.ID, winner.ID)

	require.Len(t, notifier.tickets, 1)
	assert.Equal(t, ticket.ID, notifier.tickets[0].ID)
	assert.Equal(t, raffle.ID, notifier.raffles[0].ID)
}

func TestCloseRaffle_NoWinnerNoNotification(t *testing.T) {
	svc, repo, notifier := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	_, winner, err := svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)

	assert.Nil(t, winner)
	assert.Empty(t, notifier.tickets)
}

func TestCloseRaffle_SecondCloseFails(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	_, _, err = svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)

	_, _, err = svc.CloseRaffle(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)
}

func TestCancelTicket_RefundsAndIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10, Price: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	ticket, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	require.InDelta(t, 90, repo.balance(1), 0.001)

	cancelled, err := svc.CancelTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)

	assert.InDelta(t, 100, repo.balance(1), 0.001)

	// Cancelling again changes nothing, in particular no double refund.
	again, err := svc.CancelTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, again.IsCancelled)

	assert.InDelta(t, 100, repo.balance(1), 0.001)
}

func TestCancelTicket_WinningTicketFails(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, winner, err := svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)

	_, err = svc.CancelTicket(ctx, winner.ID)
	assert.ErrorIs(t, err, ErrWinningTicket)
}

func TestValidateTicket(t *testing.T) {
	svc, repo, _ := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 10})
	require.NoError(t, err)
	_, err = repo.Activate(ctx, raffle.ID)
	require.NoError(t, err)

	winning, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)
	losing, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)
	cancelled, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, valid, err := svc.ValidateTicket(ctx, winning.ID)
	require.NoError(t, err)
	assert.True(t, valid, "live ticket in an open raffle")

	_, err = svc.CancelTicket(ctx, cancelled.ID)
	require.NoError(t, err)

	_, valid, err = svc.ValidateTicket(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.False(t, valid, "cancelled ticket")

	// The fake draws the first eligible ticket by lowest insertion order,
	// but assert against whichever one actually won.
	_, winner, err := svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)

	loserID := winning.ID
	if winner.ID == winning.ID {
		loserID = losing.ID
	}

	_, valid, err = svc.ValidateTicket(ctx, winner.ID)
	require.NoError(t, err)
	assert.True(t, valid, "winning ticket after close")

	_, valid, err = svc.ValidateTicket(ctx, loserID)
	require.NoError(t, err)
	assert.False(t, valid, "losing ticket after close")
}

// Full lifecycle walkthrough: open, activate, sell out, cancel, refill,
// close, then verify the terminal state is sealed.
func TestRaffleLifecycleScenario(t *testing.T) {
	svc, _, notifier := newTestRaffleService()
	ctx := context.Background()

	raffle, err := svc.OpenRaffle(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 2, Price: 1})
	require.NoError(t, err)

	_, err = svc.ActivateRaffle(ctx, raffle.ID)
	require.NoError(t, err)

	first, err := svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)
	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.ErrorIs(t, err, ErrRaffleFull)

	_, err = svc.CancelTicket(ctx, first.ID)
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, err = svc.DeactivateRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	require.ErrorIs(t, err, ErrRaffleNotOngoing)
	_, err = svc.ActivateRaffle(ctx, raffle.ID)
	require.NoError(t, err)

	closed, winner, err := svc.CloseRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.False(t, winner.IsCancelled)
	assert.True(t, closed.IsClosed)
	assert.Len(t, notifier.tickets, 1)

	_, err = svc.ActivateRaffle(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)
	_, err = svc.PurchaseTicket(ctx, raffle.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleNotOngoing)
	_, _, err = svc.CloseRaffle(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)
}
