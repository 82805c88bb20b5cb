package dao

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseTicket_RespectsParticipantLimit(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 3, true)

	for i := 0; i < 3; i++ {
		_, err := d.PurchaseTicket(ctx, raffle.ID, uint(i+1))
		require.NoError(t, err)
	}

	_, err := d.PurchaseTicket(ctx, raffle.ID, 99)
	assert.ErrorIs(t, err, ErrRaffleFull)
}

func TestPurchaseTicket_ConcurrentPurchasesHoldLimit(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	const limit = 5
	const buyers = 20

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, limit, true)

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.PurchaseTicket(ctx, raffle.ID, uint(i+1))
		}(i)
	}
	wg.Wait()

	var succeeded, full int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrRaffleFull):
			full++
		default:
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}

	assert.Equal(t, limit, succeeded)
	assert.Equal(t, buyers-limit, full)

	tickets, err := d.FindTickets(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, limit)
}

func TestPurchaseTicket_RequiresOngoingRaffle(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)

	inactive := createTestRaffle(t, db, book.ID, 10, false)
	_, err := d.PurchaseTicket(ctx, inactive.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleNotOngoing)

	closed := createTestRaffle(t, db, book.ID, 10, true)
	_, _, err = d.Close(ctx, closed.ID)
	require.NoError(t, err)

	_, err = d.PurchaseTicket(ctx, closed.ID, 1)
	assert.ErrorIs(t, err, ErrRaffleNotOngoing)

	_, err = d.PurchaseTicket(ctx, 12345, 1)
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

func TestPurchaseTicket_CancelledTicketFreesSlot(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 2, true)

	first, err := d.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)
	_, err = d.PurchaseTicket(ctx, raffle.ID, 2)
	require.NoError(t, err)

	_, err = d.PurchaseTicket(ctx, raffle.ID, 3)
	require.ErrorIs(t, err, ErrRaffleFull)

	_, err = d.CancelTicket(ctx, first.ID)
	require.NoError(t, err)

	_, err = d.PurchaseTicket(ctx, raffle.ID, 3)
	assert.NoError(t, err)
}

func TestPurchaseTicket_NumbersAreUniqueWithinRaffle(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 50, true)

	seen := make(map[int]bool)
	for i := 0; i < 50; i++ {
		ticket, err := d.PurchaseTicket(ctx, raffle.ID, uint(i+1))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ticket.UniqueNumber, ticketNumberMin)
		assert.LessOrEqual(t, ticket.UniqueNumber, ticketNumberMax)
		assert.False(t, seen[ticket.UniqueNumber], "duplicate ticket number %d", ticket.UniqueNumber)
		seen[ticket.UniqueNumber] = true
	}
}

func TestPurchaseTicket_DebitsBalanceWithinTransaction(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	user := createTestUser(t, db, 5)

	raffle := Raffle{BookID: book.ID, ParticipantLimit: 10, Price: 2, IsActive: true}
	require.NoError(t, db.Create(&raffle).Error)

	_, err := d.PurchaseTicket(ctx, raffle.ID, user.ID)
	require.NoError(t, err)
	_, err = d.PurchaseTicket(ctx, raffle.ID, user.ID)
	require.NoError(t, err)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.InDelta(t, 1, stored.AccountBalance, 0.001)

	_, err = d.PurchaseTicket(ctx, raffle.ID, user.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// The rejected purchase leaves neither a ticket nor a debit behind.
	tickets, err := d.FindTickets(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.InDelta(t, 1, stored.AccountBalance, 0.001)
}

func TestPurchaseTicket_ConcurrentPurchasesCannotOverdraw(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	user := createTestUser(t, db, 5)

	raffle := Raffle{BookID: book.ID, ParticipantLimit: 100, Price: 2, IsActive: true}
	require.NoError(t, db.Create(&raffle).Error)

	const buyers = 10

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.PurchaseTicket(ctx, raffle.ID, user.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, broke int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientBalance):
			broke++
		default:
			t.Fatalf("unexpected purchase error: %v", err)
		}
	}

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, buyers-2, broke)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.InDelta(t, 1, stored.AccountBalance, 0.001)
}

func TestCancelTicket_RefundsOnce(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	user := createTestUser(t, db, 5)

	raffle := Raffle{BookID: book.ID, ParticipantLimit: 10, Price: 2, IsActive: true}
	require.NoError(t, db.Create(&raffle).Error)

	ticket, err := d.PurchaseTicket(ctx, raffle.ID, user.ID)
	require.NoError(t, err)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.InDelta(t, 3, stored.AccountBalance, 0.001)

	cancelled, err := d.CancelTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)

	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.InDelta(t, 5, stored.AccountBalance, 0.001)

	// A second cancel is a no-op, in particular no second refund.
	again, err := d.CancelTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, again.IsCancelled)

	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.InDelta(t, 5, stored.AccountBalance, 0.001)
}

func TestClose_DrawsWinnerFromEligibleTicketsOnly(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 10, true)

	var tickets []Ticket
	for i := 0; i < 6; i++ {
		ticket, err := d.PurchaseTicket(ctx, raffle.ID, uint(i+1))
		require.NoError(t, err)
		tickets = append(tickets, ticket)
	}

	cancelled := map[uint]bool{}
	for _, ticket := range tickets[:3] {
		_, err := d.CancelTicket(ctx, ticket.ID)
		require.NoError(t, err)
		cancelled[ticket.ID] = true
	}

	// Always pick the first eligible ticket so the draw is deterministic.
	d.draw = func(n int) int { return 0 }

	closed, winner, err := d.Close(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)

	assert.True(t, closed.IsClosed)
	assert.False(t, closed.IsActive)
	require.NotNil(t, closed.EndTime)

	assert.False(t, cancelled[winner.ID], "winner drawn from cancelled tickets")
	assert.True(t, winner.IsWinningTicket)

	stored, err := d.FindTicketByID(ctx, winner.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsWinningTicket)
	assert.False(t, stored.IsCancelled)
}

func TestClose_SecondCloseFails(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 10, true)

	_, _, err := d.Close(ctx, raffle.ID)
	require.NoError(t, err)

	_, _, err = d.Close(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)
}

func TestClose_NoEligibleTicketsNoWinner(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)

	empty := createTestRaffle(t, db, book.ID, 10, true)
	closed, winner, err := d.Close(ctx, empty.ID)
	require.NoError(t, err)
	assert.Nil(t, winner)
	assert.True(t, closed.IsClosed)

	// Same outcome when every ticket was cancelled before the draw.
	allCancelled := createTestRaffle(t, db, book.ID, 10, true)
	ticket, err := d.PurchaseTicket(ctx, allCancelled.ID, 1)
	require.NoError(t, err)
	_, err = d.CancelTicket(ctx, ticket.ID)
	require.NoError(t, err)

	_, winner, err = d.Close(ctx, allCancelled.ID)
	require.NoError(t, err)
	assert.Nil(t, winner)
}

func TestCancelTicket_WinningTicketStaysPut(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 10, true)

	_, err := d.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	_, winner, err := d.Close(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)

	_, err = d.CancelTicket(ctx, winner.ID)
	assert.ErrorIs(t, err, ErrWinningTicket)
}

func TestSetActive_ClosedRaffleStaysClosed(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 10, true)

	_, _, err := d.Close(ctx, raffle.ID)
	require.NoError(t, err)

	_, err = d.Activate(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)

	_, err = d.Deactivate(ctx, raffle.ID)
	assert.ErrorIs(t, err, ErrRaffleClosed)
}

func TestActivate_SetsStartTimeOnce(t *testing.T) {
	db := setupTestDB(t)
	d := NewRaffleDAO(db)
	ctx := context.Background()

	book := createTestBook(t, db)
	raffle := createTestRaffle(t, db, book.ID, 10, false)

	activated, err := d.Activate(ctx, raffle.ID)
	require.NoError(t, err)
	assert.False(t, activated.StartTime.IsZero())

	_, err = d.Deactivate(ctx, raffle.ID)
	require.NoError(t, err)

	again, err := d.Activate(ctx, raffle.ID)
	require.NoError(t, err)
	assert.Equal(t, activated.StartTime.Unix(), again.StartTime.Unix())
}
