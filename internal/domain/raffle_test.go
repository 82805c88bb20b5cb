package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaffleIsOngoing(t *testing.T) {
	tests := []struct {
		name     string
		raffle   Raffle
		expected bool
	}{
		{"created but not activated", Raffle{}, false},
		{"active", Raffle{IsActive: true}, true},
		{"closed", Raffle{IsClosed: true}, false},
		{"closed can never be ongoing", Raffle{IsActive: true, IsClosed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.raffle.IsOngoing())
		})
	}
}

func TestTicketIsValid(t *testing.T) {
	open := &Raffle{IsActive: true}
	closed := &Raffle{IsClosed: true}

	live := Ticket{}
	assert.True(t, live.IsValid(open))

	cancelled := Ticket{IsCancelled: true}
	assert.False(t, cancelled.IsValid(open))
	assert.False(t, cancelled.IsValid(closed))

	winner := Ticket{IsWinningTicket: true}
	assert.True(t, winner.IsValid(closed))

	loser := Ticket{}
	assert.False(t, loser.IsValid(closed))
}

func TestGravatarHash(t *testing.T) {
	// Hash is over the lowercased address.
	assert.Equal(t, GravatarHash("Reader@Example.com"), GravatarHash("reader@example.com"))
	assert.Len(t, GravatarHash("reader@example.com"), 32)
}
