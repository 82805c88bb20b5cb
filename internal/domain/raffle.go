package domain

import "time"

// Raffle lifecycle: a raffle is created inactive, toggles between active
// and inactive while open, and ends in the terminal closed state where
// the winner has been drawn and EndTime is set.
type Raffle struct {
	ID               uint       `json:"id"`
	ParticipantLimit int        `json:"participant_limit"`
	Price            float64    `json:"price"`
	BookID           uint       `json:"book_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	IsActive         bool       `json:"is_active"`
	IsClosed         bool       `json:"is_closed"`
	Tickets          []Ticket   `json:"tickets,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsOngoing reports whether the raffle is accepting tickets.
func (r *Raffle) IsOngoing() bool {
	return !r.IsClosed && r.IsActive
}

type Ticket struct {
	ID              uint      `json:"id"`
	RaffleID        uint      `json:"raffle_id"`
	UserID          uint      `json:"user_id"`
	UniqueNumber    int       `json:"unique_number"`
	IsWinningTicket bool      `json:"is_winning_ticket"`
	IsCancelled     bool      `json:"is_cancelled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsValid reports whether the ticket is still a live entry: not cancelled
// and, once its raffle closed, only the winning ticket stays valid.
// Fails closed for cancelled tickets.
func (t *Ticket) IsValid(raffle *Raffle) bool {
	if t.IsCancelled {
		return false
	}
	if raffle.IsClosed {
		return t.IsWinningTicket
	}
	return true
}
