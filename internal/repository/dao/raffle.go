package dao

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRaffleNotFound      = errors.New("raffle not found")
	ErrRaffleClosed        = errors.New("raffle already closed")
	ErrRaffleNotOngoing    = errors.New("raffle not open for entries")
	ErrRaffleFull          = errors.New("raffle participant limit reached")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrWinningTicket       = errors.New("winning ticket cannot be cancelled")
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

const (
	ticketNumberMin = 100000
	ticketNumberMax = 999999

	ticketNumberAttempts = 16
)

type Raffle struct {
	ID uint `gorm:"primaryKey"`

	BookID uint `gorm:"not null;index"`
	Book   Book `gorm:"foreignKey:BookID"`

	ParticipantLimit int     `gorm:"not null"`
	Price            float64 `gorm:"not null;default:0"`

	StartTime time.Time
	EndTime   *time.Time

	IsActive bool `gorm:"not null;default:false"`
	IsClosed bool `gorm:"not null;default:false"`

	Tickets []Ticket `gorm:"foreignKey:RaffleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	RaffleID uint `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`
	UserID   uint `gorm:"not null;index"`

	UniqueNumber int `gorm:"not null;uniqueIndex:idx_tickets_raffle_number"`

	IsWinningTicket bool `gorm:"not null;default:false"`
	IsCancelled     bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RaffleDAO struct {
	db *gorm.DB

	// draw picks an index in [0, n). Swapped out in tests.
	draw func(n int) int
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db:   db,
		draw: rand.Intn,
	}
}

func (d *RaffleDAO) Insert(ctx context.Context, raffle Raffle) (Raffle, error) {
	result := d.db.WithContext(ctx).Create(&raffle)
	if result.Error != nil {
		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindAll(ctx context.Context) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

func (d *RaffleDAO) Update(ctx context.Context, raffle Raffle) (Raffle, error) {
	if _, err := d.FindByID(ctx, raffle.ID); err != nil {
		return Raffle{}, err
	}

	result := d.db.WithContext(ctx).Save(&raffle)
	if result.Error != nil {
		return Raffle{}, result.Error
	}

	return raffle, nil
}

// Activate opens a raffle for ticket purchases. Closed raffles stay
// closed forever.
func (d *RaffleDAO) Activate(ctx context.Context, id uint) (Raffle, error) {
	return d.setActive(ctx, id, true)
}

// Deactivate suspends purchases without closing the raffle.
func (d *RaffleDAO) Deactivate(ctx context.Context, id uint) (Raffle, error) {
	return d.setActive(ctx, id, false)
}

func (d *RaffleDAO) setActive(ctx context.Context, id uint, active bool) (Raffle, error) {
	var raffle Raffle

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&raffle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}

		if raffle.IsClosed {
			return ErrRaffleClosed
		}

		raffle.IsActive = active
		if active && raffle.StartTime.IsZero() {
			raffle.StartTime = time.Now()
		}

		return tx.Save(&raffle).Error
	})
	if err != nil {
		return Raffle{}, err
	}

	return raffle, nil
}

// Close ends the raffle and draws a winner among the non-cancelled
// tickets. A raffle with no eligible tickets closes without a winner.
// Closing an already closed raffle fails.
func (d *RaffleDAO) Close(ctx context.Context, id uint) (Raffle, *Ticket, error) {
	var (
		raffle Raffle
		winner *Ticket
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&raffle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}

		if raffle.IsClosed {
			return ErrRaffleClosed
		}

		var eligible []Ticket
		err := tx.Where("raffle_id = ? AND is_cancelled = ?", id, false).Find(&eligible).Error
		if err != nil {
			return err
		}

		if len(eligible) > 0 {
			drawn := eligible[d.draw(len(eligible))]
			err := tx.Model(&Ticket{}).Where("id = ?", drawn.ID).Update("is_winning_ticket", true).Error
			if err != nil {
				return err
			}

			drawn.IsWinningTicket = true
			winner = &drawn
		}

		now := time.Now()
		raffle.IsActive = false
		raffle.IsClosed = true
		raffle.EndTime = &now

		return tx.Save(&raffle).Error
	})
	if err != nil {
		return Raffle{}, nil, err
	}

	return raffle, winner, nil
}

// PurchaseTicket inserts a ticket for the user while holding a row lock
// on the raffle, so the participant limit holds under concurrent
// purchases. Cancelled tickets do not count against the limit. The
// ticket price is debited from the holder's balance under a lock on the
// user row, inside the same transaction, so concurrent purchases by one
// user cannot overdraw the balance.
func (d *RaffleDAO) PurchaseTicket(ctx context.Context, raffleID, userID uint) (Ticket, error) {
	var ticket Ticket

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raffle Raffle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&raffle, raffleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRaffleNotFound
			}

			return err
		}

		if raffle.IsClosed || !raffle.IsActive {
			return ErrRaffleNotOngoing
		}

		var sold int64
		err := tx.Model(&Ticket{}).
			Where("raffle_id = ? AND is_cancelled = ?", raffleID, false).
			Count(&sold).Error
		if err != nil {
			return err
		}
		if sold >= int64(raffle.ParticipantLimit) {
			return ErrRaffleFull
		}

		if raffle.Price > 0 {
			var user User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}

				return err
			}

			if user.AccountBalance < raffle.Price {
				return ErrInsufficientBalance
			}

			err := tx.Model(&User{}).Where("id = ?", userID).
				Update("account_balance", user.AccountBalance-raffle.Price).Error
			if err != nil {
				return err
			}
		}

		number, err := d.pickUniqueNumber(tx, raffleID)
		if err != nil {
			return err
		}

		ticket = Ticket{
			RaffleID:     raffleID,
			UserID:       userID,
			UniqueNumber: number,
		}

		return tx.Create(&ticket).Error
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}

// pickUniqueNumber draws a six digit number not yet used in the raffle.
// Collisions are rare at realistic ticket counts, so a bounded retry
// loop is enough.
func (d *RaffleDAO) pickUniqueNumber(tx *gorm.DB, raffleID uint) (int, error) {
	span := ticketNumberMax - ticketNumberMin + 1

	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		number := ticketNumberMin + d.draw(span)

		var count int64
		err := tx.Model(&Ticket{}).
			Where("raffle_id = ? AND unique_number = ?", raffleID, number).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count == 0 {
			return number, nil
		}
	}

	return 0, fmt.Errorf("no free ticket number found for raffle %d", raffleID)
}

func (d *RaffleDAO) FindTickets(ctx context.Context, raffleID uint) ([]Ticket, error) {
	if _, err := d.FindByID(ctx, raffleID); err != nil {
		return nil, err
	}

	var tickets []Ticket
	result := d.db.WithContext(ctx).Where("raffle_id = ?", raffleID).Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *RaffleDAO) FindTicketByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// CancelTicket frees the holder's slot and refunds the ticket price
// inside the same transaction. The ticket row lock makes the operation
// idempotent: a ticket cancels and refunds at most once. The winning
// ticket of a closed raffle cannot be cancelled.
func (d *RaffleDAO) CancelTicket(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if ticket.IsCancelled {
			return nil
		}

		var raffle Raffle
		if err := tx.First(&raffle, ticket.RaffleID).Error; err != nil {
			return err
		}

		if raffle.IsClosed && ticket.IsWinningTicket {
			return ErrWinningTicket
		}

		ticket.IsCancelled = true
		if err := tx.Save(&ticket).Error; err != nil {
			return err
		}

		if raffle.Price > 0 {
			var user User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, ticket.UserID).Error; err != nil {
				return err
			}

			return tx.Model(&User{}).Where("id = ?", user.ID).
				Update("account_balance", user.AccountBalance+raffle.Price).Error
		}

		return nil
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}
