package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists  = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserHasLiveEntry = errors.New("user still holds tickets in open raffles")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	FirstName    string `gorm:"not null"`
	MiddleName   string
	LastName     string `gorm:"not null"`
	Gender       string
	EmailAddress string `gorm:"unique;not null"`
	PhoneNumber  string
	Nationality  string
	Password     string `gorm:"not null"`
	AvatarHash   string `gorm:"size:32"`
	ProfileImage string

	RoleID uint `gorm:"not null;index"`
	Role   Role `gorm:"foreignKey:RoleID"`

	AccountBalance float64 `gorm:"not null;default:0"`
	IsActive       bool    `gorm:"not null;default:true"`
	IsSuspended    bool    `gorm:"not null;default:false"`
	IsConfirmed    bool    `gorm:"not null;default:false"`

	Tickets       []Ticket       `gorm:"foreignKey:UserID"`
	Notifications []Notification `gorm:"foreignKey:UserID"`
	Tasks         []Task         `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_email_address"`) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Role").First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Role").First(&user, "email_address = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Preload("Role").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	if _, err := d.FindByID(ctx, user.ID); err != nil {
		return User{}, err
	}

	result := d.db.WithContext(ctx).Save(&user)
	if result.Error != nil {
		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) UpdateProfileImage(ctx context.Context, id uint, filename string) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("profile_image", filename)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes a user unless they still hold non-cancelled tickets in
// raffles that have not closed yet.
func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		var live int64
		err := tx.Model(&Ticket{}).
			Joins("JOIN raffles ON raffles.id = tickets.raffle_id").
			Where("tickets.user_id = ? AND tickets.is_cancelled = ? AND raffles.is_closed = ?", id, false, false).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrUserHasLiveEntry
		}

		return tx.Delete(&user).Error
	})
}

func (d *UserDAO) FindTickets(ctx context.Context, userID uint) ([]Ticket, error) {
	if _, err := d.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var tickets []Ticket
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *UserDAO) FindNotifications(ctx context.Context, userID uint) ([]Notification, error) {
	if _, err := d.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var notifications []Notification
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

func (d *UserDAO) FindTasks(ctx context.Context, userID uint) ([]Task, error) {
	if _, err := d.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var tasks []Task
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tasks, nil
}
