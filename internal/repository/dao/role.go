package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleInUse    = errors.New("role still assigned to users")
)

type Role struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"unique;not null"`
	Description string
	Permissions int  `gorm:"not null;default:0"`
	Default     bool `gorm:"not null;default:false;index"`

	Users []User `gorm:"foreignKey:RoleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RoleDAO struct {
	db *gorm.DB
}

func NewRoleDAO(db *gorm.DB) *RoleDAO {
	return &RoleDAO{
		db: db,
	}
}

func (d *RoleDAO) Insert(ctx context.Context, role Role) (Role, error) {
	result := d.db.WithContext(ctx).Create(&role)
	if result.Error != nil {
		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindByID(ctx context.Context, id uint) (Role, error) {
	var role Role

	result := d.db.WithContext(ctx).First(&role, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, ErrRoleNotFound
		}

		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindByName(ctx context.Context, name string) (Role, error) {
	var role Role

	result := d.db.WithContext(ctx).First(&role, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, ErrRoleNotFound
		}

		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindDefault(ctx context.Context) (Role, error) {
	var role Role

	result := d.db.WithContext(ctx).First(&role, "\"default\" = ?", true)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, ErrRoleNotFound
		}

		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindAll(ctx context.Context) ([]Role, error) {
	var roles []Role

	result := d.db.WithContext(ctx).Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

func (d *RoleDAO) FindUsers(ctx context.Context, roleID uint) ([]User, error) {
	if _, err := d.FindByID(ctx, roleID); err != nil {
		return nil, err
	}

	var users []User
	result := d.db.WithContext(ctx).Where("role_id = ?", roleID).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *RoleDAO) Update(ctx context.Context, role Role) (Role, error) {
	if _, err := d.FindByID(ctx, role.ID); err != nil {
		return Role{}, err
	}

	result := d.db.WithContext(ctx).Save(&role)
	if result.Error != nil {
		return Role{}, result.Error
	}

	return role, nil
}

// Delete removes a role unless users still reference it.
func (d *RoleDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role Role
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}

			return err
		}

		var count int64
		if err := tx.Model(&User{}).Where("role_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRoleInUse
		}

		return tx.Delete(&role).Error
	})
}
