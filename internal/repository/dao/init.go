package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dskf/bookraffle-api/internal/domain"
)

func InitTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Book{}, "Authors", &AuthorBook{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&Book{}, "Categories", &CategoryBook{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&Role{},
		&User{},
		&Author{},
		&Category{},
		&Book{},
		&Raffle{},
		&Ticket{},
		&Notification{},
		&Task{},
	)
}

// SeedRoles writes the canonical role set. Existing roles get their
// bitmask reset to the canonical value rather than accumulated, and
// exactly one role ends up flagged as default.
func SeedRoles(db *gorm.DB) error {
	descriptions := map[string]string{
		domain.RoleMember:        "Registered member able to enter raffles",
		domain.RoleModerator:     "Member with moderation rights",
		domain.RoleAdministrator: "Full administrative access",
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for name, permissions := range domain.CanonicalRolePermissions() {
			role := Role{
				Name:        name,
				Description: descriptions[name],
				Permissions: permissions,
				Default:     name == domain.RoleMember,
			}

			var existing Role
			err := tx.Where("name = ?", name).First(&existing).Error
			switch {
			case err == nil:
				existing.Description = role.Description
				existing.Permissions = role.Permissions
				existing.Default = role.Default
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		return nil
	})
}
