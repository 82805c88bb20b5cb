package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

type User struct {
	ID             uint      `json:"id"`
	FirstName      string    `json:"first_name"`
	MiddleName     string    `json:"middle_name"`
	LastName       string    `json:"last_name"`
	Gender         string    `json:"gender"`
	EmailAddress   string    `json:"email_address"`
	PhoneNumber    string    `json:"phone_number"`
	Nationality    string    `json:"nationality"`
	Password       string    `json:"-"`
	AvatarHash     string    `json:"avatar_hash"`
	ProfileImage   string    `json:"profile_image"`
	RoleID         uint      `json:"role_id"`
	Role           Role      `json:"role"`
	AccountBalance float64   `json:"account_balance"`
	IsActive       bool      `json:"is_active"`
	IsSuspended    bool      `json:"is_suspended"`
	IsConfirmed    bool      `json:"is_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Can reports whether the user's role grants every bit of p.
func (u *User) Can(p int) bool {
	return u.Role.HasPermission(p)
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermissionAdmin)
}

// GravatarHash returns the md5 hash of the lowercased email address,
// used to build avatar URLs.
func GravatarHash(emailAddress string) string {
	sum := md5.Sum([]byte(strings.ToLower(emailAddress)))
	return hex.EncodeToString(sum[:])
}
