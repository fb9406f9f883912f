// Tiendat | 2026
// entity.go

package user

import (
	"errors"
	"time"
)

// ErrEmailTaken distinguishes an email collision from a user id collision so
// callers can word the conflict precisely.
var ErrEmailTaken = errors.New("email already registered")

type User struct {
	UserID       string    `db:"user_id"       json:"userId"`
	PasscodeHash string    `db:"passcode_hash" json:"-"`
	Email        string    `db:"email"         json:"email"`
	FullName     *string   `db:"full_name"     json:"fullName,omitempty"`
	Phone        *string   `db:"phone"         json:"phone,omitempty"`
	IsActive     bool      `db:"is_active"     json:"isActive"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updatedAt"`
}
