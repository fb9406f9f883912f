// Tiendat | 2026
// identity.go

// Package identity holds the caller identity value and the pure
// authorization gates every protected operation funnels through.
package identity

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrInvalidIdentifier = errors.New("invalid user identifier")
	ErrInvalidPosition   = errors.New("position must be between 1 and 20")
	ErrMissingTarget     = errors.New("target user id required")
)

// Identity is the authenticated caller. It is constructed once from a
// verified token and never mutated afterwards; handlers receive it by value.
type Identity struct {
	subject string
	role    Role
}

func New(subject string, role Role) Identity {
	return Identity{subject: subject, role: role}
}

func (i Identity) Subject() string { return i.subject }
func (i Identity) Role() Role      { return i.role }
func (i Identity) IsAdmin() bool   { return i.role == RoleAdmin }

var (
	numericIDPattern  = regexp.MustCompile(`^\d+$`)
	prefixedIDPattern = regexp.MustCompile(`^(user_|usr)\d+_\d+$`)
)

// ValidateUserID normalizes and checks a user identifier. Accepted shapes are
// a positive integer or a prefixed id like user_1712345678901_42, matched
// case-insensitively and returned lowercased.
func ValidateUserID(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", ErrInvalidIdentifier
	}
	if numericIDPattern.MatchString(id) {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			return "", ErrInvalidIdentifier
		}
		return id, nil
	}
	if prefixedIDPattern.MatchString(id) {
		return id, nil
	}
	return "", ErrInvalidIdentifier
}

// ValidatePosition checks a photo slot. Nil means unpositioned, which is
// always allowed.
func ValidatePosition(position *int) error {
	if position == nil {
		return nil
	}
	if *position < 1 || *position > 20 {
		return ErrInvalidPosition
	}
	return nil
}

// NewUserID mints an identifier for a provisioned user. Uniqueness is
// enforced by the users table, not here.
func NewUserID() string {
	//nolint:gosec // G404: collision is caught by the unique constraint
	return fmt.Sprintf("user_%d_%d", time.Now().UnixMilli(), rand.IntN(1000))
}

// RequireAdmin gates admin-only operations.
func RequireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return errors.New("admin role required")
	}
	return nil
}

// Authorize gates per-user operations: admins may act on any target, users
// only on themselves. targetUserID must already be validated.
func Authorize(id Identity, targetUserID string) error {
	if targetUserID == "" {
		return ErrMissingTarget
	}
	if id.IsAdmin() {
		return nil
	}
	if id.Subject() != targetUserID {
		return errors.New("cannot act on another user's resources")
	}
	return nil
}
