// Tiendat | 2026
// entity.go

// Package beneficiary manages the two contact slots on a keepsake: the
// primary and secondary people to reach when it matters.
package beneficiary

import (
	"time"

	"github.com/google/uuid"
)

type SlotType string

const (
	SlotPrimary   SlotType = "primary"
	SlotSecondary SlotType = "secondary"
)

func ParseSlotType(raw string) (SlotType, bool) {
	switch SlotType(raw) {
	case SlotPrimary:
		return SlotPrimary, true
	case SlotSecondary:
		return SlotSecondary, true
	default:
		return "", false
	}
}

type Beneficiary struct {
	ID           uuid.UUID `db:"id"               json:"id"`
	UserID       string    `db:"user_id"          json:"userId"`
	Type         SlotType  `db:"beneficiary_type" json:"type"`
	FullName     string    `db:"full_name"        json:"fullName"`
	Relationship *string   `db:"relationship"     json:"relationship,omitempty"`
	Phone        *string   `db:"phone"            json:"phone,omitempty"`
	Email        *string   `db:"email"            json:"email,omitempty"`
	AvatarURL    *string   `db:"avatar_url"       json:"avatarUrl,omitempty"`
	AvatarPath   *string   `db:"avatar_path"      json:"-"`
	CreatedAt    time.Time `db:"created_at"       json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at"       json:"updatedAt"`
}
