package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a registered library member. PenaltyUntil is nil unless a
// late return put the member under a borrowing suspension.
type Member struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	PenaltyUntil *time.Time `json:"penalty_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasActivePenalty reports whether the member is currently suspended
// from borrowing. An expired or absent penalty does not count.
func (m *Member) HasActivePenalty(now time.Time) bool {
	return m.PenaltyUntil != nil && m.PenaltyUntil.After(now)
}
