package models

import (
	"time"

	"github.com/google/uuid"
)

// Poll is a titled question with an ordered set of unique text options.
// Option text doubles as the option identifier: votes reference the text,
// not a separate generated ID.
type Poll struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Options     []string   `json:"options"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Expired reports whether the poll's expiry has passed at t.
func (p *Poll) Expired(t time.Time) bool {
	return p.ExpiresAt != nil && !t.Before(*p.ExpiresAt)
}

// HasOption reports whether text is one of the poll's options (exact match).
func (p *Poll) HasOption(text string) bool {
	for _, o := range p.Options {
		if o == text {
			return true
		}
	}
	return false
}

// PollSummary is a poll list entry with its current vote total.
type PollSummary struct {
	Poll
	TotalVotes int `json:"total_votes"`
}
