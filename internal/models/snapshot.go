package models

import (
	"time"

	"github.com/google/uuid"
)

// ResultSnapshot is the final tally recorded when a poll expires.
// Totals holds the aggregated per-option results as JSON.
type ResultSnapshot struct {
	ID         uuid.UUID `json:"id"`
	PollID     uuid.UUID `json:"poll_id"`
	Totals     []byte    `json:"totals"`
	TotalVotes int       `json:"total_votes"`
	ExportURL  string    `json:"export_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
