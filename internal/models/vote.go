package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a single recorded choice of one option for one poll.
// Votes are anonymous and append-only; they are removed only by the
// poll-delete cascade.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Option    string    `json:"option"`
	CreatedAt time.Time `json:"created_at"`
}
