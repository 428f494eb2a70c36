package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is one row of a poll's discussion. Threads are formed via
// ParentCommentID; root comments have a nil parent.
type Comment struct {
	ID              uuid.UUID  `json:"id"`
	PollID          uuid.UUID  `json:"poll_id"`
	UserID          uuid.UUID  `json:"user_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Content         string     `json:"content"`
	AuthorName      string     `json:"author_name"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Ownership annotations for the requesting user; false when anonymous.
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}
