package comments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/models"
)

// Repository handles comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByPoll returns all comments for a poll ordered by creation time
// ascending, joined with the author's name.
func (r *Repository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]models.Comment, error) {
	const q = `SELECT c.id, c.poll_id, c.user_id, c.parent_comment_id, c.content,
		u.full_name, c.created_at, c.updated_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.poll_id = $1 ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.Comment, 0)
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.PollID, &cm.UserID, &cm.ParentCommentID,
			&cm.Content, &cm.AuthorName, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// Insert creates a comment authored by userID.
func (r *Repository) Insert(ctx context.Context, pollID, userID uuid.UUID, parentID *uuid.UUID, content string) (*models.Comment, error) {
	const q = `INSERT INTO comments (poll_id, user_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, poll_id, user_id, parent_comment_id, content, created_at, updated_at`
	var cm models.Comment
	err := r.pool.QueryRow(ctx, q, pollID, userID, parentID, content).
		Scan(&cm.ID, &cm.PollID, &cm.UserID, &cm.ParentCommentID, &cm.Content,
			&cm.CreatedAt, &cm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Update changes a comment's content. Ownership is part of the mutation
// predicate, not a separate check, so there is no check/act race.
func (r *Repository) Update(ctx context.Context, commentID, userID uuid.UUID, content string) (*models.Comment, error) {
	const q = `UPDATE comments SET content = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, poll_id, user_id, parent_comment_id, content, created_at, updated_at`
	var cm models.Comment
	err := r.pool.QueryRow(ctx, q, commentID, userID, content).
		Scan(&cm.ID, &cm.PollID, &cm.UserID, &cm.ParentCommentID, &cm.Content,
			&cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Delete removes a comment with the same ownership-in-predicate semantics.
// Returns the poll ID of the deleted comment for change-feed notification.
func (r *Repository) Delete(ctx context.Context, commentID, userID uuid.UUID) (uuid.UUID, error) {
	const q = `DELETE FROM comments WHERE id = $1 AND user_id = $2 RETURNING poll_id`
	var pollID uuid.UUID
	err := r.pool.QueryRow(ctx, q, commentID, userID).Scan(&pollID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, domain.ErrNotOwner
	}
	if err != nil {
		return uuid.Nil, err
	}
	return pollID, nil
}
