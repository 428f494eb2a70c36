package votes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulse-polls/backend/internal/models"
)

// Repository handles vote persistence. Votes are append-only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a votes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records one vote for an option of a poll.
func (r *Repository) Insert(ctx context.Context, pollID uuid.UUID, option string) (*models.Vote, error) {
	const q = `INSERT INTO votes (poll_id, option) VALUES ($1, $2)
		RETURNING id, poll_id, option, created_at`
	var v models.Vote
	err := r.pool.QueryRow(ctx, q, pollID, option).
		Scan(&v.ID, &v.PollID, &v.Option, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByPoll returns all raw vote rows for a poll. Results are always
// recomputed from these rows; no counter is maintained alongside them.
func (r *Repository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]models.Vote, error) {
	const q = `SELECT id, poll_id, option, created_at FROM votes WHERE poll_id = $1`
	rows, err := r.pool.Query(ctx, q, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	votes := make([]models.Vote, 0)
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.PollID, &v.Option, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
