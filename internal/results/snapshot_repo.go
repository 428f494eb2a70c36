package results

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/models"
)

// SnapshotRepository persists final tallies of expired polls.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Insert records a poll's final tally. Inserting twice for the same poll is
// a no-op so retried jobs and overlapping sweeps stay idempotent.
func (r *SnapshotRepository) Insert(ctx context.Context, pollID uuid.UUID, totals []byte, totalVotes int, exportURL string) error {
	const q = `INSERT INTO result_snapshots (poll_id, totals, total_votes, export_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (poll_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, pollID, totals, totalVotes, exportURL)
	return err
}

// GetByPoll returns the snapshot for a poll, or domain.ErrNotFound.
func (r *SnapshotRepository) GetByPoll(ctx context.Context, pollID uuid.UUID) (*models.ResultSnapshot, error) {
	const q = `SELECT id, poll_id, totals, total_votes, COALESCE(export_url, ''), created_at
		FROM result_snapshots WHERE poll_id = $1`
	var s models.ResultSnapshot
	err := r.pool.QueryRow(ctx, q, pollID).
		Scan(&s.ID, &s.PollID, &s.Totals, &s.TotalVotes, &s.ExportURL, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
