package polls

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/models"
)

// Repository handles poll persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a polls repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new poll owned by ownerID.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, in Input) (*models.Poll, error) {
	const q = `INSERT INTO polls (owner_id, title, description, options, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id, owner_id, title, COALESCE(description, ''), options, expires_at, created_at, updated_at`
	var p models.Poll
	err := r.pool.QueryRow(ctx, q, ownerID, in.Title, in.Description, in.Options, in.ExpiresAt).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Options, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a poll by ID, or domain.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	const q = `SELECT id, owner_id, title, COALESCE(description, ''), options, expires_at, created_at, updated_at
		FROM polls WHERE id = $1`
	var p models.Poll
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Options, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all polls newest first, each with its current vote total.
func (r *Repository) List(ctx context.Context) ([]models.PollSummary, error) {
	const q = `SELECT p.id, p.owner_id, p.title, COALESCE(p.description, ''), p.options,
		p.expires_at, p.created_at, p.updated_at, COUNT(v.id)
		FROM polls p LEFT JOIN votes v ON v.poll_id = p.id
		GROUP BY p.id ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.PollSummary, 0)
	for rows.Next() {
		var s models.PollSummary
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Options,
			&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt, &s.TotalVotes); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update applies new input to a poll. Ownership is part of the mutation
// predicate: zero rows affected means "missing or not yours", reported as
// the single merged domain.ErrNotOwner.
func (r *Repository) Update(ctx context.Context, id, ownerID uuid.UUID, in Input) (*models.Poll, error) {
	const q = `UPDATE polls SET title = $3, description = NULLIF($4, ''), options = $5,
		expires_at = $6, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, COALESCE(description, ''), options, expires_at, created_at, updated_at`
	var p models.Poll
	err := r.pool.QueryRow(ctx, q, id, ownerID, in.Title, in.Description, in.Options, in.ExpiresAt).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Options, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a poll. Same merged ownership semantics as Update; votes
// and comments go with it via the cascade.
func (r *Repository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM polls WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotOwner
	}
	return nil
}

// ListExpiredWithoutSnapshot returns polls whose expiry has passed and that
// have no final snapshot yet. Used by the expiry sweeper.
func (r *Repository) ListExpiredWithoutSnapshot(ctx context.Context, limit int) ([]models.Poll, error) {
	const q = `SELECT p.id, p.owner_id, p.title, COALESCE(p.description, ''), p.options,
		p.expires_at, p.created_at, p.updated_at
		FROM polls p
		WHERE p.expires_at IS NOT NULL AND p.expires_at <= now()
		AND NOT EXISTS (SELECT 1 FROM result_snapshots s WHERE s.poll_id = p.id)
		ORDER BY p.expires_at LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Poll
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Options,
			&p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
