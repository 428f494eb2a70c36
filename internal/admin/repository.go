package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/models"
)

// UserStore is what the role manager needs from user persistence.
type UserStore interface {
	List(ctx context.Context) ([]models.UserPublic, error)
	Promote(ctx context.Context, id uuid.UUID) error
	Demote(ctx context.Context, id uuid.UUID) error
}

// Repository implements UserStore against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admin repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users ordered by name then email.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	const q = `SELECT id, email, full_name, role, created_at
		FROM users ORDER BY full_name, email`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.UserPublic, 0)
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Promote sets the target's role to admin.
func (r *Repository) Promote(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = 'admin', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Demote sets the target's role back to user. The "at least one admin"
// invariant is enforced inside a single conditional UPDATE, so two
// concurrent demotions cannot race each other down to zero admins.
func (r *Repository) Demote(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE users SET role = 'user', updated_at = now()
		WHERE id = $1 AND role = 'admin'
		AND (SELECT count(*) FROM users WHERE role = 'admin') > 1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// The guard refused; one read to say why. The read is only for the
	// error message, never for the decision.
	var role string
	err = r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if role != string(models.RoleAdmin) {
		return domain.ErrNotAdmin
	}
	return domain.ErrLastAdmin
}
