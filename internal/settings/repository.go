package settings

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/models"
)

// Snapshot is the registration configuration captured at the start of an
// operation. Operations never re-read the singleton mid-flight.
type Snapshot struct {
	RegistrationEnabled bool
	AutoApproval        bool
}

// Repository handles the settings singleton.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the most recent settings row, or defaults when none exists.
func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	const q = `SELECT id, registration_enabled, auto_approval, COALESCE(code_of_conduct_key,''), updated_by, updated_at
		FROM settings ORDER BY updated_at DESC LIMIT 1`
	var s models.Settings
	err := r.pool.QueryRow(ctx, q).Scan(&s.ID, &s.RegistrationEnabled, &s.AutoApproval, &s.CodeOfConductKey, &s.UpdatedBy, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Snapshot loads the flags the registration engine gates on.
func (r *Repository) Snapshot(ctx context.Context) (Snapshot, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{RegistrationEnabled: s.RegistrationEnabled, AutoApproval: s.AutoApproval}, nil
}

// Update upserts the singleton row.
func (r *Repository) Update(ctx context.Context, enabled, autoApproval bool, cocKey string, updatedBy uuid.UUID) (*models.Settings, error) {
	cur, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cur.ID == uuid.Nil {
		const ins = `INSERT INTO settings (registration_enabled, auto_approval, code_of_conduct_key, updated_by)
			VALUES ($1, $2, NULLIF($3,''), $4)
			RETURNING id, registration_enabled, auto_approval, COALESCE(code_of_conduct_key,''), updated_by, updated_at`
		var s models.Settings
		err := r.pool.QueryRow(ctx, ins, enabled, autoApproval, cocKey, updatedBy).
			Scan(&s.ID, &s.RegistrationEnabled, &s.AutoApproval, &s.CodeOfConductKey, &s.UpdatedBy, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}
	const upd = `UPDATE settings SET registration_enabled = $1, auto_approval = $2,
			code_of_conduct_key = NULLIF($3,''), updated_by = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, registration_enabled, auto_approval, COALESCE(code_of_conduct_key,''), updated_by, updated_at`
	var s models.Settings
	err = r.pool.QueryRow(ctx, upd, enabled, autoApproval, cocKey, updatedBy, cur.ID).
		Scan(&s.ID, &s.RegistrationEnabled, &s.AutoApproval, &s.CodeOfConductKey, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
