package assemblies

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
)

const columns = `id, name, kind, location, starts_at, ends_at, status, registration_open,
	registration_deadline, max_participants, created_by, created_at, updated_at`

// Repository handles assembly persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an assemblies repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAssembly(row pgx.Row) (*models.Assembly, error) {
	var a models.Assembly
	err := row.Scan(&a.ID, &a.Name, &a.Kind, &a.Location, &a.StartsAt, &a.EndsAt, &a.Status,
		&a.RegistrationOpen, &a.RegistrationDeadline, &a.MaxParticipants, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFoundf("assembly")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new assembly.
func (r *Repository) Create(ctx context.Context, a *models.Assembly) error {
	const q = `INSERT INTO assemblies (name, kind, location, starts_at, ends_at, registration_open, registration_deadline, max_participants, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.Name, a.Kind, a.Location, a.StartsAt, a.EndsAt,
		a.RegistrationOpen, a.RegistrationDeadline, a.MaxParticipants, a.CreatedBy).
		Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an assembly by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assembly, error) {
	return scanAssembly(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM assemblies WHERE id = $1`, id))
}

// List returns assemblies, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *models.AssemblyStatus) ([]models.Assembly, error) {
	q := `SELECT ` + columns + ` FROM assemblies`
	var args []interface{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY starts_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Assembly
	for rows.Next() {
		var a models.Assembly
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Location, &a.StartsAt, &a.EndsAt, &a.Status,
			&a.RegistrationOpen, &a.RegistrationDeadline, &a.MaxParticipants, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update updates mutable assembly fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, location string, startsAt, endsAt *time.Time, deadline *time.Time, maxParticipants *int) error {
	const q = `UPDATE assemblies SET name = COALESCE(NULLIF($1,''), name), location = COALESCE(NULLIF($2,''), location),
		starts_at = COALESCE($3, starts_at), ends_at = COALESCE($4, ends_at),
		registration_deadline = $5, max_participants = $6, updated_at = NOW()
		WHERE id = $7 AND status = 'active'`
	tag, err := r.pool.Exec(ctx, q, name, location, startsAt, endsAt, deadline, maxParticipants, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("active assembly")
	}
	return nil
}

// SetRegistrationOpen toggles the registration window.
func (r *Repository) SetRegistrationOpen(ctx context.Context, id uuid.UUID, open bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assemblies SET registration_open = $1, updated_at = NOW() WHERE id = $2 AND status = 'active'`, open, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("active assembly")
	}
	return nil
}

// Archive marks an assembly archived and closes registration. Terminal:
// archived assemblies are never reactivated.
func (r *Repository) Archive(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assemblies SET status = 'archived', registration_open = FALSE, updated_at = NOW()
		 WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.Conflictf("assembly already archived or missing")
	}
	return nil
}

// Delete removes an assembly and, via cascades, its dependent rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assemblies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("assembly")
	}
	return nil
}
