package modalities

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
)

const columns = `id, assembly_id, name, description, is_active, max_participants, price_cents, created_at, updated_at`

// Repository handles registration modality persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a modalities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a modality for an assembly.
func (r *Repository) Create(ctx context.Context, m *models.RegistrationModality) error {
	const q = `INSERT INTO registration_modalities (assembly_id, name, description, is_active, max_participants, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.AssemblyID, m.Name, m.Description, m.IsActive, m.MaxParticipants, m.PriceCents).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a modality by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationModality, error) {
	var m models.RegistrationModality
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM registration_modalities WHERE id = $1`, id).
		Scan(&m.ID, &m.AssemblyID, &m.Name, &m.Description, &m.IsActive, &m.MaxParticipants, &m.PriceCents, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NotFoundf("modality")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByAssembly returns modalities for an assembly. When activeOnly is set,
// inactive plans are filtered out.
func (r *Repository) ListByAssembly(ctx context.Context, assemblyID uuid.UUID, activeOnly bool) ([]models.RegistrationModality, error) {
	q := `SELECT ` + columns + ` FROM registration_modalities WHERE assembly_id = $1`
	if activeOnly {
		q += ` AND is_active`
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY price_cents, name`, assemblyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.RegistrationModality
	for rows.Next() {
		var m models.RegistrationModality
		if err := rows.Scan(&m.ID, &m.AssemblyID, &m.Name, &m.Description, &m.IsActive, &m.MaxParticipants, &m.PriceCents, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update updates modality fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description string, isActive *bool, maxParticipants *int, priceCents *int) error {
	const q = `UPDATE registration_modalities SET
		name = COALESCE(NULLIF($1,''), name),
		description = COALESCE(NULLIF($2,''), description),
		is_active = COALESCE($3, is_active),
		max_participants = $4,
		price_cents = COALESCE($5, price_cents),
		updated_at = NOW()
		WHERE id = $6`
	tag, err := r.pool.Exec(ctx, q, name, description, isActive, maxParticipants, priceCents, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("modality")
	}
	return nil
}

// Delete removes a modality. Fails if registrations reference it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM registration_modalities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("modality")
	}
	return nil
}
