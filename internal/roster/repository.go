package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/models"
)

// Repository reads the precomputed participant roster. Rows are written by
// the external import collaborator; the engine only looks identities up.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a roster repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ExistsForAssembly reports whether (assembly, category, participant) has a
// roster entry. Used for assembly-scoped eligibility (eb) and the legacy
// direct-registration fast path.
func (r *Repository) ExistsForAssembly(ctx context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, participantID string) (bool, error) {
	const q = `SELECT 1 FROM assembly_roster WHERE assembly_id = $1 AND category = $2 AND participant_id = $3`
	var one int
	err := r.pool.QueryRow(ctx, q, assemblyID, string(category), participantID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ExistsAnywhere reports whether (category, participant) has a roster entry
// in any assembly. Used for cross-assembly roles (cr) and global committee
// lookups (comite).
func (r *Repository) ExistsAnywhere(ctx context.Context, category models.ParticipantCategory, participantID string) (bool, error) {
	const q = `SELECT 1 FROM assembly_roster WHERE category = $1 AND participant_id = $2 LIMIT 1`
	var one int
	err := r.pool.QueryRow(ctx, q, string(category), participantID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ExistsParticipant reports whether the participant id appears for the
// assembly under any category. Fast path for pre-form registrations.
func (r *Repository) ExistsParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (bool, error) {
	const q = `SELECT 1 FROM assembly_roster WHERE assembly_id = $1 AND participant_id = $2 LIMIT 1`
	var one int
	err := r.pool.QueryRow(ctx, q, assemblyID, participantID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByAssembly returns roster entries for an assembly, optionally
// filtered by category.
func (r *Repository) ListByAssembly(ctx context.Context, assemblyID uuid.UUID, category string) ([]models.RosterEntry, error) {
	q := `SELECT id, assembly_id, category, participant_id, name, created_at FROM assembly_roster WHERE assembly_id = $1`
	args := []interface{}{assemblyID}
	if category != "" {
		q += ` AND category = $2`
		args = append(args, category)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY category, name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.ID, &e.AssemblyID, &e.Category, &e.ParticipantID, &e.Name, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Upsert writes one roster entry. Exposed so the external importer has a
// write path; no business logic runs here.
func (r *Repository) Upsert(ctx context.Context, e *models.RosterEntry) error {
	const q = `INSERT INTO assembly_roster (assembly_id, category, participant_id, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (assembly_id, category, participant_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, e.AssemblyID, string(e.Category), e.ParticipantID, e.Name).
		Scan(&e.ID, &e.CreatedAt)
}
