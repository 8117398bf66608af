package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/models"
)

// Repository persists attendance records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `id, assembly_id, category, member_id, name, COALESCE(role,''), status, updated_by, updated_at`

func scanRecord(row pgx.Row) (*models.AttendanceRecord, error) {
	var r models.AttendanceRecord
	err := row.Scan(&r.ID, &r.AssemblyID, &r.Category, &r.MemberID, &r.Name, &r.Role, &r.Status, &r.UpdatedBy, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan attendance record: %w", err)
	}
	return &r, nil
}

// Get returns the record for one member, or nil when the member was never
// touched this session.
func (r *Repository) Get(ctx context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, memberID string) (*models.AttendanceRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM attendance_records
		WHERE assembly_id = $1 AND category = $2 AND member_id = $3`
	return scanRecord(r.pool.QueryRow(ctx, q, assemblyID, category, memberID))
}

// Upsert writes the member's attendance state, keyed by
// (assembly, category, member).
func (r *Repository) Upsert(ctx context.Context, rec *models.AttendanceRecord) error {
	q := `INSERT INTO attendance_records (assembly_id, category, member_id, name, role, status, updated_by)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6, $7)
		ON CONFLICT (assembly_id, category, member_id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + recordColumns
	out, err := scanRecord(r.pool.QueryRow(ctx, q,
		rec.AssemblyID, rec.Category, rec.MemberID, rec.Name, rec.Role, rec.Status, rec.UpdatedBy))
	if err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	*rec = *out
	return nil
}

// ListByAssembly returns every attendance record of the assembly.
func (r *Repository) ListByAssembly(ctx context.Context, assemblyID uuid.UUID) ([]models.AttendanceRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM attendance_records
		WHERE assembly_id = $1 ORDER BY category, name, member_id`
	rows, err := r.pool.Query(ctx, q, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteAll wipes the assembly's attendance sheet and returns how many
// records were removed.
func (r *Repository) DeleteAll(ctx context.Context, assemblyID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendance_records WHERE assembly_id = $1`, assemblyID)
	if err != nil {
		return 0, fmt.Errorf("reset attendance: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
