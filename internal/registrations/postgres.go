package registrations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/models"
)

const registrationColumns = `id, assembly_id, modality_id, category, participant_id, registered_by,
	status, personal, payment_exempt, COALESCE(exempt_reason,''), COALESCE(receipt_key,''),
	receipt_uploaded_at, reviewed_by, reviewed_at, COALESCE(review_notes,''),
	resubmitted_at, attended_at, attendance_marked_by, registered_at, updated_at`

// PostgresStore is the pgx-backed registration store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a registration store over a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var r models.Registration
	err := row.Scan(&r.ID, &r.AssemblyID, &r.ModalityID, &r.Category, &r.ParticipantID, &r.RegisteredBy,
		&r.Status, &r.Personal, &r.PaymentExempt, &r.ExemptReason, &r.ReceiptKey,
		&r.ReceiptUpAt, &r.ReviewedBy, &r.ReviewedAt, &r.ReviewNotes,
		&r.ResubmittedAt, &r.AttendedAt, &r.AttendedMarkBy, &r.RegisteredAt, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return &r, nil
}

// Create inserts a registration and fills the generated fields.
func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	const q = `INSERT INTO registrations
		(assembly_id, modality_id, category, participant_id, registered_by, status, personal,
		 payment_exempt, exempt_reason, reviewed_by, reviewed_at, review_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9,''), $10, $11, NULLIF($12,''))
		RETURNING id, registered_at, updated_at`
	err := s.pool.QueryRow(ctx, q,
		reg.AssemblyID, reg.ModalityID, reg.Category, reg.ParticipantID, reg.RegisteredBy,
		reg.Status, reg.Personal, reg.PaymentExempt, reg.ExemptReason,
		reg.ReviewedBy, reg.ReviewedAt, reg.ReviewNotes,
	).Scan(&reg.ID, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// GetByID returns one registration, or nil when absent.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(s.pool.QueryRow(ctx, q, id))
}

// GetActiveByRegistrant returns the registrant's non-cancelled registration
// for the assembly, or nil.
func (s *PostgresStore) GetActiveByRegistrant(ctx context.Context, assemblyID, userID uuid.UUID) (*models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE assembly_id = $1 AND registered_by = $2 AND status <> 'cancelled'`
	return scanRegistration(s.pool.QueryRow(ctx, q, assemblyID, userID))
}

// GetActiveByParticipant returns the non-cancelled registration claiming the
// participant identity, or nil.
func (s *PostgresStore) GetActiveByParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE assembly_id = $1 AND participant_id = $2 AND status <> 'cancelled'`
	return scanRegistration(s.pool.QueryRow(ctx, q, assemblyID, participantID))
}

// GetLatestByParticipant returns the most recent registration for the
// participant identity regardless of status, or nil.
func (s *PostgresStore) GetLatestByParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE assembly_id = $1 AND participant_id = $2
		ORDER BY registered_at DESC LIMIT 1`
	return scanRegistration(s.pool.QueryRow(ctx, q, assemblyID, participantID))
}

// Update persists the mutable fields of a registration.
func (s *PostgresStore) Update(ctx context.Context, reg *models.Registration) error {
	const q = `UPDATE registrations SET
			modality_id = $1, category = $2, participant_id = $3, status = $4, personal = $5,
			payment_exempt = $6, exempt_reason = NULLIF($7,''),
			receipt_key = NULLIF($8,''), receipt_uploaded_at = $9,
			reviewed_by = $10, reviewed_at = $11, review_notes = NULLIF($12,''),
			resubmitted_at = $13, attended_at = $14, attendance_marked_by = $15,
			updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at`
	err := s.pool.QueryRow(ctx, q,
		reg.ModalityID, reg.Category, reg.ParticipantID, reg.Status, reg.Personal,
		reg.PaymentExempt, reg.ExemptReason, reg.ReceiptKey, reg.ReceiptUpAt,
		reg.ReviewedBy, reg.ReviewedAt, reg.ReviewNotes,
		reg.ResubmittedAt, reg.AttendedAt, reg.AttendedMarkBy,
		reg.ID,
	).Scan(&reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// Delete removes a registration row.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// CountActive counts the registrations holding a capacity slot: pending,
// pending_review and approved.
func (s *PostgresStore) CountActive(ctx context.Context, assemblyID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM registrations
		WHERE assembly_id = $1 AND status IN ('pending', 'pending_review', 'approved')`
	var n int
	if err := s.pool.QueryRow(ctx, q, assemblyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active: %w", err)
	}
	return n, nil
}

// CountActiveByModality counts slot-holding registrations on a modality,
// excluding one registration id (uuid.Nil excludes nothing).
func (s *PostgresStore) CountActiveByModality(ctx context.Context, modalityID, exclude uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM registrations
		WHERE modality_id = $1 AND id <> $2 AND status IN ('pending', 'pending_review', 'approved')`
	var n int
	if err := s.pool.QueryRow(ctx, q, modalityID, exclude).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by modality: %w", err)
	}
	return n, nil
}

// ListByAssembly returns every registration of an assembly, newest first.
func (s *PostgresStore) ListByAssembly(ctx context.Context, assemblyID uuid.UUID) ([]models.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE assembly_id = $1 ORDER BY registered_at DESC`
	rows, err := s.pool.Query(ctx, q, assemblyID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []models.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
