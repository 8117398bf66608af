package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agora-assembly/backend/internal/models"
)

// Repository handles notification_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const logColumns = `id, assembly_id, registration_id, kind, recipient, COALESCE(subject,''),
	COALESCE(body,''), status, sent_at, COALESCE(error_message,''), created_at`

// Record inserts a pending log row for an enqueued notification.
func (r *Repository) Record(ctx context.Context, log *models.NotificationLog) error {
	const q = `INSERT INTO notification_logs (assembly_id, registration_id, kind, recipient, subject, body, status)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), $7)
		RETURNING id, created_at`
	status := log.Status
	if status == "" {
		status = models.NotificationPending
	}
	err := r.pool.QueryRow(ctx, q,
		log.AssemblyID, log.RegistrationID, log.Kind, log.Recipient, log.Subject, log.Body, status,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	log.Status = status
	return nil
}

// MarkSent flips a log row to sent.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notification_logs SET status = $1, sent_at = $2, error_message = NULL WHERE id = $3`,
		models.NotificationSent, at, id)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed flips a log row to failed with the delivery error.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notification_logs SET status = $1, error_message = $2 WHERE id = $3`,
		models.NotificationFailed, reason, id)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

// GetByID returns one log row.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error) {
	q := `SELECT ` + logColumns + ` FROM notification_logs WHERE id = $1`
	var l models.NotificationLog
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&l.ID, &l.AssemblyID, &l.RegistrationID, &l.Kind, &l.Recipient, &l.Subject,
		&l.Body, &l.Status, &l.SentAt, &l.ErrorMessage, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get notification log: %w", err)
	}
	return &l, nil
}

// ListByAssembly returns the assembly's notification history, newest first.
func (r *Repository) ListByAssembly(ctx context.Context, assemblyID uuid.UUID, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT ` + logColumns + ` FROM notification_logs
		WHERE assembly_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, assemblyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	defer rows.Close()

	var out []models.NotificationLog
	for rows.Next() {
		var l models.NotificationLog
		err := rows.Scan(&l.ID, &l.AssemblyID, &l.RegistrationID, &l.Kind, &l.Recipient, &l.Subject,
			&l.Body, &l.Status, &l.SentAt, &l.ErrorMessage, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
