package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/config"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/internal/notifications"
	"github.com/agora-assembly/backend/internal/registrations"
	"github.com/agora-assembly/backend/pkg/queue"
	"github.com/agora-assembly/backend/pkg/storage"
)

// Processor consumes background jobs: outbound notifications and
// cold-storage exports of archived assemblies.
type Processor struct {
	queue    *queue.Queue
	logs     *notifications.Repository
	regStore registrations.Store
	s3       *storage.S3
	email    config.EmailConfig
	logger   *zap.Logger
}

// NewProcessor creates a job processor. s3 may be nil; archive exports
// then fail and retry until storage is configured.
func NewProcessor(q *queue.Queue, logs *notifications.Repository, regStore registrations.Store, s3 *storage.S3, email config.EmailConfig, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{queue: q, logs: logs, regStore: regStore, s3: s3, email: email, logger: logger}
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeNotification:
		return p.processNotification(ctx, job)
	case queue.JobTypeArchiveExport:
		return p.processArchiveExport(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Processor) processNotification(ctx context.Context, job *queue.Job) error {
	var payload queue.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log := &models.NotificationLog{
		Kind:      payload.Kind,
		Recipient: payload.Recipient,
		Subject:   payload.Subject,
		Body:      payload.Body,
	}
	if payload.AssemblyID != uuid.Nil {
		id := payload.AssemblyID
		log.AssemblyID = &id
	}
	if payload.RegistrationID != uuid.Nil {
		id := payload.RegistrationID
		log.RegistrationID = &id
	}
	if err := p.logs.Record(ctx, log); err != nil {
		return err
	}

	if p.email.SMTPHost == "" {
		// No SMTP configured: the log row is the delivery record.
		p.logger.Info("notification logged without delivery",
			zap.String("kind", payload.Kind), zap.String("recipient", payload.Recipient))
		return p.logs.MarkSent(ctx, log.ID, time.Now())
	}

	if err := p.sendMail(payload); err != nil {
		if markErr := p.logs.MarkFailed(ctx, log.ID, err.Error()); markErr != nil {
			p.logger.Error("mark notification failed errored", zap.Error(markErr))
		}
		return fmt.Errorf("send mail: %w", err)
	}
	return p.logs.MarkSent(ctx, log.ID, time.Now())
}

func (p *Processor) sendMail(payload queue.NotificationPayload) error {
	addr := p.email.SMTPHost + ":" + strconv.Itoa(p.email.SMTPPort)
	var auth smtp.Auth
	if p.email.SMTPUser != "" {
		auth = smtp.PlainAuth("", p.email.SMTPUser, p.email.SMTPPass, p.email.SMTPHost)
	}
	from := p.email.FromAddress
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", p.email.FromName, from)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(payload.Body)
	return smtp.SendMail(addr, auth, from, []string{payload.Recipient}, msg.Bytes())
}

// archiveExport is the JSON document written to the archive bucket.
type archiveExport struct {
	AssemblyID    string                `json:"assembly_id"`
	ArchivedBy    string                `json:"archived_by"`
	ExportedAt    time.Time             `json:"exported_at"`
	Registrations []models.Registration `json:"registrations"`
}

func (p *Processor) processArchiveExport(ctx context.Context, job *queue.Job) error {
	var payload queue.ArchiveExportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.s3 == nil {
		return fmt.Errorf("archive export needs object storage")
	}

	regs, err := p.regStore.ListByAssembly(ctx, payload.AssemblyID)
	if err != nil {
		return fmt.Errorf("load registrations: %w", err)
	}

	now := time.Now().UTC()
	doc, err := json.Marshal(archiveExport{
		AssemblyID:    payload.AssemblyID.String(),
		ArchivedBy:    payload.ArchivedBy.String(),
		ExportedAt:    now,
		Registrations: regs,
	})
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	key := storage.ArchiveKey(payload.AssemblyID.String(), now)
	if err := p.s3.Upload(ctx, p.s3.ArchiveBucket(), key, "application/json", bytes.NewReader(doc), int64(len(doc))); err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}

	p.logger.Info("assembly archive exported",
		zap.String("assembly_id", payload.AssemblyID.String()),
		zap.String("s3_key", key),
		zap.Int("registrations", len(regs)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
