package notifications

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/queue"
	"github.com/agora-assembly/backend/pkg/response"
)

// Handler handles notification log HTTP endpoints.
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// ListByAssembly handles GET /assemblies/:id/notifications (admin only).
func (h *Handler) ListByAssembly(c *gin.Context) {
	assemblyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.repo.ListByAssembly(c.Request.Context(), assemblyID, limit)
	if err != nil {
		h.logger.Error("list notification logs failed", zap.Error(err))
		response.Internal(c, "failed to load notification logs")
		return
	}
	response.OK(c, logs)
}

// Resend handles POST /notifications/:id/resend (admin only). Re-enqueues
// a previously logged notification; the worker sends and records a fresh
// log row.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	log, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "notification not found")
		return
	}
	if err := h.queue.EnqueueNotification(c.Request.Context(), resendPayload(log)); err != nil {
		h.logger.Error("resend enqueue failed", zap.Error(err), zap.String("notification_id", id.String()))
		response.Internal(c, "failed to enqueue notification")
		return
	}
	response.OK(c, gin.H{"notification_id": id, "status": "queued"})
}

// resendPayload rebuilds the queue payload from a stored log row. The row
// carries the rendered subject and body, so the resent mail matches the
// original delivery.
func resendPayload(log *models.NotificationLog) queue.NotificationPayload {
	payload := queue.NotificationPayload{
		Kind:      log.Kind,
		Recipient: log.Recipient,
		Subject:   log.Subject,
		Body:      log.Body,
	}
	if log.AssemblyID != nil {
		payload.AssemblyID = *log.AssemblyID
	}
	if log.RegistrationID != nil {
		payload.RegistrationID = *log.RegistrationID
	}
	return payload
}
