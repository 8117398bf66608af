package assemblies

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/queue"
	"github.com/agora-assembly/backend/pkg/response"
)

// CreateRequest is the body for POST /assemblies.
type CreateRequest struct {
	Name                 string     `json:"name" binding:"required"`
	Kind                 string     `json:"kind" binding:"required,oneof=in_person online"`
	Location             string     `json:"location"`
	StartsAt             time.Time  `json:"starts_at" binding:"required"`
	EndsAt               time.Time  `json:"ends_at" binding:"required"`
	RegistrationOpen     bool       `json:"registration_open"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
}

// UpdateRequest is the body for PATCH /assemblies/:id.
type UpdateRequest struct {
	Name                 string     `json:"name"`
	Location             string     `json:"location"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
}

// Handler handles assembly HTTP endpoints.
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an assemblies handler.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// Create handles POST /assemblies (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a := &models.Assembly{
		Name:                 req.Name,
		Kind:                 models.AssemblyKind(req.Kind),
		Location:             req.Location,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		RegistrationOpen:     req.RegistrationOpen,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		CreatedBy:            middleware.ActorID(c),
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		h.logger.Error("create assembly failed", zap.Error(err))
		response.Internal(c, "failed to create assembly")
		return
	}
	response.Created(c, a)
}

// List handles GET /assemblies. ?status=active|archived filters.
func (h *Handler) List(c *gin.Context) {
	var status *models.AssemblyStatus
	if s := c.Query("status"); s == string(models.AssemblyActive) || s == string(models.AssemblyArchived) {
		v := models.AssemblyStatus(s)
		status = &v
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list assemblies")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /assemblies/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, a)
}

// Update handles PATCH /assemblies/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, req.Name, req.Location, req.StartsAt, req.EndsAt, req.RegistrationDeadline, req.MaxParticipants); err != nil {
		response.FromError(c, err)
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, a)
}

// SetRegistrationOpen handles PATCH /assemblies/:id/registration (admin only).
func (h *Handler) SetRegistrationOpen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	var req struct {
		Open bool `json:"open"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.SetRegistrationOpen(c.Request.Context(), id, req.Open); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"assembly_id": id, "registration_open": req.Open})
}

// Archive handles POST /assemblies/:id/archive (admin only). Marks the
// assembly archived and enqueues the cold-storage export; the worker moves
// dependent data to the archive bucket.
func (h *Handler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	if err := h.repo.Archive(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	if h.queue != nil {
		if err := h.queue.EnqueueArchiveExport(c.Request.Context(), queue.ArchiveExportPayload{
			AssemblyID: id,
			ArchivedBy: middleware.ActorID(c),
		}); err != nil {
			h.logger.Error("enqueue archive export failed", zap.Error(err), zap.String("assembly_id", id.String()))
		}
	}
	response.OK(c, gin.H{"assembly_id": id, "status": models.AssemblyArchived})
}

// Delete handles DELETE /assemblies/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
