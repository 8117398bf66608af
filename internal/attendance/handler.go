package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/response"
)

// Handler handles attendance HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an attendance handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func assemblyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return uuid.Nil, false
	}
	return id, true
}

// UpdateRequest is one attendance tap. An empty status advances the
// member one step in the cycle.
type UpdateRequest struct {
	Category string `json:"category" binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status" binding:"omitempty,oneof=not_counting present absent excluded"`
}

// Update handles POST /assemblies/:id/attendance (admin only).
func (h *Handler) Update(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	update, err := h.svc.Update(c.Request.Context(), UpdateInput{
		AssemblyID: aid,
		Category:   models.ParticipantCategory(req.Category),
		MemberID:   req.MemberID,
		Name:       req.Name,
		Role:       req.Role,
		Status:     Status(req.Status),
		UpdatedBy:  middleware.ActorID(c),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, update)
}

// List handles GET /assemblies/:id/attendance.
func (h *Handler) List(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	records, err := h.svc.List(c.Request.Context(), aid)
	if err != nil {
		h.logger.Error("list attendance failed", zap.Error(err))
		response.Internal(c, "failed to list attendance")
		return
	}
	response.OK(c, records)
}

// Quorum handles GET /assemblies/:id/attendance/quorum.
func (h *Handler) Quorum(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	report, err := h.svc.QuorumByCategory(c.Request.Context(), aid)
	if err != nil {
		h.logger.Error("quorum failed", zap.Error(err))
		response.Internal(c, "failed to compute quorum")
		return
	}
	response.OK(c, report)
}

// Reset handles DELETE /assemblies/:id/attendance (admin only). Clears the
// sheet for a fresh session.
func (h *Handler) Reset(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	n, err := h.svc.Reset(c.Request.Context(), aid, middleware.ActorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"assembly_id": aid, "deleted": n})
}
