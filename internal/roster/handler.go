package roster

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/response"
)

// UpsertRequest is the body for PUT /assemblies/:id/roster (importer surface).
type UpsertRequest struct {
	Entries []struct {
		Category      string `json:"category" binding:"required"`
		ParticipantID string `json:"participant_id" binding:"required"`
		Name          string `json:"name"`
	} `json:"entries" binding:"required,dive"`
}

// Handler handles roster HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a roster handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListByAssembly handles GET /assemblies/:id/roster (admin only).
func (h *Handler) ListByAssembly(c *gin.Context) {
	assemblyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	list, err := h.repo.ListByAssembly(c.Request.Context(), assemblyID, c.Query("category"))
	if err != nil {
		response.Internal(c, "failed to list roster")
		return
	}
	response.OK(c, list)
}

// Upsert handles PUT /assemblies/:id/roster (admin only). The spreadsheet
// parsing lives with the external importer; this endpoint just persists
// rows it already resolved.
func (h *Handler) Upsert(c *gin.Context) {
	assemblyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	count := 0
	for _, in := range req.Entries {
		e := &models.RosterEntry{
			AssemblyID:    assemblyID,
			Category:      models.ParticipantCategory(in.Category),
			ParticipantID: in.ParticipantID,
			Name:          in.Name,
		}
		if err := h.repo.Upsert(c.Request.Context(), e); err != nil {
			h.logger.Error("roster upsert failed", zap.Error(err), zap.String("participant_id", in.ParticipantID))
			response.Internal(c, "failed to upsert roster")
			return
		}
		count++
	}
	response.OK(c, gin.H{"assembly_id": assemblyID, "upserted": count})
}
