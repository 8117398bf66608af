package modalities

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/response"
)

// CreateRequest is the body for POST /assemblies/:id/modalities.
type CreateRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	IsActive        *bool  `json:"is_active"`
	MaxParticipants *int   `json:"max_participants"`
	PriceCents      int    `json:"price_cents" binding:"min=0"`
}

// UpdateRequest is the body for PATCH /modalities/:id.
type UpdateRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsActive        *bool  `json:"is_active"`
	MaxParticipants *int   `json:"max_participants"`
	PriceCents      *int   `json:"price_cents"`
}

// Handler handles modality HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a modalities handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /assemblies/:id/modalities (admin only).
func (h *Handler) Create(c *gin.Context) {
	assemblyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	m := &models.RegistrationModality{
		AssemblyID:      assemblyID,
		Name:            req.Name,
		Description:     req.Description,
		IsActive:        active,
		MaxParticipants: req.MaxParticipants,
		PriceCents:      req.PriceCents,
	}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		h.logger.Error("create modality failed", zap.Error(err))
		response.Internal(c, "failed to create modality")
		return
	}
	response.Created(c, m)
}

// ListByAssembly handles GET /assemblies/:id/modalities. Non-admin callers
// see active plans only (?all=true needs the admin surface).
func (h *Handler) ListByAssembly(c *gin.Context) {
	assemblyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return
	}
	activeOnly := c.Query("all") != "true"
	list, err := h.repo.ListByAssembly(c.Request.Context(), assemblyID, activeOnly)
	if err != nil {
		response.Internal(c, "failed to list modalities")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /modalities/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid modality id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, req.Name, req.Description, req.IsActive, req.MaxParticipants, req.PriceCents); err != nil {
		response.FromError(c, err)
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /modalities/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid modality id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
