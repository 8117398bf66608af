package settings

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/pkg/response"
	"github.com/agora-assembly/backend/pkg/storage"
)

// UpdateRequest is the body for PUT /settings.
type UpdateRequest struct {
	RegistrationEnabled bool `json:"registration_enabled"`
	AutoApproval        bool `json:"auto_approval"`
}

// Handler handles settings HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a settings handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// Get handles GET /settings.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.repo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	response.OK(c, s)
}

// Update handles PUT /settings (admin only).
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	actor := middleware.ActorID(c)
	cur, err := h.repo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	s, err := h.repo.Update(c.Request.Context(), req.RegistrationEnabled, req.AutoApproval, cur.CodeOfConductKey, actor)
	if err != nil {
		h.logger.Error("update settings failed", zap.Error(err))
		response.Internal(c, "failed to update settings")
		return
	}
	response.OK(c, s)
}

// UploadCodeOfConduct handles POST /settings/code-of-conduct (admin only).
// Stores the document in S3 and records its key in the singleton.
func (h *Handler) UploadCodeOfConduct(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	key := storage.DocumentKey("code-of-conduct-" + uuid.New().String() + ".pdf")
	if err := h.s3.Upload(c.Request.Context(), h.s3.DocumentsBucket(), key, "application/pdf", f, fileHeader.Size); err != nil {
		h.logger.Error("code of conduct upload failed", zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}

	actor := middleware.ActorID(c)
	cur, err := h.repo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	s, err := h.repo.Update(c.Request.Context(), cur.RegistrationEnabled, cur.AutoApproval, key, actor)
	if err != nil {
		response.Internal(c, "failed to record document")
		return
	}
	response.OK(c, s)
}

// CodeOfConductURL handles GET /settings/code-of-conduct. Returns a
// presigned download URL for the current document.
func (h *Handler) CodeOfConductURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	s, err := h.repo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	if s.CodeOfConductKey == "" {
		response.NotFound(c, "no code of conduct uploaded")
		return
	}
	url, err := h.s3.PresignDownloadURL(c.Request.Context(), h.s3.DocumentsBucket(), s.CodeOfConductKey, h.s3.PresignExpire())
	if err != nil {
		response.Internal(c, "failed to presign url")
		return
	}
	response.OK(c, gin.H{"url": url})
}
