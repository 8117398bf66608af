package registrations

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/middleware"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/pkg/response"
	"github.com/agora-assembly/backend/pkg/storage"
)

// eligibilityRequest carries the category and its selector fields.
type eligibilityRequest struct {
	Category      string `json:"category" binding:"required"`
	ParticipantID string `json:"participant_id"`
	EBPositionID  string `json:"eb_position_id"`
	CRPositionID  string `json:"cr_position_id"`
	ComiteID      string `json:"comite_id"`
}

func (r eligibilityRequest) toInput() EligibilityInput {
	return EligibilityInput{
		Category:      models.ParticipantCategory(r.Category),
		ParticipantID: r.ParticipantID,
		EBPositionID:  r.EBPositionID,
		CRPositionID:  r.CRPositionID,
		ComiteID:      r.ComiteID,
	}
}

// RegisterRequest is the body for POST /assemblies/:id/registrations.
type RegisterRequest struct {
	eligibilityRequest
	ModalityID *uuid.UUID          `json:"modality_id"`
	Personal   models.PersonalInfo `json:"personal" binding:"required"`
}

// FormRequest is the body for the registration-form endpoint.
type FormRequest struct {
	eligibilityRequest
	ModalityID    *uuid.UUID          `json:"modality_id"`
	Personal      models.PersonalInfo `json:"personal" binding:"required"`
	PaymentExempt bool                `json:"payment_exempt"`
	ExemptReason  string              `json:"exempt_reason"`
	Status        string              `json:"status"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc    *Service
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a registrations handler. s3 may be nil when object
// storage is not configured; receipt endpoints then reject uploads.
func NewHandler(svc *Service, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, s3: s3, logger: logger}
}

func assemblyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assembly id")
		return uuid.Nil, false
	}
	return id, true
}

func registrationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return uuid.Nil, false
	}
	return id, true
}

// Register handles POST /assemblies/:id/registrations.
func (h *Handler) Register(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reg, err := h.svc.Register(c.Request.Context(), RegisterInput{
		AssemblyID:   aid,
		RegisteredBy: middleware.ActorID(c),
		Eligibility:  req.toInput(),
		ModalityID:   req.ModalityID,
		Personal:     req.Personal,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, reg)
}

// CreateFromForm handles POST /assemblies/:id/registrations/form. Submitting
// twice updates the caller's existing registration.
func (h *Handler) CreateFromForm(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.svc.CreateFromForm(c.Request.Context(), FormInput{
		AssemblyID:    aid,
		UserID:        middleware.ActorID(c),
		ModalityID:    req.ModalityID,
		Eligibility:   req.toInput(),
		Personal:      req.Personal,
		PaymentExempt: req.PaymentExempt,
		ExemptReason:  req.ExemptReason,
		Status:        models.RegistrationStatus(req.Status),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	if res.IsUpdated {
		response.OK(c, res)
		return
	}
	response.Created(c, res)
}

// List handles GET /assemblies/:id/registrations (admin only).
func (h *Handler) List(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	list, err := h.svc.ListByAssembly(c.Request.Context(), aid)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}

// MyStatus handles GET /assemblies/:id/registrations/me.
func (h *Handler) MyStatus(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	st, err := h.svc.GetUserStatus(c.Request.Context(), aid, middleware.ActorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, st)
}

// Cancel handles POST /assemblies/:id/registrations/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	aid, ok := assemblyID(c)
	if !ok {
		return
	}
	var req struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reg, err := h.svc.Cancel(c.Request.Context(), aid, req.ParticipantID, middleware.ActorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

// GetByID handles GET /registrations/:id (admin only).
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	reg, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

type reviewRequest struct {
	Notes string `json:"notes"`
}

// Approve handles POST /registrations/:id/approve (admin only).
func (h *Handler) Approve(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)
	reg, err := h.svc.Approve(c.Request.Context(), id, middleware.ActorID(c), req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

// Reject handles POST /registrations/:id/reject (admin only).
func (h *Handler) Reject(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)
	reg, err := h.svc.Reject(c.Request.Context(), id, middleware.ActorID(c), req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

type bulkRequest struct {
	IDs   []uuid.UUID `json:"ids" binding:"required,min=1"`
	Notes string      `json:"notes"`
}

// BulkApprove handles POST /bulk/registrations/approve (admin only). Missing
// or cancelled ids are skipped; the response lists the ids actually changed.
func (h *Handler) BulkApprove(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	done := h.svc.BulkApprove(c.Request.Context(), req.IDs, middleware.ActorID(c), req.Notes)
	response.OK(c, gin.H{"approved": done, "skipped": len(req.IDs) - len(done)})
}

// BulkReject handles POST /bulk/registrations/reject (admin only).
func (h *Handler) BulkReject(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	done := h.svc.BulkReject(c.Request.Context(), req.IDs, middleware.ActorID(c), req.Notes)
	response.OK(c, gin.H{"rejected": done, "skipped": len(req.IDs) - len(done)})
}

// BulkDelete handles POST /bulk/registrations/delete (admin only).
func (h *Handler) BulkDelete(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	done := h.svc.BulkDelete(c.Request.Context(), req.IDs, middleware.ActorID(c))
	response.OK(c, gin.H{"deleted": done, "skipped": len(req.IDs) - len(done)})
}

// UploadReceipt handles POST /registrations/:id/receipt (multipart). The
// file lands in the receipts bucket and the registration moves to
// pending_review.
func (h *Handler) UploadReceipt(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxReceiptFileSize {
		response.BadRequest(c, "file exceeds the 10MB limit")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateReceiptFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "only jpg, png, webp and pdf receipts are accepted")
		return
	}

	reg, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer f.Close()

	key := storage.ReceiptKey(reg.AssemblyID.String(), reg.ID.String(), fileHeader.Filename)
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fileHeader.Filename)
	}
	if err := h.s3.Upload(c.Request.Context(), h.s3.ReceiptsBucket(), key, contentType, f, fileHeader.Size); err != nil {
		h.logger.Error("receipt upload failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to store receipt")
		return
	}

	updated, err := h.svc.UpdatePaymentReceipt(c.Request.Context(), id, key, middleware.ActorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, updated)
}

// ReceiptURL handles GET /registrations/:id/receipt. Returns a short-lived
// presigned download link.
func (h *Handler) ReceiptURL(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	reg, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !reg.HasReceipt() {
		response.NotFound(c, "no receipt attached")
		return
	}
	url, err := h.s3.PresignDownloadURL(c.Request.Context(), h.s3.ReceiptsBucket(), reg.ReceiptKey, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign receipt failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to presign receipt")
		return
	}
	response.OK(c, gin.H{"url": url, "expires_in": int(h.s3.PresignExpire().Seconds())})
}

// UpdateExemption handles PATCH /registrations/:id/exemption.
func (h *Handler) UpdateExemption(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req struct {
		Exempt bool   `json:"exempt"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reg, err := h.svc.UpdatePaymentExemption(c.Request.Context(), id, req.Exempt, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

// ChangeModality handles PATCH /registrations/:id/modality.
func (h *Handler) ChangeModality(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req struct {
		ModalityID uuid.UUID `json:"modality_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reg, err := h.svc.ChangeModality(c.Request.Context(), id, req.ModalityID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

// Resubmit handles POST /registrations/:id/resubmit.
func (h *Handler) Resubmit(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req struct {
		Personal models.PersonalInfo `json:"personal" binding:"required"`
		Note     string              `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.svc.Resubmit(c.Request.Context(), id, req.Personal, req.Note)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

// MarkAttendance handles POST /registrations/:id/attendance (admin only).
// The body may carry a marked_at timestamp for late entry; it defaults to now.
func (h *Handler) MarkAttendance(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	var req struct {
		MarkedAt *time.Time `json:"marked_at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid attendance payload")
			return
		}
	}
	markedAt := time.Now()
	if req.MarkedAt != nil {
		markedAt = *req.MarkedAt
	}
	reg, err := h.svc.MarkAttendance(c.Request.Context(), id, middleware.ActorID(c), markedAt)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, reg)
}

// Delete handles DELETE /registrations/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, middleware.ActorID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}
