package registrations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/metrics"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/internal/settings"
	"github.com/agora-assembly/backend/pkg/queue"
)

// Store is the registration persistence contract. Lookups return nil
// without error when no row matches.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	GetActiveByRegistrant(ctx context.Context, assemblyID, userID uuid.UUID) (*models.Registration, error)
	GetActiveByParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error)
	GetLatestByParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (*models.Registration, error)
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context, assemblyID uuid.UUID) (int, error)
	CountActiveByModality(ctx context.Context, modalityID, exclude uuid.UUID) (int, error)
	ListByAssembly(ctx context.Context, assemblyID uuid.UUID) ([]models.Registration, error)
}

// AssemblySource reads assemblies.
type AssemblySource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assembly, error)
}

// ModalitySource reads registration modalities.
type ModalitySource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationModality, error)
}

// SettingsSource loads the registration configuration snapshot.
type SettingsSource interface {
	Snapshot(ctx context.Context) (settings.Snapshot, error)
}

// ReceiptRemover deletes receipt objects. Failures are swallowed: the
// business record always wins over cleanup completeness.
type ReceiptRemover interface {
	DeleteReceipt(ctx context.Context, key string) error
}

// Notifier enqueues outbound notification jobs; delivery is the worker's
// problem.
type Notifier interface {
	EnqueueNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// Deps wires the service's collaborators. Receipts, Notifier and Metrics
// are optional.
type Deps struct {
	Store      Store
	Assemblies AssemblySource
	Modalities ModalitySource
	Roster     RosterLookup
	Settings   SettingsSource
	Receipts   ReceiptRemover
	Notifier   Notifier
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// Service owns the registration lifecycle: gates, eligibility, capacity
// and every legal status transition.
type Service struct {
	store      Store
	assemblies AssemblySource
	modalities ModalitySource
	validator  *EligibilityValidator
	settings   SettingsSource
	receipts   ReceiptRemover
	notifier   Notifier
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates the registration service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:      d.Store,
		assemblies: d.Assemblies,
		modalities: d.Modalities,
		validator:  NewEligibilityValidator(d.Roster),
		settings:   d.Settings,
		receipts:   d.Receipts,
		notifier:   d.Notifier,
		metrics:    d.Metrics,
		logger:     logger,
		now:        now,
	}
}

// gate runs the shared preconditions for admitting a new registration:
// global config, assembly status, registration window, deadline. Returns
// the assembly and the config snapshot taken at the top of the operation.
func (s *Service) gate(ctx context.Context, assemblyID uuid.UUID) (*models.Assembly, settings.Snapshot, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, snap, fmt.Errorf("load settings: %w", err)
	}
	if !snap.RegistrationEnabled {
		return nil, snap, core.ErrConfigDisabled
	}
	a, err := s.assemblies.GetByID(ctx, assemblyID)
	if err != nil {
		return nil, snap, err
	}
	if a.Status != models.AssemblyActive || !a.RegistrationOpen {
		return nil, snap, core.ErrAssemblyClosed
	}
	if a.RegistrationDeadline != nil && DeadlinePassed(*a.RegistrationDeadline, s.now()) {
		return nil, snap, fmt.Errorf("%w: deadline passed", core.ErrAssemblyClosed)
	}
	return a, snap, nil
}

// checkAssemblyCapacity counts active registrations against the assembly
// limit. Advisory read before the write; a bounded overbooking race is
// accepted (two concurrent registrants may both pass).
func (s *Service) checkAssemblyCapacity(ctx context.Context, a *models.Assembly) error {
	if a.MaxParticipants == nil {
		return nil
	}
	count, err := s.store.CountActive(ctx, a.ID)
	if err != nil {
		return err
	}
	if count >= *a.MaxParticipants {
		return core.Conflictf("assembly is at capacity")
	}
	return nil
}

// resolveModality validates that the modality exists, is active and
// belongs to the assembly, and that it has a free slot. exclude removes a
// registration's own row from the count when it changes plan.
func (s *Service) resolveModality(ctx context.Context, assemblyID, modalityID, exclude uuid.UUID) (*models.RegistrationModality, error) {
	m, err := s.modalities.GetByID(ctx, modalityID)
	if err != nil {
		return nil, err
	}
	if m.AssemblyID != assemblyID {
		return nil, core.Validationf("modality does not belong to this assembly")
	}
	if !m.IsActive {
		return nil, core.Conflictf("modality is not active")
	}
	if m.MaxParticipants != nil {
		count, err := s.store.CountActiveByModality(ctx, m.ID, exclude)
		if err != nil {
			return nil, err
		}
		if count >= *m.MaxParticipants {
			return nil, core.Conflictf("modality is at capacity")
		}
	}
	return m, nil
}

func (s *Service) initialStatus(snap settings.Snapshot, requested models.RegistrationStatus) models.RegistrationStatus {
	if snap.AutoApproval {
		return models.StatusApproved
	}
	if requested == models.StatusPendingReview {
		return models.StatusPendingReview
	}
	return models.StatusPending
}

// stampAutoApproval records the synthetic system review on auto-approved
// registrations. ReviewedBy stays empty: no human reviewed it.
func (s *Service) stampAutoApproval(reg *models.Registration) {
	t := s.now()
	reg.ReviewedAt = &t
	reg.ReviewNotes = "auto-approved"
}

// RegisterInput is the simple pre-form registration path.
type RegisterInput struct {
	AssemblyID   uuid.UUID
	RegisteredBy uuid.UUID
	Eligibility  EligibilityInput
	ModalityID   *uuid.UUID
	Personal     models.PersonalInfo
}

// Register admits a new registration after running every gate. The
// participant must not already hold a non-cancelled registration.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Registration, error) {
	a, snap, err := s.gate(ctx, in.AssemblyID)
	if err != nil {
		return nil, err
	}

	participantID, err := s.validator.Check(ctx, a.ID, in.Eligibility)
	if err != nil {
		return nil, err
	}
	if participantID == "" {
		return nil, core.Validationf("participant id required")
	}

	if existing, err := s.store.GetActiveByRegistrant(ctx, a.ID, in.RegisteredBy); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, core.Conflictf("you already hold a registration for this assembly")
	}
	if existing, err := s.store.GetActiveByParticipant(ctx, a.ID, participantID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, core.Conflictf("participant already registered for this assembly")
	}

	if err := s.checkAssemblyCapacity(ctx, a); err != nil {
		return nil, err
	}
	if in.ModalityID != nil {
		if _, err := s.resolveModality(ctx, a.ID, *in.ModalityID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	reg := &models.Registration{
		AssemblyID:    a.ID,
		ModalityID:    in.ModalityID,
		Category:      in.Eligibility.Category,
		ParticipantID: participantID,
		RegisteredBy:  in.RegisteredBy,
		Status:        s.initialStatus(snap, models.StatusPending),
		Personal:      in.Personal,
	}
	if reg.Status == models.StatusApproved {
		s.stampAutoApproval(reg)
	}
	if err := s.store.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.metrics.IncCreated()
	if reg.Status == models.StatusApproved {
		s.metrics.IncApproved()
	}
	s.notify(ctx, reg, models.NotificationRegistrationReceived)
	return reg, nil
}

// FormInput is the registration-form path. Unlike Register, an existing
// registration for the same (assembly, registrant) is upgraded in place.
type FormInput struct {
	AssemblyID    uuid.UUID
	UserID        uuid.UUID
	ModalityID    *uuid.UUID
	Eligibility   EligibilityInput
	Personal      models.PersonalInfo
	PaymentExempt bool
	ExemptReason  string
	// Status is the requested initial status; only pending and
	// pending_review are honored, and auto-approval overrides both.
	Status models.RegistrationStatus
}

// FormResult reports what CreateFromForm did.
type FormResult struct {
	Registration   *models.Registration `json:"registration"`
	IsUpdated      bool                 `json:"is_updated"`
	IsAutoApproved bool                 `json:"is_auto_approved"`
}

// CreateFromForm is an update-or-insert: a second submission by the same
// registrant updates their registration instead of failing as a duplicate.
func (s *Service) CreateFromForm(ctx context.Context, in FormInput) (*FormResult, error) {
	a, snap, err := s.gate(ctx, in.AssemblyID)
	if err != nil {
		return nil, err
	}

	participantID, err := s.validator.Check(ctx, a.ID, in.Eligibility)
	if err != nil {
		return nil, err
	}
	if participantID == "" {
		return nil, core.Validationf("participant id required")
	}

	existing, err := s.store.GetActiveByRegistrant(ctx, a.ID, in.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if other, err := s.store.GetActiveByParticipant(ctx, a.ID, participantID); err != nil {
			return nil, err
		} else if other != nil && other.ID != existing.ID {
			return nil, core.Conflictf("participant already registered for this assembly")
		}
		if in.ModalityID != nil {
			if _, err := s.resolveModality(ctx, a.ID, *in.ModalityID, existing.ID); err != nil {
				return nil, err
			}
		}
		existing.ModalityID = in.ModalityID
		existing.Category = in.Eligibility.Category
		existing.ParticipantID = participantID
		existing.Personal = in.Personal
		existing.PaymentExempt = in.PaymentExempt
		existing.ExemptReason = in.ExemptReason
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &FormResult{Registration: existing, IsUpdated: true}, nil
	}

	if other, err := s.store.GetActiveByParticipant(ctx, a.ID, participantID); err != nil {
		return nil, err
	} else if other != nil {
		return nil, core.Conflictf("participant already registered for this assembly")
	}

	if err := s.checkAssemblyCapacity(ctx, a); err != nil {
		return nil, err
	}
	if in.ModalityID != nil {
		if _, err := s.resolveModality(ctx, a.ID, *in.ModalityID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	reg := &models.Registration{
		AssemblyID:    a.ID,
		ModalityID:    in.ModalityID,
		Category:      in.Eligibility.Category,
		ParticipantID: participantID,
		RegisteredBy:  in.UserID,
		Status:        s.initialStatus(snap, in.Status),
		Personal:      in.Personal,
		PaymentExempt: in.PaymentExempt,
		ExemptReason:  in.ExemptReason,
	}
	auto := reg.Status == models.StatusApproved
	if auto {
		s.stampAutoApproval(reg)
	}
	if err := s.store.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.metrics.IncCreated()
	if auto {
		s.metrics.IncApproved()
	}
	s.notify(ctx, reg, models.NotificationRegistrationReceived)
	return &FormResult{Registration: reg, IsAutoApproved: auto}, nil
}

// Cancel moves the participant's registration to cancelled. Cancelling an
// already-cancelled registration is rejected, not a no-op.
func (s *Service) Cancel(ctx context.Context, assemblyID uuid.UUID, participantID string, cancelledBy uuid.UUID) (*models.Registration, error) {
	reg, err := s.store.GetLatestByParticipant(ctx, assemblyID, participantID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.NotFoundf("registration for participant %s", participantID)
	}
	if reg.Status == models.StatusCancelled {
		return nil, core.Conflictf("registration already cancelled")
	}
	reg.Status = models.StatusCancelled
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	s.metrics.IncCancelled()
	s.logger.Info("registration cancelled",
		zap.String("registration_id", reg.ID.String()),
		zap.String("cancelled_by", cancelledBy.String()))
	return reg, nil
}

// getReviewable loads a registration and rejects transitions out of
// cancelled, which is terminal for review actions.
func (s *Service) getReviewable(ctx context.Context, id uuid.UUID, action string) (*models.Registration, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.NotFoundf("registration %s", id)
	}
	if reg.Status == models.StatusCancelled {
		return nil, core.IllegalTransitionf("cannot %s a cancelled registration", action)
	}
	return reg, nil
}

// Approve moves a registration to approved, stamping the reviewer.
func (s *Service) Approve(ctx context.Context, id, actorID uuid.UUID, notes string) (*models.Registration, error) {
	reg, err := s.getReviewable(ctx, id, "approve")
	if err != nil {
		return nil, err
	}
	t := s.now()
	reg.Status = models.StatusApproved
	reg.ReviewedBy = &actorID
	reg.ReviewedAt = &t
	reg.ReviewNotes = notes
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	s.metrics.IncApproved()
	s.notify(ctx, reg, models.NotificationRegistrationApproved)
	return reg, nil
}

// Reject moves a registration to rejected, stamping reviewer and notes.
func (s *Service) Reject(ctx context.Context, id, actorID uuid.UUID, notes string) (*models.Registration, error) {
	reg, err := s.getReviewable(ctx, id, "reject")
	if err != nil {
		return nil, err
	}
	t := s.now()
	reg.Status = models.StatusRejected
	reg.ReviewedBy = &actorID
	reg.ReviewedAt = &t
	reg.ReviewNotes = notes
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	s.metrics.IncRejected()
	s.notify(ctx, reg, models.NotificationRegistrationRejected)
	return reg, nil
}

// BulkApprove applies Approve to each id. Ids that are missing or
// cancelled are silently skipped; only the ids actually approved are
// returned.
func (s *Service) BulkApprove(ctx context.Context, ids []uuid.UUID, actorID uuid.UUID, notes string) []uuid.UUID {
	done := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, actorID, notes); err != nil {
			s.logger.Debug("bulk approve skipped", zap.String("registration_id", id.String()), zap.Error(err))
			continue
		}
		done = append(done, id)
	}
	return done
}

// BulkReject applies Reject to each id with the same skip policy.
func (s *Service) BulkReject(ctx context.Context, ids []uuid.UUID, actorID uuid.UUID, notes string) []uuid.UUID {
	done := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, err := s.Reject(ctx, id, actorID, notes); err != nil {
			s.logger.Debug("bulk reject skipped", zap.String("registration_id", id.String()), zap.Error(err))
			continue
		}
		done = append(done, id)
	}
	return done
}

// UpdatePaymentReceipt attaches receipt metadata and moves the
// registration to pending_review.
func (s *Service) UpdatePaymentReceipt(ctx context.Context, id uuid.UUID, receiptKey string, uploadedBy uuid.UUID) (*models.Registration, error) {
	reg, err := s.getReviewable(ctx, id, "attach a receipt to")
	if err != nil {
		return nil, err
	}
	t := s.now()
	reg.ReceiptKey = receiptKey
	reg.ReceiptUpAt = &t
	reg.Status = models.StatusPendingReview
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	s.logger.Info("receipt attached",
		zap.String("registration_id", reg.ID.String()),
		zap.String("uploaded_by", uploadedBy.String()))
	return reg, nil
}

// UpdatePaymentExemption toggles the exemption flag. Turning it on moves
// to pending_review; turning it off falls back to pending only when no
// receipt is attached.
func (s *Service) UpdatePaymentExemption(ctx context.Context, id uuid.UUID, isExempt bool, reason string) (*models.Registration, error) {
	reg, err := s.getReviewable(ctx, id, "change exemption on")
	if err != nil {
		return nil, err
	}
	if isExempt {
		reg.PaymentExempt = true
		reg.ExemptReason = reason
		reg.Status = models.StatusPendingReview
	} else {
		reg.PaymentExempt = false
		reg.ExemptReason = ""
		if reg.Status == models.StatusPendingReview && !reg.HasReceipt() {
			reg.Status = models.StatusPending
		}
	}
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ChangeModality moves the registration to another plan, re-validating
// the target and excluding the registration's own slot from the count.
func (s *Service) ChangeModality(ctx context.Context, id, newModalityID uuid.UUID) (*models.Registration, error) {
	reg, err := s.getReviewable(ctx, id, "change the modality of")
	if err != nil {
		return nil, err
	}
	m, err := s.resolveModality(ctx, reg.AssemblyID, newModalityID, reg.ID)
	if err != nil {
		return nil, err
	}
	reg.ModalityID = &m.ID
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ResubmitResult reports the outcome of a resubmission.
type ResubmitResult struct {
	Registration   *models.Registration `json:"registration"`
	IsAutoApproved bool                 `json:"is_auto_approved"`
}

// Resubmit reopens a rejected registration. Only rejected registrations
// qualify, the assembly must still accept registrations, and capacity is
// deliberately not re-checked: the slot was already counted when the
// reviewers first saw it.
func (s *Service) Resubmit(ctx context.Context, id uuid.UUID, personal models.PersonalInfo, note string) (*ResubmitResult, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.NotFoundf("registration %s", id)
	}
	if reg.Status != models.StatusRejected {
		return nil, core.IllegalTransitionf("only rejected registrations can be resubmitted (current: %s)", reg.Status)
	}

	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	a, err := s.assemblies.GetByID(ctx, reg.AssemblyID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AssemblyActive || !a.RegistrationOpen {
		return nil, core.ErrAssemblyClosed
	}
	if a.RegistrationDeadline != nil && DeadlinePassed(*a.RegistrationDeadline, s.now()) {
		return nil, fmt.Errorf("%w: deadline passed", core.ErrAssemblyClosed)
	}

	t := s.now()
	reg.Personal = personal
	if note != "" {
		reg.Personal.Notes = note
	}
	reg.ResubmittedAt = &t
	reg.ReviewedBy = nil
	reg.ReviewedAt = nil
	reg.ReviewNotes = ""
	reg.Status = models.StatusPending
	auto := snap.AutoApproval
	if auto {
		reg.Status = models.StatusApproved
		s.stampAutoApproval(reg)
	}
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	if auto {
		s.metrics.IncApproved()
	}
	s.notify(ctx, reg, models.NotificationRegistrationReceived)
	return &ResubmitResult{Registration: reg, IsAutoApproved: auto}, nil
}

// Delete physically removes a registration. The attached receipt object
// is deleted best-effort: storage failures are logged and swallowed so
// the record deletion always wins.
func (s *Service) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		return core.NotFoundf("registration %s", id)
	}
	if reg.HasReceipt() && s.receipts != nil {
		if err := s.receipts.DeleteReceipt(ctx, reg.ReceiptKey); err != nil {
			s.logger.Warn("receipt cleanup failed",
				zap.String("registration_id", id.String()),
				zap.String("receipt_key", reg.ReceiptKey),
				zap.Error(err))
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("registration deleted",
		zap.String("registration_id", id.String()),
		zap.String("deleted_by", deletedBy.String()))
	return nil
}

// BulkDelete deletes each id with the same skip policy as bulk review.
func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID, deletedBy uuid.UUID) []uuid.UUID {
	done := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := s.Delete(ctx, id, deletedBy); err != nil {
			s.logger.Debug("bulk delete skipped", zap.String("registration_id", id.String()), zap.Error(err))
			continue
		}
		done = append(done, id)
	}
	return done
}

// MarkAttendance flags an approved registration as attended. The status
// field does not change.
func (s *Service) MarkAttendance(ctx context.Context, id, markedBy uuid.UUID, markedAt time.Time) (*models.Registration, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.NotFoundf("registration %s", id)
	}
	if reg.Status != models.StatusApproved {
		return nil, core.IllegalTransitionf("attendance requires an approved registration (current: %s)", reg.Status)
	}
	reg.AttendedAt = &markedAt
	reg.AttendedMarkBy = &markedBy
	if err := s.store.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// UserStatus is the participant-facing view of their registration.
type UserStatus struct {
	RegistrationID  uuid.UUID                 `json:"registration_id"`
	Status          models.RegistrationStatus `json:"status"`
	RegisteredAt    time.Time                 `json:"registered_at"`
	HasReceipt      bool                      `json:"has_receipt"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
}

// GetUserStatus returns the caller's registration state for an assembly,
// or nil when they hold none (cancelled ones do not count).
func (s *Service) GetUserStatus(ctx context.Context, assemblyID, userID uuid.UUID) (*UserStatus, error) {
	reg, err := s.store.GetActiveByRegistrant(ctx, assemblyID, userID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, nil
	}
	st := &UserStatus{
		RegistrationID: reg.ID,
		Status:         reg.Status,
		RegisteredAt:   reg.RegisteredAt,
		HasReceipt:     reg.HasReceipt(),
	}
	if reg.Status == models.StatusRejected {
		st.RejectionReason = reg.ReviewNotes
	}
	return st, nil
}

// ListByAssembly returns all registrations for an assembly (admin view).
func (s *Service) ListByAssembly(ctx context.Context, assemblyID uuid.UUID) ([]models.Registration, error) {
	return s.store.ListByAssembly(ctx, assemblyID)
}

// GetByID returns one registration.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, core.NotFoundf("registration %s", id)
	}
	return reg, nil
}

var notificationSubjects = map[string]string{
	models.NotificationRegistrationReceived: "Registration received",
	models.NotificationRegistrationApproved: "Registration approved",
	models.NotificationRegistrationRejected: "Registration rejected",
}

func (s *Service) notify(ctx context.Context, reg *models.Registration, kind string) {
	if s.notifier == nil || reg.Personal.Email == "" {
		return
	}
	payload := queue.NotificationPayload{
		Kind:           kind,
		AssemblyID:     reg.AssemblyID,
		RegistrationID: reg.ID,
		Recipient:      reg.Personal.Email,
		Subject:        notificationSubjects[kind],
		Body:           fmt.Sprintf("Hello %s, your registration status is now %s.", reg.Personal.FullName, reg.Status),
	}
	if err := s.notifier.EnqueueNotification(ctx, payload); err != nil {
		s.logger.Warn("enqueue notification failed",
			zap.String("registration_id", reg.ID.String()),
			zap.String("kind", kind),
			zap.Error(err))
	}
}
