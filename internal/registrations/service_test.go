package registrations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
	"github.com/agora-assembly/backend/internal/settings"
	"github.com/agora-assembly/backend/pkg/queue"
)

type recordingNotifier struct {
	payloads []queue.NotificationPayload
}

func (n *recordingNotifier) EnqueueNotification(_ context.Context, p queue.NotificationPayload) error {
	n.payloads = append(n.payloads, p)
	return nil
}

type failingReceipts struct{ calls int }

func (f *failingReceipts) DeleteReceipt(context.Context, string) error {
	f.calls++
	return errors.New("s3 unavailable")
}

type ServiceSuite struct {
	suite.Suite

	ctx        context.Context
	store      *MemoryStore
	assemblies *MemoryAssemblies
	modalities *MemoryModalities
	roster     *MemoryRoster
	settings   *StaticSettings
	notifier   *recordingNotifier
	receipts   *failingReceipts
	svc        *Service

	now      time.Time
	assembly models.Assembly
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryStore()
	s.assemblies = NewMemoryAssemblies()
	s.modalities = NewMemoryModalities()
	s.roster = NewMemoryRoster()
	s.settings = &StaticSettings{Snap: settings.Snapshot{RegistrationEnabled: true}}
	s.notifier = &recordingNotifier{}
	s.receipts = &failingReceipts{}
	s.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	s.assembly = models.Assembly{
		ID:               uuid.New(),
		Name:             "National Assembly 2024",
		Kind:             models.AssemblyInPerson,
		Status:           models.AssemblyActive,
		RegistrationOpen: true,
	}
	s.assemblies.Put(s.assembly)

	s.svc = NewService(Deps{
		Store:      s.store,
		Assemblies: s.assemblies,
		Modalities: s.modalities,
		Roster:     s.roster,
		Settings:   s.settings,
		Receipts:   s.receipts,
		Notifier:   s.notifier,
		Now:        func() time.Time { return s.now },
	})
}

func (s *ServiceSuite) putAssembly(mutate func(*models.Assembly)) {
	a := s.assembly
	mutate(&a)
	s.assembly = a
	s.assemblies.Put(a)
}

func (s *ServiceSuite) register(participantID string) *models.Registration {
	reg, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: participantID},
		Personal:     models.PersonalInfo{FullName: "Test Person", Email: participantID + "@example.org"},
	})
	s.Require().NoError(err)
	return reg
}

func (s *ServiceSuite) TestRegisterHappyPath() {
	reg := s.register("supco-1")

	s.Equal(models.StatusPending, reg.Status)
	s.Equal("supco-1", reg.ParticipantID)
	s.NotEqual(uuid.Nil, reg.ID)
	s.Require().Len(s.notifier.payloads, 1)
	s.Equal(models.NotificationRegistrationReceived, s.notifier.payloads[0].Kind)
}

func (s *ServiceSuite) TestRegisterConfigDisabled() {
	s.settings.Snap.RegistrationEnabled = false
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.ErrorIs(err, core.ErrConfigDisabled)
}

func (s *ServiceSuite) TestRegisterClosedAssembly() {
	s.putAssembly(func(a *models.Assembly) { a.RegistrationOpen = false })
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.ErrorIs(err, core.ErrAssemblyClosed)
}

func (s *ServiceSuite) TestRegisterArchivedAssembly() {
	s.putAssembly(func(a *models.Assembly) { a.Status = models.AssemblyArchived })
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.ErrorIs(err, core.ErrAssemblyClosed)
}

func (s *ServiceSuite) TestRegisterDeadlinePassed() {
	deadline := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.putAssembly(func(a *models.Assembly) { a.RegistrationDeadline = &deadline })
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.ErrorIs(err, core.ErrAssemblyClosed)
}

func (s *ServiceSuite) TestRegisterDeadlineDayStillOpen() {
	deadline := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s.putAssembly(func(a *models.Assembly) { a.RegistrationDeadline = &deadline })
	s.register("supco-1")
}

func (s *ServiceSuite) TestRegisterDuplicateRegistrant() {
	userID := uuid.New()
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: userID,
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.Require().NoError(err)

	_, err = s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: userID,
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-2"},
	})
	s.ErrorIs(err, core.ErrConflict)
}

func (s *ServiceSuite) TestRegisterDuplicateParticipant() {
	s.register("supco-1")
	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.ErrorIs(err, core.ErrConflict)
}

func (s *ServiceSuite) TestRegisterCapacityFull() {
	one := 1
	s.putAssembly(func(a *models.Assembly) { a.MaxParticipants = &one })
	s.register("supco-1")

	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-2"},
	})
	s.ErrorIs(err, core.ErrConflict)
}

func (s *ServiceSuite) TestCancelledRegistrationFreesSlotAndIdentity() {
	one := 1
	s.putAssembly(func(a *models.Assembly) { a.MaxParticipants = &one })
	s.register("supco-1")

	_, err := s.svc.Cancel(s.ctx, s.assembly.ID, "supco-1", uuid.New())
	s.Require().NoError(err)

	// Both the capacity slot and the participant identity are free again.
	s.register("supco-1")
}

func (s *ServiceSuite) TestRegisterAutoApproval() {
	s.settings.Snap.AutoApproval = true
	reg := s.register("supco-1")

	s.Equal(models.StatusApproved, reg.Status)
	s.Nil(reg.ReviewedBy)
	s.Require().NotNil(reg.ReviewedAt)
	s.Equal(s.now, *reg.ReviewedAt)
	s.Equal("auto-approved", reg.ReviewNotes)
}

func (s *ServiceSuite) TestCancelTwice() {
	s.register("supco-1")
	_, err := s.svc.Cancel(s.ctx, s.assembly.ID, "supco-1", uuid.New())
	s.Require().NoError(err)

	_, err = s.svc.Cancel(s.ctx, s.assembly.ID, "supco-1", uuid.New())
	s.ErrorIs(err, core.ErrConflict)
}

func (s *ServiceSuite) TestCancelUnknownParticipant() {
	_, err := s.svc.Cancel(s.ctx, s.assembly.ID, "ghost", uuid.New())
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *ServiceSuite) TestApproveStampsReviewer() {
	reg := s.register("supco-1")
	actor := uuid.New()

	out, err := s.svc.Approve(s.ctx, reg.ID, actor, "docs verified")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, out.Status)
	s.Require().NotNil(out.ReviewedBy)
	s.Equal(actor, *out.ReviewedBy)
	s.Equal("docs verified", out.ReviewNotes)
	s.Equal(models.NotificationRegistrationApproved, s.notifier.payloads[len(s.notifier.payloads)-1].Kind)
}

func (s *ServiceSuite) TestApproveCancelled() {
	reg := s.register("supco-1")
	_, err := s.svc.Cancel(s.ctx, s.assembly.ID, "supco-1", uuid.New())
	s.Require().NoError(err)

	_, err = s.svc.Approve(s.ctx, reg.ID, uuid.New(), "")
	s.ErrorIs(err, core.ErrIllegalTransition)
}

func (s *ServiceSuite) TestBulkApproveSkipsCancelledAndMissing() {
	a := s.register("supco-a")
	b := s.register("supco-b")
	c := s.register("supco-c")
	_, err := s.svc.Cancel(s.ctx, s.assembly.ID, "supco-b", uuid.New())
	s.Require().NoError(err)

	done := s.svc.BulkApprove(s.ctx, []uuid.UUID{a.ID, b.ID, c.ID, uuid.New()}, uuid.New(), "")
	s.ElementsMatch([]uuid.UUID{a.ID, c.ID}, done)

	got, err := s.svc.GetByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusCancelled, got.Status)
}

func (s *ServiceSuite) TestResubmitOnlyFromRejected() {
	reg := s.register("supco-1")
	_, err := s.svc.Resubmit(s.ctx, reg.ID, reg.Personal, "")
	s.ErrorIs(err, core.ErrIllegalTransition)
}

func (s *ServiceSuite) TestResubmitClearsRejection() {
	reg := s.register("supco-1")
	_, err := s.svc.Reject(s.ctx, reg.ID, uuid.New(), "missing receipt")
	s.Require().NoError(err)

	res, err := s.svc.Resubmit(s.ctx, reg.ID, models.PersonalInfo{FullName: "Test Person", Email: "p@example.org"}, "receipt attached now")
	s.Require().NoError(err)
	out := res.Registration
	s.Equal(models.StatusPending, out.Status)
	s.Empty(out.ReviewNotes)
	s.Nil(out.ReviewedBy)
	s.Nil(out.ReviewedAt)
	s.Require().NotNil(out.ResubmittedAt)
	s.Equal(s.now, *out.ResubmittedAt)
}

func (s *ServiceSuite) TestResubmitSkipsCapacityCheck() {
	one := 1
	s.putAssembly(func(a *models.Assembly) { a.MaxParticipants = &one })

	// Reject the first registration; it stops counting and lets a second in.
	first := s.register("supco-1")
	_, err := s.svc.Reject(s.ctx, first.ID, uuid.New(), "incomplete")
	s.Require().NoError(err)
	s.register("supco-2")

	// The assembly is now full, but resubmission of the rejected slot holder
	// is still allowed.
	_, err = s.svc.Resubmit(s.ctx, first.ID, models.PersonalInfo{FullName: "Test Person"}, "")
	s.NoError(err)
}

func (s *ServiceSuite) TestReceiptMovesToPendingReview() {
	reg := s.register("supco-1")
	out, err := s.svc.UpdatePaymentReceipt(s.ctx, reg.ID, "receipts/a/b/receipt.pdf", uuid.New())
	s.Require().NoError(err)
	s.Equal(models.StatusPendingReview, out.Status)
	s.Equal("receipts/a/b/receipt.pdf", out.ReceiptKey)
	s.NotNil(out.ReceiptUpAt)
}

func (s *ServiceSuite) TestExemptionToggle() {
	reg := s.register("supco-1")

	out, err := s.svc.UpdatePaymentExemption(s.ctx, reg.ID, true, "scholarship")
	s.Require().NoError(err)
	s.True(out.PaymentExempt)
	s.Equal(models.StatusPendingReview, out.Status)

	// Revoking without a receipt falls back to pending.
	out, err = s.svc.UpdatePaymentExemption(s.ctx, reg.ID, false, "")
	s.Require().NoError(err)
	s.False(out.PaymentExempt)
	s.Empty(out.ExemptReason)
	s.Equal(models.StatusPending, out.Status)
}

func (s *ServiceSuite) TestExemptionRevokeKeepsReviewWithReceipt() {
	reg := s.register("supco-1")
	_, err := s.svc.UpdatePaymentReceipt(s.ctx, reg.ID, "receipts/a/b/receipt.pdf", uuid.New())
	s.Require().NoError(err)
	_, err = s.svc.UpdatePaymentExemption(s.ctx, reg.ID, true, "scholarship")
	s.Require().NoError(err)

	out, err := s.svc.UpdatePaymentExemption(s.ctx, reg.ID, false, "")
	s.Require().NoError(err)
	s.Equal(models.StatusPendingReview, out.Status)
}

func (s *ServiceSuite) TestChangeModalityExcludesOwnSlot() {
	one := 1
	mod := models.RegistrationModality{
		ID:              uuid.New(),
		AssemblyID:      s.assembly.ID,
		Name:            "Full board",
		IsActive:        true,
		MaxParticipants: &one,
	}
	s.modalities.Put(mod)

	reg, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
		ModalityID:   &mod.ID,
	})
	s.Require().NoError(err)

	// The registration's own slot does not block moving within a full
	// modality.
	out, err := s.svc.ChangeModality(s.ctx, reg.ID, mod.ID)
	s.Require().NoError(err)
	s.Equal(mod.ID, *out.ModalityID)
}

func (s *ServiceSuite) TestChangeModalityFullTarget() {
	one := 1
	full := models.RegistrationModality{
		ID: uuid.New(), AssemblyID: s.assembly.ID, Name: "Full board", IsActive: true, MaxParticipants: &one,
	}
	s.modalities.Put(full)

	_, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: uuid.New(),
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
		ModalityID:   &full.ID,
	})
	s.Require().NoError(err)

	other := s.register("supco-2")
	_, err = s.svc.ChangeModality(s.ctx, other.ID, full.ID)
	s.ErrorIs(err, core.ErrConflict)
}

func (s *ServiceSuite) TestChangeModalityWrongAssembly() {
	foreign := models.RegistrationModality{
		ID: uuid.New(), AssemblyID: uuid.New(), Name: "Elsewhere", IsActive: true,
	}
	s.modalities.Put(foreign)

	reg := s.register("supco-1")
	_, err := s.svc.ChangeModality(s.ctx, reg.ID, foreign.ID)
	s.ErrorIs(err, core.ErrValidation)
}

func (s *ServiceSuite) TestMarkAttendanceRequiresApproved() {
	reg := s.register("supco-1")
	_, err := s.svc.MarkAttendance(s.ctx, reg.ID, uuid.New(), s.now)
	s.ErrorIs(err, core.ErrIllegalTransition)

	_, err = s.svc.Approve(s.ctx, reg.ID, uuid.New(), "")
	s.Require().NoError(err)

	out, err := s.svc.MarkAttendance(s.ctx, reg.ID, uuid.New(), s.now)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, out.Status)
	s.Require().NotNil(out.AttendedAt)
	s.Equal(s.now, *out.AttendedAt)
}

func (s *ServiceSuite) TestDeleteSurvivesReceiptCleanupFailure() {
	reg := s.register("supco-1")
	_, err := s.svc.UpdatePaymentReceipt(s.ctx, reg.ID, "receipts/a/b/receipt.pdf", uuid.New())
	s.Require().NoError(err)

	err = s.svc.Delete(s.ctx, reg.ID, uuid.New())
	s.Require().NoError(err)
	s.Equal(1, s.receipts.calls)

	_, err = s.svc.GetByID(s.ctx, reg.ID)
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *ServiceSuite) TestUserStatus() {
	userID := uuid.New()
	st, err := s.svc.GetUserStatus(s.ctx, s.assembly.ID, userID)
	s.Require().NoError(err)
	s.Nil(st)

	reg, err := s.svc.Register(s.ctx, RegisterInput{
		AssemblyID:   s.assembly.ID,
		RegisteredBy: userID,
		Eligibility:  EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
	})
	s.Require().NoError(err)
	_, err = s.svc.Reject(s.ctx, reg.ID, uuid.New(), "wrong committee")
	s.Require().NoError(err)

	st, err = s.svc.GetUserStatus(s.ctx, s.assembly.ID, userID)
	s.Require().NoError(err)
	s.Require().NotNil(st)
	s.Equal(models.StatusRejected, st.Status)
	s.Equal("wrong committee", st.RejectionReason)
}

func (s *ServiceSuite) TestCreateFromFormUpserts() {
	userID := uuid.New()
	in := FormInput{
		AssemblyID:  s.assembly.ID,
		UserID:      userID,
		Eligibility: EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
		Personal:    models.PersonalInfo{FullName: "Test Person", Email: "p@example.org"},
	}
	first, err := s.svc.CreateFromForm(s.ctx, in)
	s.Require().NoError(err)
	s.False(first.IsUpdated)

	in.Personal.Phone = "+51 999 999 999"
	in.PaymentExempt = true
	in.ExemptReason = "scholarship"
	second, err := s.svc.CreateFromForm(s.ctx, in)
	s.Require().NoError(err)
	s.True(second.IsUpdated)
	s.Equal(first.Registration.ID, second.Registration.ID)
	s.Equal("+51 999 999 999", second.Registration.Personal.Phone)
	s.True(second.Registration.PaymentExempt)
}

func (s *ServiceSuite) TestCreateFromFormUpdateRejectsClaimedParticipant() {
	userA := uuid.New()
	userB := uuid.New()
	_, err := s.svc.CreateFromForm(s.ctx, FormInput{
		AssemblyID:  s.assembly.ID,
		UserID:      userA,
		Eligibility: EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-1"},
		Personal:    models.PersonalInfo{FullName: "User A", Email: "a@example.org"},
	})
	s.Require().NoError(err)

	in := FormInput{
		AssemblyID:  s.assembly.ID,
		UserID:      userB,
		Eligibility: EligibilityInput{Category: models.CategorySupCo, ParticipantID: "supco-2"},
		Personal:    models.PersonalInfo{FullName: "User B", Email: "b@example.org"},
	}
	_, err = s.svc.CreateFromForm(s.ctx, in)
	s.Require().NoError(err)

	// B edits their form onto the participant id A already holds.
	in.Eligibility.ParticipantID = "supco-1"
	_, err = s.svc.CreateFromForm(s.ctx, in)
	s.ErrorIs(err, core.ErrConflict)

	// Re-submitting their own participant id is still an update, not a conflict.
	in.Eligibility.ParticipantID = "supco-2"
	res, err := s.svc.CreateFromForm(s.ctx, in)
	s.Require().NoError(err)
	s.True(res.IsUpdated)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
