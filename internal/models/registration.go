package models

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantCategory identifies the role a participant registers under.
type ParticipantCategory string

const (
	CategoryEB                ParticipantCategory = "eb"
	CategoryCR                ParticipantCategory = "cr"
	CategoryComiteLocal       ParticipantCategory = "comite_local"
	CategorySupCo             ParticipantCategory = "supco"
	CategoryComiteAspirante   ParticipantCategory = "comite_aspirante"
	CategoryObservadorExterno ParticipantCategory = "observador_externo"
	CategoryAlumni            ParticipantCategory = "alumni"
	// CategoryComite tags roster entries for local committees; registrants
	// use CategoryComiteLocal and are matched against these entries.
	CategoryComite ParticipantCategory = "comite"
)

// RegistrationStatus is the review state of a registration.
type RegistrationStatus string

const (
	StatusPending       RegistrationStatus = "pending"
	StatusPendingReview RegistrationStatus = "pending_review"
	StatusApproved      RegistrationStatus = "approved"
	StatusRejected      RegistrationStatus = "rejected"
	StatusCancelled     RegistrationStatus = "cancelled"
)

// Active reports whether the status counts against capacity limits.
func (s RegistrationStatus) Active() bool {
	return s != StatusCancelled && s != StatusRejected
}

// PersonalInfo is the participant-provided profile attached to a registration.
type PersonalInfo struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Committee        string `json:"committee,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	DietaryNeeds     string `json:"dietary_needs,omitempty"`
	SpecialNeeds     string `json:"special_needs,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// Registration is an enrollment of a participant into an assembly.
// ParticipantID is the registrant's own id for generic categories and a
// roster-selected id for eb/cr/comite_local.
type Registration struct {
	ID             uuid.UUID           `json:"id"`
	AssemblyID     uuid.UUID           `json:"assembly_id"`
	ModalityID     *uuid.UUID          `json:"modality_id,omitempty"`
	Category       ParticipantCategory `json:"category"`
	ParticipantID  string              `json:"participant_id"`
	RegisteredBy   uuid.UUID           `json:"registered_by"`
	Status         RegistrationStatus  `json:"status"`
	Personal       PersonalInfo        `json:"personal"`
	PaymentExempt  bool                `json:"payment_exempt"`
	ExemptReason   string              `json:"exempt_reason,omitempty"`
	ReceiptKey     string              `json:"receipt_key,omitempty"`
	ReceiptUpAt    *time.Time          `json:"receipt_uploaded_at,omitempty"`
	ReviewedBy     *uuid.UUID          `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time          `json:"reviewed_at,omitempty"`
	ReviewNotes    string              `json:"review_notes,omitempty"`
	ResubmittedAt  *time.Time          `json:"resubmitted_at,omitempty"`
	AttendedAt     *time.Time          `json:"attended_at,omitempty"`
	AttendedMarkBy *uuid.UUID          `json:"attendance_marked_by,omitempty"`
	RegisteredAt   time.Time           `json:"registered_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// HasReceipt reports whether a payment receipt file is attached.
func (r *Registration) HasReceipt() bool { return r.ReceiptKey != "" }

// RosterEntry is one precomputed eligible identity for an assembly.
// Owned by the external import collaborator; read-only to the engine.
type RosterEntry struct {
	ID            uuid.UUID           `json:"id"`
	AssemblyID    uuid.UUID           `json:"assembly_id"`
	Category      ParticipantCategory `json:"category"`
	ParticipantID string              `json:"participant_id"`
	Name          string              `json:"name"`
	CreatedAt     time.Time           `json:"created_at"`
}
