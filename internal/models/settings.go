package models

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the singleton registration configuration, admin-written and
// read at the top of every registration attempt.
type Settings struct {
	ID                  uuid.UUID `json:"id"`
	RegistrationEnabled bool      `json:"registration_enabled"`
	AutoApproval        bool      `json:"auto_approval"`
	CodeOfConductKey    string    `json:"code_of_conduct_key,omitempty"`
	UpdatedBy           *uuid.UUID `json:"updated_by,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NotificationStatus for outbound delivery attempts.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification kinds enqueued by the registration engine.
const (
	NotificationRegistrationReceived = "registration_received"
	NotificationRegistrationApproved = "registration_approved"
	NotificationRegistrationRejected = "registration_rejected"
)

// NotificationLog records one outbound notification attempt. Delivery is a
// worker concern; the engine only enqueues.
type NotificationLog struct {
	ID             uuid.UUID  `json:"id"`
	AssemblyID     *uuid.UUID `json:"assembly_id,omitempty"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	Kind           string     `json:"kind"`
	Recipient      string     `json:"recipient"`
	Subject        string     `json:"subject,omitempty"`
	Body           string     `json:"body,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
