package models

import (
	"time"

	"github.com/google/uuid"
)

// AssemblyKind distinguishes in-person general assemblies (AG) from online ones (AGE).
type AssemblyKind string

const (
	AssemblyInPerson AssemblyKind = "in_person"
	AssemblyOnline   AssemblyKind = "online"
)

// AssemblyStatus is the lifecycle status of an assembly.
type AssemblyStatus string

const (
	AssemblyActive   AssemblyStatus = "active"
	AssemblyArchived AssemblyStatus = "archived"
)

// Assembly represents a scheduled multi-day organizational meeting.
type Assembly struct {
	ID                   uuid.UUID      `json:"id"`
	Name                 string         `json:"name"`
	Kind                 AssemblyKind   `json:"kind"`
	Location             string         `json:"location"`
	StartsAt             time.Time      `json:"starts_at"`
	EndsAt               time.Time      `json:"ends_at"`
	Status               AssemblyStatus `json:"status"`
	RegistrationOpen     bool           `json:"registration_open"`
	RegistrationDeadline *time.Time     `json:"registration_deadline,omitempty"`
	MaxParticipants      *int           `json:"max_participants,omitempty"`
	CreatedBy            uuid.UUID      `json:"created_by"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// RegistrationModality is a registration plan/tier within an assembly.
// PriceCents is in minor currency units; 0 means free.
type RegistrationModality struct {
	ID              uuid.UUID `json:"id"`
	AssemblyID      uuid.UUID `json:"assembly_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"is_active"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	PriceCents      int       `json:"price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
