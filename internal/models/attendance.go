package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord tracks the live attendance status of one member during
// an assembly session, keyed by (assembly, category, member).
// Members with no record are implicitly "not_counting".
type AttendanceRecord struct {
	ID         uuid.UUID           `json:"id"`
	AssemblyID uuid.UUID           `json:"assembly_id"`
	Category   ParticipantCategory `json:"category"`
	MemberID   string              `json:"member_id"`
	Name       string              `json:"name"`
	Role       string              `json:"role,omitempty"`
	Status     string              `json:"status"`
	UpdatedBy  uuid.UUID           `json:"updated_by"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// QuorumSummary is the per-category quorum arithmetic for the live board.
// Excluded members leave both numerator and denominator.
type QuorumSummary struct {
	Category    ParticipantCategory `json:"category"`
	Total       int                 `json:"total"`
	Present     int                 `json:"present"`
	Absent      int                 `json:"absent"`
	Excluded    int                 `json:"excluded"`
	NotCounting int                 `json:"not_counting"`
	Eligible    int                 `json:"eligible"`
	QuorumPct   float64             `json:"quorum_pct"`
}
