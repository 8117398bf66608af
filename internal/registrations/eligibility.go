package registrations

import (
	"context"

	"github.com/google/uuid"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
)

// EligibilityInput carries the declared category and its selector,
// resolved once at the API boundary. Exactly one selector field is
// meaningful per category; ParticipantID is the registrant's own
// identifier and doubles as the legacy direct-registration key.
type EligibilityInput struct {
	Category      models.ParticipantCategory
	ParticipantID string
	// EBPositionID selects an Executive Board position (category eb).
	EBPositionID string
	// CRPositionID selects a Regional Coordinator position (category cr).
	CRPositionID string
	// ComiteID selects a local committee (category comite_local).
	ComiteID string
}

// RosterLookup is the read-only roster contract consumed by the validator.
type RosterLookup interface {
	ExistsForAssembly(ctx context.Context, assemblyID uuid.UUID, category models.ParticipantCategory, participantID string) (bool, error)
	ExistsAnywhere(ctx context.Context, category models.ParticipantCategory, participantID string) (bool, error)
	ExistsParticipant(ctx context.Context, assemblyID uuid.UUID, participantID string) (bool, error)
}

// EligibilityValidator decides whether an applicant may register, per
// category. It is a decision table, not a boolean short-circuit: every
// branch carries its own user-facing reason.
type EligibilityValidator struct {
	roster RosterLookup
}

// NewEligibilityValidator creates a validator over the given roster.
func NewEligibilityValidator(roster RosterLookup) *EligibilityValidator {
	return &EligibilityValidator{roster: roster}
}

// Check returns the participant identifier the registration should carry,
// or an error naming the failed rule. Selector-backed categories resolve
// to the selected roster id; open categories keep the registrant's own id.
func (v *EligibilityValidator) Check(ctx context.Context, assemblyID uuid.UUID, in EligibilityInput) (string, error) {
	// Legacy direct-registration fast path: an exact roster entry for
	// (assembly, participant) satisfies eligibility without role rules.
	if in.ParticipantID != "" {
		ok, err := v.roster.ExistsParticipant(ctx, assemblyID, in.ParticipantID)
		if err != nil {
			return "", err
		}
		if ok {
			return in.ParticipantID, nil
		}
	}

	switch in.Category {
	case models.CategoryEB:
		if in.EBPositionID == "" {
			return "", core.Validationf("select a position to register as executive board")
		}
		ok, err := v.roster.ExistsForAssembly(ctx, assemblyID, models.CategoryEB, in.EBPositionID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", core.Ineligible("selected position is not eligible for this assembly")
		}
		return in.EBPositionID, nil

	case models.CategoryCR:
		if in.CRPositionID == "" {
			return "", core.Validationf("select a position to register as regional coordinator")
		}
		// CRs serve across assemblies; the lookup is global on purpose.
		ok, err := v.roster.ExistsAnywhere(ctx, models.CategoryCR, in.CRPositionID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", core.Ineligible("selected coordinator position was not found")
		}
		return in.CRPositionID, nil

	case models.CategoryComiteLocal:
		if in.ComiteID == "" {
			return "", core.Validationf("select a committee to register as local committee")
		}
		ok, err := v.roster.ExistsAnywhere(ctx, models.CategoryComite, in.ComiteID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", core.Ineligible("selected committee was not found")
		}
		return in.ComiteID, nil

	case models.CategorySupCo, models.CategoryComiteAspirante, models.CategoryObservadorExterno, models.CategoryAlumni:
		// Open categories need no roster membership.
		return in.ParticipantID, nil

	default:
		return "", core.Ineligible("unsupported participant category")
	}
}
