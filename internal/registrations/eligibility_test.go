package registrations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
)

func TestEligibilityEB(t *testing.T) {
	ctx := context.Background()
	assemblyID := uuid.New()
	otherAssembly := uuid.New()

	roster := NewMemoryRoster()
	roster.Add(models.RosterEntry{AssemblyID: assemblyID, Category: models.CategoryEB, ParticipantID: "eb-president"})
	roster.Add(models.RosterEntry{AssemblyID: otherAssembly, Category: models.CategoryEB, ParticipantID: "eb-treasurer"})
	v := NewEligibilityValidator(roster)

	t.Run("position on this assembly's roster", func(t *testing.T) {
		pid, err := v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryEB, EBPositionID: "eb-president"})
		require.NoError(t, err)
		assert.Equal(t, "eb-president", pid)
	})

	t.Run("position only on another assembly's roster", func(t *testing.T) {
		_, err := v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryEB, EBPositionID: "eb-treasurer"})
		assert.ErrorIs(t, err, core.ErrIneligible)
	})

	t.Run("missing selector is a validation error, not ineligibility", func(t *testing.T) {
		_, err := v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryEB})
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.NotErrorIs(t, err, core.ErrIneligible)
	})
}

func TestEligibilityCRAndComiteAreGlobal(t *testing.T) {
	ctx := context.Background()
	assemblyID := uuid.New()
	otherAssembly := uuid.New()

	roster := NewMemoryRoster()
	roster.Add(models.RosterEntry{AssemblyID: otherAssembly, Category: models.CategoryCR, ParticipantID: "cr-42"})
	roster.Add(models.RosterEntry{AssemblyID: otherAssembly, Category: models.CategoryComite, ParticipantID: "comite-lima"})
	v := NewEligibilityValidator(roster)

	pid, err := v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryCR, CRPositionID: "cr-42"})
	require.NoError(t, err)
	assert.Equal(t, "cr-42", pid)

	pid, err = v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryComiteLocal, ComiteID: "comite-lima"})
	require.NoError(t, err)
	assert.Equal(t, "comite-lima", pid)

	_, err = v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryCR, CRPositionID: "cr-unknown"})
	assert.ErrorIs(t, err, core.ErrIneligible)
}

func TestEligibilityOpenCategories(t *testing.T) {
	ctx := context.Background()
	v := NewEligibilityValidator(NewMemoryRoster())

	for _, cat := range []models.ParticipantCategory{
		models.CategorySupCo,
		models.CategoryComiteAspirante,
		models.CategoryObservadorExterno,
		models.CategoryAlumni,
	} {
		pid, err := v.Check(ctx, uuid.New(), EligibilityInput{Category: cat, ParticipantID: "user-1"})
		require.NoError(t, err, "category %s", cat)
		assert.Equal(t, "user-1", pid)
	}
}

func TestEligibilityUnknownCategory(t *testing.T) {
	v := NewEligibilityValidator(NewMemoryRoster())
	_, err := v.Check(context.Background(), uuid.New(), EligibilityInput{Category: "board_of_directors", ParticipantID: "x"})
	assert.ErrorIs(t, err, core.ErrIneligible)
}

func TestEligibilityRosterFastPath(t *testing.T) {
	// A participant id already present on the assembly roster passes without
	// the category-specific selector.
	ctx := context.Background()
	assemblyID := uuid.New()
	roster := NewMemoryRoster()
	roster.Add(models.RosterEntry{AssemblyID: assemblyID, Category: models.CategoryEB, ParticipantID: "eb-president"})
	v := NewEligibilityValidator(roster)

	pid, err := v.Check(ctx, assemblyID, EligibilityInput{Category: models.CategoryEB, ParticipantID: "eb-president"})
	require.NoError(t, err)
	assert.Equal(t, "eb-president", pid)
}
