package attendance

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agora-assembly/backend/internal/core"
	"github.com/agora-assembly/backend/internal/models"
)

type recordingBroadcaster struct {
	updates []any
}

func (b *recordingBroadcaster) BroadcastAttendance(_ uuid.UUID, update any) {
	b.updates = append(b.updates, update)
}

func newTestService() (*Service, *MemoryStore, *recordingBroadcaster) {
	store := NewMemoryStore()
	bc := &recordingBroadcaster{}
	return NewService(store, bc, nil, nil), store, bc
}

func TestUpdateTapAdvancesCycle(t *testing.T) {
	ctx := context.Background()
	svc, _, bc := newTestService()
	assemblyID := uuid.New()

	tap := func() *BoardUpdate {
		out, err := svc.Update(ctx, UpdateInput{
			AssemblyID: assemblyID,
			Category:   models.CategoryCR,
			MemberID:   "cr-1",
			Name:       "Ana",
			UpdatedBy:  uuid.New(),
		})
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, string(Present), tap().Record.Status)
	assert.Equal(t, string(Absent), tap().Record.Status)
	assert.Equal(t, string(Excluded), tap().Record.Status)
	assert.Equal(t, string(NotCounting), tap().Record.Status)
	assert.Len(t, bc.updates, 4)
}

func TestUpdateExplicitStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	assemblyID := uuid.New()

	out, err := svc.Update(ctx, UpdateInput{
		AssemblyID: assemblyID,
		Category:   models.CategoryEB,
		MemberID:   "eb-1",
		Status:     Excluded,
		UpdatedBy:  uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(Excluded), out.Record.Status)

	_, err = svc.Update(ctx, UpdateInput{
		AssemblyID: assemblyID,
		Category:   models.CategoryEB,
		MemberID:   "eb-1",
		Status:     Status("tardy"),
		UpdatedBy:  uuid.New(),
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestUpdateKeepsNameWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	assemblyID := uuid.New()

	_, err := svc.Update(ctx, UpdateInput{
		AssemblyID: assemblyID,
		Category:   models.CategoryCR,
		MemberID:   "cr-1",
		Name:       "Ana",
		Role:       "Coordinator North",
		UpdatedBy:  uuid.New(),
	})
	require.NoError(t, err)

	out, err := svc.Update(ctx, UpdateInput{
		AssemblyID: assemblyID,
		Category:   models.CategoryCR,
		MemberID:   "cr-1",
		UpdatedBy:  uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", out.Record.Name)
	assert.Equal(t, "Coordinator North", out.Record.Role)
}

func TestUpdateRequiresMemberID(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Update(context.Background(), UpdateInput{AssemblyID: uuid.New(), Category: models.CategoryCR})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestQuorumExcludedLeavesBothSides(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	assemblyID := uuid.New()

	// 10 members: 4 present, 2 excluded, 3 absent, 1 untouched record at
	// not_counting.
	set := func(i int, st Status) {
		_, err := svc.Update(ctx, UpdateInput{
			AssemblyID: assemblyID,
			Category:   models.CategoryComite,
			MemberID:   fmt.Sprintf("m-%d", i),
			Status:     st,
			UpdatedBy:  uuid.New(),
		})
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		set(i, Present)
	}
	for i := 4; i < 6; i++ {
		set(i, Excluded)
	}
	for i := 6; i < 9; i++ {
		set(i, Absent)
	}
	set(9, NotCounting)

	sum, err := svc.Quorum(ctx, assemblyID)
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Total)
	assert.Equal(t, 4, sum.Present)
	assert.Equal(t, 3, sum.Absent)
	assert.Equal(t, 2, sum.Excluded)
	assert.Equal(t, 1, sum.NotCounting)
	assert.Equal(t, 8, sum.Eligible)
	assert.InDelta(t, 50.0, sum.QuorumPct, 0.001)
}

func TestQuorumEmptyBoard(t *testing.T) {
	svc, _, _ := newTestService()
	sum, err := svc.Quorum(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.QuorumPct)
}

func TestQuorumAllExcluded(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	assemblyID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Update(ctx, UpdateInput{
			AssemblyID: assemblyID,
			Category:   models.CategoryCR,
			MemberID:   fmt.Sprintf("cr-%d", i),
			Status:     Excluded,
			UpdatedBy:  uuid.New(),
		})
		require.NoError(t, err)
	}

	sum, err := svc.Quorum(ctx, assemblyID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 0, sum.Eligible)
	assert.Zero(t, sum.QuorumPct)
}

func TestQuorumByCategory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	assemblyID := uuid.New()

	put := func(cat models.ParticipantCategory, member string, st Status) {
		_, err := svc.Update(ctx, UpdateInput{
			AssemblyID: assemblyID, Category: cat, MemberID: member, Status: st, UpdatedBy: uuid.New(),
		})
		require.NoError(t, err)
	}
	put(models.CategoryCR, "cr-1", Present)
	put(models.CategoryCR, "cr-2", Absent)
	put(models.CategoryEB, "eb-1", Present)

	report, err := svc.QuorumByCategory(ctx, assemblyID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Overall.Total)
	require.Len(t, report.Categories, 2)
	assert.Equal(t, models.CategoryCR, report.Categories[0].Category)
	assert.InDelta(t, 50.0, report.Categories[0].QuorumPct, 0.001)
	assert.Equal(t, models.CategoryEB, report.Categories[1].Category)
	assert.InDelta(t, 100.0, report.Categories[1].QuorumPct, 0.001)
}

func TestResetClearsSheet(t *testing.T) {
	ctx := context.Background()
	svc, _, bc := newTestService()
	assemblyID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Update(ctx, UpdateInput{
			AssemblyID: assemblyID,
			Category:   models.CategoryCR,
			MemberID:   fmt.Sprintf("cr-%d", i),
			UpdatedBy:  uuid.New(),
		})
		require.NoError(t, err)
	}

	n, err := svc.Reset(ctx, assemblyID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := svc.List(ctx, assemblyID)
	require.NoError(t, err)
	assert.Empty(t, records)

	last := bc.updates[len(bc.updates)-1].(*BoardUpdate)
	assert.True(t, last.Reset)
}
