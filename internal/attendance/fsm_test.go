package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agora-assembly/backend/internal/core"
)

func TestStatusCycle(t *testing.T) {
	order := []Status{NotCounting, Present, Absent, Excluded}
	for i, from := range order {
		next, err := from.Next()
		require.NoError(t, err)
		assert.Equal(t, order[(i+1)%len(order)], next, "from %s", from)
	}
}

func TestStatusCycleWrapsAround(t *testing.T) {
	s := NotCounting
	for i := 0; i < 4; i++ {
		var err error
		s, err = s.Next()
		require.NoError(t, err)
	}
	assert.Equal(t, NotCounting, s)
}

func TestStatusNextUnknown(t *testing.T) {
	_, err := Status("tardy").Next()
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, Present.Valid())
	assert.True(t, NotCounting.Valid())
	assert.False(t, Status("tardy").Valid())
	assert.False(t, Status("").Valid())
}

func TestCountsTowardQuorum(t *testing.T) {
	assert.True(t, Present.CountsTowardQuorum())
	assert.True(t, Absent.CountsTowardQuorum())
	assert.True(t, NotCounting.CountsTowardQuorum())
	assert.False(t, Excluded.CountsTowardQuorum())
}
