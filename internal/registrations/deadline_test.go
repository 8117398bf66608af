package registrations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlinePassed(t *testing.T) {
	deadline := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 3, 16, 2, 59, 59, 999_000_000, time.UTC)

	cases := []struct {
		name   string
		now    time.Time
		passed bool
	}{
		{"morning of the deadline day", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), false},
		{"utc midnight after the deadline day", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), false},
		{"exactly at the cutoff", cutoff, false},
		{"one millisecond past the cutoff", cutoff.Add(time.Millisecond), true},
		{"next day", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.passed, DeadlinePassed(deadline, tc.now))
		})
	}
}

func TestDeadlinePassedUsesUTCDate(t *testing.T) {
	// A deadline given late in a western timezone still anchors on its UTC
	// calendar date.
	lima, err := time.LoadLocation("America/Lima")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 23:00 in Lima on Mar 14 is 04:00 UTC on Mar 15.
	deadline := time.Date(2024, 3, 14, 23, 0, 0, 0, lima)

	assert.False(t, DeadlinePassed(deadline, time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)))
	assert.True(t, DeadlinePassed(deadline, time.Date(2024, 3, 16, 4, 0, 0, 0, time.UTC)))
}

func TestDeadlinePassedTimeOfDayIgnored(t *testing.T) {
	morning := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 16, 3, 0, 0, 1, time.UTC)

	assert.Equal(t, DeadlinePassed(morning, now), DeadlinePassed(evening, now))
}
