package registrations

import "time"

// deadlineUTCOffset is the fixed civil timezone the organization runs on
// (UTC-3). Deadlines are interpreted as whole calendar days there,
// regardless of where the evaluating process runs.
const deadlineUTCOffset = 3 * time.Hour

// DeadlinePassed reports whether now is past the end of the deadline's
// civil day in UTC-3. The deadline instant contributes only its UTC
// calendar date; registration stays open through 23:59:59.999 of that
// date in UTC-3.
func DeadlinePassed(deadline, now time.Time) bool {
	d := deadline.UTC()
	endOfDayUTC := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, time.UTC)
	return now.After(endOfDayUTC.Add(deadlineUTCOffset))
}
