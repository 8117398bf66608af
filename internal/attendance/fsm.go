package attendance

import "github.com/agora-assembly/backend/internal/core"

// Status is the attendance state of one member during a session.
type Status string

const (
	NotCounting Status = "not_counting"
	Present     Status = "present"
	Absent      Status = "absent"
	Excluded    Status = "excluded"
)

// cycle is the tap order used by the attendance board: each tap on a
// member advances their status one step, wrapping back to not_counting.
var cycle = map[Status]Status{
	NotCounting: Present,
	Present:     Absent,
	Absent:      Excluded,
	Excluded:    NotCounting,
}

// Valid reports whether s is a known attendance status.
func (s Status) Valid() bool {
	_, ok := cycle[s]
	return ok
}

// Next returns the status one tap forward in the cycle.
func (s Status) Next() (Status, error) {
	next, ok := cycle[s]
	if !ok {
		return "", core.Validationf("unknown attendance status %q", string(s))
	}
	return next, nil
}

// CountsTowardQuorum reports whether the status belongs to the quorum
// denominator. Excluded members leave both numerator and denominator;
// not_counting stays in the denominator as an implicit absence.
func (s Status) CountsTowardQuorum() bool {
	return s != Excluded
}
