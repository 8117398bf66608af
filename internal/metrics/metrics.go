package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the registration engine and
// attendance tracker.
type Metrics struct {
	RegistrationsCreated   prometheus.Counter
	RegistrationsApproved  prometheus.Counter
	RegistrationsRejected  prometheus.Counter
	RegistrationsCancelled prometheus.Counter
	AttendanceUpdates      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assembly_registrations_created_total",
			Help: "Total registrations created (register and form paths).",
		}),
		RegistrationsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assembly_registrations_approved_total",
			Help: "Total registrations approved, including bulk and auto approval.",
		}),
		RegistrationsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assembly_registrations_rejected_total",
			Help: "Total registrations rejected, including bulk.",
		}),
		RegistrationsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assembly_registrations_cancelled_total",
			Help: "Total registrations cancelled.",
		}),
		AttendanceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assembly_attendance_updates_total",
			Help: "Total attendance status changes on the live board.",
		}),
	}
}

// IncCreated increments the created counter when non-nil.
func (m *Metrics) IncCreated() {
	if m != nil {
		m.RegistrationsCreated.Inc()
	}
}

// IncApproved increments the approved counter when non-nil.
func (m *Metrics) IncApproved() {
	if m != nil {
		m.RegistrationsApproved.Inc()
	}
}

// IncRejected increments the rejected counter when non-nil.
func (m *Metrics) IncRejected() {
	if m != nil {
		m.RegistrationsRejected.Inc()
	}
}

// IncCancelled increments the cancelled counter when non-nil.
func (m *Metrics) IncCancelled() {
	if m != nil {
		m.RegistrationsCancelled.Inc()
	}
}

// IncAttendance increments the attendance counter when non-nil.
func (m *Metrics) IncAttendance() {
	if m != nil {
		m.AttendanceUpdates.Inc()
	}
}
