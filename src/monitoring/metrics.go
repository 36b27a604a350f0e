package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings created in pending state",
		},
	)

	BookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Total booking attempts rejected for insufficient inventory",
		},
	)

	PaymentSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_sessions_total",
			Help: "Total payment session creations by outcome",
		},
		[]string{"provider", "status"},
	)

	PaymentsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Total payments moved to a terminal state",
		},
		[]string{"status", "source"},
	)

	SweepRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_sweep_runs_total",
			Help: "Total expiry sweep executions",
		},
	)

	SweepExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_sweep_expired_total",
			Help: "Total payments expired by the sweep",
		},
	)
)
