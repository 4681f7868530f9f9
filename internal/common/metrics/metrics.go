// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParkingBookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkvision_bookings_total",
			Help: "Booking attempts by hold kind and result",
		},
		[]string{"hold_kind", "result"},
	)

	ParkingUnbooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkvision_unbooks_total",
			Help: "Unbook attempts by trigger and result",
		},
		[]string{"reason", "result"},
	)

	ReservationExpiries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkvision_reservation_expiries_total",
			Help: "Reservations that passed their deadline before the user stopped them",
		},
	)

	ParkingSessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parkvision_session_duration_seconds",
			Help:    "Elapsed timer value when a session ends",
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		},
	)

	ParkingSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parkvision_sessions_active",
			Help: "1 while this client holds a booked spot",
		},
	)
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Outcome maps an error to a result label.
func Outcome(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
