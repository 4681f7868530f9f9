// Package reservation turns a requested hold kind into an arrival deadline and
// detects when that deadline passes.
package reservation

import (
	"strings"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

const (
	HalfHourHold = 30 * time.Minute
	OneHourHold  = 60 * time.Minute
)

// ComputeDeadline returns now plus the hold duration. Immediate holds and
// unknown kinds have no deadline.
func ComputeDeadline(kind models.HoldKind, now time.Time) (time.Time, bool) {
	switch kind {
	case models.HoldHalfHour:
		return now.Add(HalfHourHold), true
	case models.HoldOneHour:
		return now.Add(OneHourHold), true
	}
	return time.Time{}, false
}

// ParseHoldKind accepts the wire values and the labels shown on the booking screen.
func ParseHoldKind(s string) (models.HoldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return models.HoldImmediate, nil
	case "half", "1/2 hour", "half hour", "30":
		return models.HoldHalfHour, nil
	case "hour", "1 hour", "60":
		return models.HoldOneHour, nil
	}
	return "", apperrors.NewInvalidHoldKindError(s)
}

// EstimatedArrival is the latest arrival time shown on the booking screen, HH:MM.
func EstimatedArrival(kind models.HoldKind, now time.Time) string {
	at := now
	if deadline, ok := ComputeDeadline(kind, now); ok {
		at = deadline
	}
	return at.Format("15:04")
}

// State tracks whether the expiry of a window has been signalled and acted on.
type State int

const (
	Pending State = iota
	ExpiredUnhandled
	ExpiredHandled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case ExpiredUnhandled:
		return "expired-unhandled"
	case ExpiredHandled:
		return "expired-handled"
	}
	return "unknown"
}

// Window is the reservation created by a confirmed booking.
type Window struct {
	kind     models.HoldKind
	deadline time.Time
	bounded  bool
	state    State
}

func NewWindow(kind models.HoldKind, now time.Time) *Window {
	deadline, ok := ComputeDeadline(kind, now)
	return &Window{kind: kind, deadline: deadline, bounded: ok}
}

func (w *Window) Kind() models.HoldKind { return w.kind }

// Deadline returns the absolute deadline; false for immediate holds.
func (w *Window) Deadline() (time.Time, bool) { return w.deadline, w.bounded }

func (w *Window) State() State { return w.state }

// CheckExpiry reports true exactly once: on the first call at or after the
// deadline. Later calls return false until the window is replaced.
func (w *Window) CheckExpiry(now time.Time) bool {
	if !w.bounded || w.state != Pending {
		return false
	}
	if now.Before(w.deadline) {
		return false
	}
	w.state = ExpiredUnhandled
	return true
}

// Expired reports whether the deadline has been signalled.
func (w *Window) Expired() bool {
	return w.state != Pending
}

// MarkHandled records that teardown completed.
func (w *Window) MarkHandled() {
	if w.state == ExpiredUnhandled {
		w.state = ExpiredHandled
	}
}

// Remaining is the time left before the deadline, zero once passed or for immediate holds.
func (w *Window) Remaining(now time.Time) time.Duration {
	if !w.bounded || !now.Before(w.deadline) {
		return 0
	}
	return w.deadline.Sub(now)
}
