package sessiontimer

import (
	"context"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/models"
	"parkvision-client/internal/session"
	"parkvision-client/internal/timer"
)

// State of the session screen.
type State int

const (
	Idle State = iota
	Reserved
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reserved:
		return "reserved"
	case Active:
		return "active"
	}
	return "unknown"
}

// BookingParams arrive from the booking-options screen.
type BookingParams struct {
	SpotID   models.SpotID   `json:"parkingId"`
	LotID    models.LotID    `json:"parkingLot,omitempty"`
	HoldKind models.HoldKind `json:"request_time"`
}

type NoticeKind string

const (
	NoticeBooked       NoticeKind = "booked"
	NoticeSessionEnded NoticeKind = "session_ended"
	NoticeExpired      NoticeKind = "reservation_expired"
	NoticeValidation   NoticeKind = "validation"
	NoticeError        NoticeKind = "error"
	NoticeRedirect     NoticeKind = "redirect"
)

// Notice is a user-visible message. Err is set for validation, error and
// redirect notices.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	Err     *apperrors.StandardError
}

// Route names a screen the host can navigate to.
type Route string

const (
	RouteParkingLots Route = "parking_lots"
)

// View is implemented by the host UI.
type View interface {
	Alert(Notice)
	Navigate(Route)
	ShowElapsed(timer.Display)
}

// ParkingService is the remote booking boundary.
type ParkingService interface {
	BookParking(ctx context.Context, spotID models.SpotID, userID models.UserID, hold models.HoldKind) error
	UnbookParking(ctx context.Context, spotID models.SpotID, userID models.UserID) error
}

type Dependencies struct {
	Session   *session.Context
	Service   ParkingService
	View      View
	Clock     timer.Clock
	Scheduler timer.Scheduler
	Logger    logger.Logger

	// Async runs a remote call off the event loop. Defaults to a new goroutine.
	Async func(func())
	// Post hands a completion back to the event loop. Required unless every
	// call already happens on one goroutine.
	Post func(func())
}

// Snapshot is a read-only view of the controller for status displays.
type Snapshot struct {
	State     State
	SpotID    models.SpotID
	HoldKind  models.HoldKind
	Deadline  time.Time
	HasWindow bool
	Elapsed   timer.Display
	InFlight  string
}
