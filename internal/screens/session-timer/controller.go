// Package sessiontimer drives the parking session screen: booking a spot,
// starting and stopping the elapsed timer, releasing the spot when the
// reservation expires, and guarding the screen against direct navigation.
//
// A Controller is not safe for concurrent use. Every method, tick and remote
// completion must run on one event loop (see Loop). Remote calls run through
// Dependencies.Async and deliver their results through Dependencies.Post.
package sessiontimer

import (
	"context"
	"fmt"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/common/metrics"
	"parkvision-client/internal/models"
	"parkvision-client/internal/reservation"
	"parkvision-client/internal/session"
	"parkvision-client/internal/timer"
)

const (
	opBook   = "book"
	opUnbook = "unbook"
)

type unbookReason string

const (
	reasonManual     unbookReason = "manual"
	reasonExpiry     unbookReason = "expiry"
	reasonCompensate unbookReason = "compensate"
)

type Controller struct {
	config  *Config
	session *session.Context
	service ParkingService
	view    View
	clock   timer.Clock
	sched   timer.Scheduler
	logger  logger.Logger
	async   func(func())
	post    func(func())

	ctx    context.Context
	cancel context.CancelFunc

	state    State
	spot     models.SpotID
	window   *reservation.Window
	timer    *timer.Timer
	guard    timer.Handle
	inFlight string
	closed   bool
}

func NewController(config *Config, deps Dependencies) (*Controller, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session timer config: %w", err)
	}
	if deps.Session == nil || deps.Service == nil || deps.View == nil {
		return nil, fmt.Errorf("session, service and view are required")
	}
	if deps.Clock == nil {
		deps.Clock = timer.SystemClock{}
	}
	if deps.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Async == nil {
		deps.Async = func(fn func()) { go fn() }
	}
	if deps.Post == nil {
		deps.Post = func(fn func()) { fn() }
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		config:  config,
		session: deps.Session,
		service: deps.Service,
		view:    deps.View,
		clock:   deps.Clock,
		sched:   deps.Scheduler,
		logger:  deps.Logger.WithFields(map[string]interface{}{"component": "sessiontimer"}),
		async:   deps.Async,
		post:    deps.Post,
		ctx:     ctx,
		cancel:  cancel,
	}
	c.timer = timer.New(deps.Clock, deps.Scheduler,
		timer.WithPeriod(config.TickInterval),
		timer.WithBeforeTick(c.checkExpiry),
		timer.WithOnUpdate(c.view.ShowElapsed),
	)
	c.session.Subscribe(func(s models.SessionState) {
		c.post(func() { c.onSessionChanged(s) })
	})
	return c, nil
}

// ==========================
// Lifecycle signals
// ==========================

// OnEnter handles the screen gaining focus. params is nil when the screen
// was reached without coming from the booking flow.
func (c *Controller) OnEnter(params *BookingParams) {
	if c.closed {
		return
	}
	if params == nil {
		c.enterWithoutParams()
		return
	}

	if c.inFlight != "" {
		c.reject(apperrors.NewRequestInFlightError(c.inFlight))
		return
	}

	st := c.session.State()
	if c.state != Idle || st.IsParked {
		if c.state != Idle && params.SpotID == c.spot {
			// same booking delivered again, e.g. back navigation
			c.view.ShowElapsed(c.timer.Display())
			return
		}
		active := st.ActiveSpot()
		if active == 0 {
			active = c.spot
		}
		c.logger.Warn("booking refused: session already active", map[string]interface{}{
			"requestedSpot": params.SpotID,
			"activeSpot":    active,
			"state":         c.state.String(),
		})
		c.reject(apperrors.NewSessionAlreadyActiveError(int64(active)))
		return
	}

	if !st.IsAuthenticated {
		c.reject(apperrors.NewNotAuthenticatedError())
		return
	}
	if params.SpotID == 0 {
		c.reject(apperrors.NewMissingBookingParamsError("parkingId is missing"))
		return
	}
	if !params.HoldKind.Valid() {
		c.reject(apperrors.NewInvalidHoldKindError(string(params.HoldKind)))
		return
	}

	c.book(*params)
}

func (c *Controller) enterWithoutParams() {
	if c.state != Idle && c.session.IsParkedAt(c.spot) {
		c.view.ShowElapsed(c.timer.Display())
		return
	}
	if c.inFlight == opBook {
		return
	}

	c.logger.Info("redirecting: no active session or booking", map[string]interface{}{"state": c.state.String()})
	err := apperrors.NewUnauthorizedNavigationError()
	c.view.Alert(Notice{Kind: NoticeRedirect, Title: "No active parking", Message: err.Message, Err: err})
	c.view.Navigate(RouteParkingLots)
}

// OnExit handles the screen losing focus. Only an idle screen is reset.
func (c *Controller) OnExit() {
	if c.closed || c.state != Idle {
		return
	}
	c.timer.Reset()
	c.session.StopParking()
}

// Close tears the controller down. Pending ticks are cancelled and results
// of in-flight calls are discarded.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.cancelGuard()
	c.timer.Close()
}

// ==========================
// User actions
// ==========================

// Start begins the elapsed timer for a booked spot.
func (c *Controller) Start() {
	if c.closed {
		return
	}
	if c.inFlight != "" {
		c.reject(apperrors.NewRequestInFlightError(c.inFlight))
		return
	}

	switch c.state {
	case Idle:
		c.reject(apperrors.NewNoActiveSessionError())
	case Reserved:
		if c.window != nil && c.window.Expired() {
			c.reject(apperrors.NewValidationError(
				"Your reservation has expired. Press Stop to release the spot.",
				fmt.Sprintf("spot %d", c.spot)))
			return
		}
		c.cancelGuard()
		c.state = Active
		c.timer.Start()
		c.view.ShowElapsed(c.timer.Display())
		c.logger.Info("parking session started", map[string]interface{}{"spotId": c.spot})
	case Active:
	}
}

// Stop releases the spot. Local state is only cleared once the server confirms.
func (c *Controller) Stop() {
	if c.closed {
		return
	}
	if c.inFlight != "" {
		c.reject(apperrors.NewRequestInFlightError(c.inFlight))
		return
	}

	switch c.state {
	case Idle:
		c.reject(apperrors.NewNoActiveSessionError())
	case Reserved:
		if c.window != nil && c.window.Expired() {
			c.unbook(reasonExpiry)
			return
		}
		c.reject(apperrors.NewValidationError(
			"Start the parking session before stopping it.",
			fmt.Sprintf("spot %d is reserved", c.spot)))
	case Active:
		c.unbook(reasonManual)
	}
}

// ==========================
// Remote calls
// ==========================

func (c *Controller) book(params BookingParams) {
	userID := c.session.User().ID
	c.logger.Info("booking parking", map[string]interface{}{
		"spotId":   params.SpotID,
		"userId":   userID,
		"holdKind": params.HoldKind,
	})
	c.launch(opBook, func(ctx context.Context) error {
		return c.service.BookParking(ctx, params.SpotID, userID, params.HoldKind)
	}, func(err error) {
		c.onBooked(params, userID, err)
	})
}

func (c *Controller) onBooked(params BookingParams, userID models.UserID, err error) {
	metrics.ParkingBookings.WithLabelValues(string(params.HoldKind), metrics.Outcome(err)).Inc()
	if err != nil {
		c.fail(err, "Couldn't book parking")
		return
	}

	c.session.StartParking(params.SpotID)
	if !c.session.IsParkedAt(params.SpotID) {
		// logged out or another session appeared while the request was pending
		c.logger.Warn("booked spot could not be recorded locally, releasing it", map[string]interface{}{"spotId": params.SpotID})
		c.reject(apperrors.NewNotAuthenticatedError())
		c.release(params.SpotID, userID)
		return
	}

	now := c.clock.Now()
	c.spot = params.SpotID
	c.window = reservation.NewWindow(params.HoldKind, now)
	c.state = Reserved
	metrics.ParkingSessionsActive.Set(1)

	if _, bounded := c.window.Deadline(); bounded {
		c.guard = c.sched.Every(c.config.TickInterval, c.guardTick)
	}

	c.view.Alert(Notice{
		Kind:    NoticeBooked,
		Title:   "Booking Confirmation",
		Message: fmt.Sprintf("Parking %d is booked. Estimated arriving time: %s", params.SpotID, reservation.EstimatedArrival(params.HoldKind, now)),
	})
}

func (c *Controller) unbook(reason unbookReason) {
	spot := c.spot
	userID := c.session.User().ID
	c.logger.Info("releasing parking", map[string]interface{}{"spotId": spot, "reason": string(reason)})
	c.launch(opUnbook, func(ctx context.Context) error {
		return c.service.UnbookParking(ctx, spot, userID)
	}, func(err error) {
		c.onUnbooked(reason, err)
	})
}

func (c *Controller) onUnbooked(reason unbookReason, err error) {
	metrics.ParkingUnbooks.WithLabelValues(string(reason), metrics.Outcome(err)).Inc()
	if err != nil {
		c.fail(err, "Couldn't unbook parking")
		return
	}

	elapsed := c.timer.Elapsed()
	spot := c.spot
	c.teardown()
	if reason == reasonManual {
		metrics.ParkingSessionDuration.Observe(elapsed.Seconds())
		c.view.Alert(Notice{
			Kind:    NoticeSessionEnded,
			Title:   "Parking ended",
			Message: fmt.Sprintf("Your parking session at spot %d has ended after %s.", spot, timer.DisplayFor(elapsed)),
		})
	}
	c.view.Navigate(RouteParkingLots)
}

// release frees a spot the server booked but the session refused to record.
func (c *Controller) release(spot models.SpotID, userID models.UserID) {
	c.launch(opUnbook, func(ctx context.Context) error {
		return c.service.UnbookParking(ctx, spot, userID)
	}, func(err error) {
		metrics.ParkingUnbooks.WithLabelValues(string(reasonCompensate), metrics.Outcome(err)).Inc()
		if err != nil {
			c.logger.Error("failed to release orphaned booking", map[string]interface{}{"spotId": spot, "error": err.Error()})
		}
	})
}

// launch runs call off the loop and posts done back. Completions that arrive
// after Close are dropped.
func (c *Controller) launch(op string, call func(ctx context.Context) error, done func(error)) {
	c.inFlight = op
	parent := c.ctx
	timeout := c.config.RequestTimeout
	c.async(func() {
		ctx, cancel := context.WithTimeout(parent, timeout)
		err := call(ctx)
		cancel()
		c.post(func() {
			if c.closed {
				c.logger.Debug("discarding completion after close", map[string]interface{}{"operation": op})
				return
			}
			c.inFlight = ""
			done(err)
		})
	})
}

// ==========================
// Expiry
// ==========================

func (c *Controller) guardTick() {
	c.checkExpiry(c.clock.Now())
}

// checkExpiry runs before every display recompute. It returns true to skip
// the recompute once the reservation has expired.
func (c *Controller) checkExpiry(now time.Time) bool {
	if c.closed {
		return true
	}
	if c.window == nil {
		return false
	}
	if c.window.CheckExpiry(now) {
		c.onExpired()
		return true
	}
	return c.window.Expired()
}

func (c *Controller) onExpired() {
	metrics.ReservationExpiries.Inc()
	c.cancelGuard()
	c.logger.Info("reservation expired", map[string]interface{}{"spotId": c.spot, "state": c.state.String()})
	c.view.Alert(Notice{
		Kind:    NoticeExpired,
		Title:   "Reservation expired",
		Message: fmt.Sprintf("Your reservation for parking %d has expired. The spot is being released.", c.spot),
	})
	if c.inFlight == opUnbook {
		// a manual stop is already releasing the spot
		return
	}
	c.unbook(reasonExpiry)
}

// ==========================
// State helpers
// ==========================

// teardown clears local state after the server released the spot.
func (c *Controller) teardown() {
	if c.window != nil {
		c.window.MarkHandled()
	}
	c.resetLocal()
	c.session.StopParking()
}

func (c *Controller) resetLocal() {
	c.cancelGuard()
	c.timer.Stop()
	c.state = Idle
	c.spot = 0
	c.window = nil
	c.timer.Reset()
	metrics.ParkingSessionsActive.Set(0)
}

func (c *Controller) onSessionChanged(s models.SessionState) {
	if c.closed || c.state == Idle || s.IsParked {
		return
	}
	if c.inFlight == opUnbook {
		return
	}
	c.logger.Warn("session cleared outside the session screen, resetting", map[string]interface{}{
		"spotId":          c.spot,
		"isAuthenticated": s.IsAuthenticated,
	})
	c.resetLocal()
}

func (c *Controller) cancelGuard() {
	if c.guard != nil {
		c.guard.Cancel()
		c.guard = nil
	}
}

func (c *Controller) reject(err *apperrors.StandardError) {
	c.view.Alert(Notice{Kind: NoticeValidation, Title: "Can't do that right now", Message: err.Message, Err: err})
}

func (c *Controller) fail(err error, fallback string) {
	stdErr := apperrors.AsStandard(err, fallback)
	c.logger.Error("remote call failed", map[string]interface{}{
		"code":    stdErr.Code,
		"details": stdErr.Details,
		"state":   c.state.String(),
	})
	c.view.Alert(Notice{Kind: NoticeError, Title: "Something went wrong", Message: stdErr.Message, Err: stdErr})
}

// Snapshot reports the current state for status displays.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:    c.state,
		SpotID:   c.spot,
		Elapsed:  c.timer.Display(),
		InFlight: c.inFlight,
	}
	if c.window != nil {
		s.HoldKind = c.window.Kind()
		s.Deadline, s.HasWindow = c.window.Deadline()
	}
	return s
}
