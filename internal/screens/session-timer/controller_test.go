package sessiontimer

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/models"
	"parkvision-client/internal/reservation"
	"parkvision-client/internal/session"
	"parkvision-client/internal/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockParkingService struct {
	mock.Mock
}

func (m *MockParkingService) BookParking(ctx context.Context, spotID models.SpotID, userID models.UserID, hold models.HoldKind) error {
	args := m.Called(ctx, spotID, userID, hold)
	return args.Error(0)
}

func (m *MockParkingService) UnbookParking(ctx context.Context, spotID models.SpotID, userID models.UserID) error {
	args := m.Called(ctx, spotID, userID)
	return args.Error(0)
}

// ==========================
// Recording View
// ==========================

type recordingView struct {
	notices  []Notice
	routes   []Route
	displays []timer.Display
}

func (v *recordingView) Alert(n Notice)              { v.notices = append(v.notices, n) }
func (v *recordingView) Navigate(r Route)            { v.routes = append(v.routes, r) }
func (v *recordingView) ShowElapsed(d timer.Display) { v.displays = append(v.displays, d) }

func (v *recordingView) noticesOf(kind NoticeKind) []Notice {
	var out []Notice
	for _, n := range v.notices {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (v *recordingView) lastNotice(t *testing.T) Notice {
	t.Helper()
	require.NotEmpty(t, v.notices)
	return v.notices[len(v.notices)-1]
}

func (v *recordingView) lastDisplay(t *testing.T) timer.Display {
	t.Helper()
	require.NotEmpty(t, v.displays)
	return v.displays[len(v.displays)-1]
}

// ==========================
// Test Harness
// ==========================

const (
	testUserID = models.UserID(7)
	testSpot   = models.SpotID(12)
	otherSpot  = models.SpotID(13)
)

type harness struct {
	ctrl    *Controller
	session *session.Context
	service *MockParkingService
	view    *recordingView
	clock   *timer.ManualClock
	sched   *timer.ManualScheduler
	pending []func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewTestLogger(t)
	h := &harness{
		session: session.NewContext(log),
		service: &MockParkingService{},
		view:    &recordingView{},
		clock:   timer.NewManualClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		sched:   timer.NewManualScheduler(),
	}
	h.session.LogIn(models.User{ID: testUserID, FirstName: "Dana", Email: "dana@example.com"}, false)

	ctrl, err := NewController(DefaultConfig(), Dependencies{
		Session:   h.session,
		Service:   h.service,
		View:      h.view,
		Clock:     h.clock,
		Scheduler: h.sched,
		Logger:    log,
		Async:     func(fn func()) { h.pending = append(h.pending, fn) },
		Post:      func(fn func()) { fn() },
	})
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

// flush completes every queued remote call, including ones queued by completions.
func (h *harness) flush() {
	for len(h.pending) > 0 {
		next := h.pending[0]
		h.pending = h.pending[1:]
		next()
	}
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.sched.Tick()
}

func params(spot models.SpotID, hold models.HoldKind) *BookingParams {
	return &BookingParams{SpotID: spot, LotID: 3, HoldKind: hold}
}

// book drives the screen into Reserved for spot.
func (h *harness) book(t *testing.T, spot models.SpotID, hold models.HoldKind) {
	t.Helper()
	h.service.On("BookParking", mock.Anything, spot, testUserID, hold).Return(nil).Once()
	h.ctrl.OnEnter(params(spot, hold))
	h.flush()
	require.Equal(t, Reserved, h.ctrl.Snapshot().State)
}

func assertCode(t *testing.T, n Notice, code apperrors.ErrorCode) {
	t.Helper()
	require.NotNil(t, n.Err, "notice %q carries no error", n.Message)
	assert.Equal(t, code, n.Err.Code)
}

// ==========================
// Construction Tests
// ==========================

func TestController_NewController(t *testing.T) {
	log := logger.NewNoOpLogger()
	sess := session.NewContext(log)
	svc := &MockParkingService{}
	view := &recordingView{}
	sched := timer.NewManualScheduler()

	tests := []struct {
		name    string
		config  *Config
		deps    Dependencies
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid dependencies",
			config: DefaultConfig(),
			deps:   Dependencies{Session: sess, Service: svc, View: view, Scheduler: sched},
		},
		{
			name:   "nil config uses defaults",
			config: nil,
			deps:   Dependencies{Session: sess, Service: svc, View: view, Scheduler: sched},
		},
		{
			name:    "invalid tick interval",
			config:  &Config{TickInterval: 0, RequestTimeout: time.Second},
			deps:    Dependencies{Session: sess, Service: svc, View: view, Scheduler: sched},
			wantErr: true,
			errMsg:  "tick_interval must be positive",
		},
		{
			name:    "missing service",
			config:  DefaultConfig(),
			deps:    Dependencies{Session: sess, View: view, Scheduler: sched},
			wantErr: true,
			errMsg:  "session, service and view are required",
		},
		{
			name:    "missing scheduler",
			config:  DefaultConfig(),
			deps:    Dependencies{Session: sess, Service: svc, View: view},
			wantErr: true,
			errMsg:  "scheduler is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, err := NewController(tt.config, tt.deps)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, ctrl)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Idle, ctrl.Snapshot().State)
		})
	}
}

// ==========================
// Booking Tests
// ==========================

func TestController_HappyPath(t *testing.T) {
	h := newHarness(t)
	bookedAt := h.clock.Now()

	h.book(t, testSpot, models.HoldHalfHour)

	booked := h.view.noticesOf(NoticeBooked)
	require.Len(t, booked, 1)
	assert.Equal(t, "Booking Confirmation", booked[0].Title)
	assert.Contains(t, booked[0].Message, "Estimated arriving time: "+reservation.EstimatedArrival(models.HoldHalfHour, bookedAt))
	assert.Contains(t, booked[0].Message, "09:30")
	assert.True(t, h.session.IsParkedAt(testSpot))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, testSpot, snap.SpotID)
	assert.Equal(t, models.HoldHalfHour, snap.HoldKind)
	assert.True(t, snap.HasWindow)
	assert.Equal(t, bookedAt.Add(30*time.Minute), snap.Deadline)

	h.ctrl.Start()
	assert.Equal(t, Active, h.ctrl.Snapshot().State)
	assert.Equal(t, timer.ZeroDisplay, h.view.lastDisplay(t))

	for i := 0; i < 125; i++ {
		h.advance(time.Second)
	}
	assert.Equal(t, "00:02:05", h.view.lastDisplay(t).String())

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()
	h.ctrl.Stop()
	assert.Equal(t, opUnbook, h.ctrl.Snapshot().InFlight)
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
	ended := h.view.noticesOf(NoticeSessionEnded)
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Message, "00:02:05")
	assert.Equal(t, []Route{RouteParkingLots}, h.view.routes)
	assert.Equal(t, timer.ZeroDisplay, h.view.lastDisplay(t))
	assert.Zero(t, h.sched.Active())
	h.service.AssertExpectations(t)
}

func TestController_BookingFailure(t *testing.T) {
	h := newHarness(t)
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldOneHour).
		Return(apperrors.NewBookingFailedError("spot taken")).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldOneHour))
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, "Couldn't book parking", n.Message)
	assertCode(t, n, apperrors.ErrCodeBookingFailed)
	assert.Zero(t, h.sched.Active())
}

func TestController_BookingTransportFailureUsesFallbackMessage(t *testing.T) {
	h := newHarness(t)
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldImmediate).
		Return(context.DeadlineExceeded).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldImmediate))
	h.flush()

	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, "Couldn't book parking", n.Message)
	assertCode(t, n, apperrors.ErrCodeRemoteError)
}

func TestController_OnEnterValidation(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *harness)
		params *BookingParams
		code   apperrors.ErrorCode
	}{
		{
			name:   "not authenticated",
			setup:  func(h *harness) { h.session.LogOut() },
			params: params(testSpot, models.HoldHalfHour),
			code:   apperrors.ErrCodeNotAuthenticated,
		},
		{
			name:   "missing spot",
			params: params(0, models.HoldHalfHour),
			code:   apperrors.ErrCodeMissingBookingParams,
		},
		{
			name:   "unknown hold kind",
			params: params(testSpot, models.HoldKind("week")),
			code:   apperrors.ErrCodeInvalidHoldKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			h.ctrl.OnEnter(tt.params)

			assert.Empty(t, h.pending)
			n := h.view.lastNotice(t)
			assert.Equal(t, NoticeValidation, n.Kind)
			assertCode(t, n, tt.code)
			assert.Equal(t, Idle, h.ctrl.Snapshot().State)
			h.service.AssertNotCalled(t, "BookParking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestController_BlockedReentry(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()

	h.ctrl.OnEnter(params(otherSpot, models.HoldOneHour))

	assert.Empty(t, h.pending)
	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeValidation, n.Kind)
	assertCode(t, n, apperrors.ErrCodeSessionAlreadyActive)
	assert.Equal(t, Active, h.ctrl.Snapshot().State)
	assert.Equal(t, testSpot, h.ctrl.Snapshot().SpotID)
	assert.Empty(t, h.view.routes)
	h.service.AssertNumberOfCalls(t, "BookParking", 1)
}

func TestController_SameParamsResume(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()
	h.advance(time.Second)
	notices := len(h.view.notices)

	h.ctrl.OnEnter(params(testSpot, models.HoldHalfHour))

	assert.Empty(t, h.pending)
	assert.Len(t, h.view.notices, notices)
	assert.Equal(t, "00:00:01", h.view.lastDisplay(t).String())
	h.service.AssertNumberOfCalls(t, "BookParking", 1)
}

func TestController_BookingInFlight(t *testing.T) {
	h := newHarness(t)
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldHalfHour).Return(nil).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldHalfHour))
	require.Len(t, h.pending, 1)
	assert.Equal(t, opBook, h.ctrl.Snapshot().InFlight)

	h.ctrl.OnEnter(params(testSpot, models.HoldHalfHour))
	h.ctrl.Start()

	require.Len(t, h.view.notices, 2)
	for _, n := range h.view.notices {
		assertCode(t, n, apperrors.ErrCodeRequestInFlight)
	}
	assert.Len(t, h.pending, 1)

	// focus without params while the booking is pending does not redirect
	h.ctrl.OnEnter(nil)
	assert.Empty(t, h.view.routes)

	h.flush()
	assert.Equal(t, Reserved, h.ctrl.Snapshot().State)
	assert.Empty(t, h.ctrl.Snapshot().InFlight)
	h.service.AssertNumberOfCalls(t, "BookParking", 1)
}

// ==========================
// Stop Tests
// ==========================

func TestController_StopRequiresActiveSession(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Stop()
	assertCode(t, h.view.lastNotice(t), apperrors.ErrCodeNoActiveSession)

	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Stop()
	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeValidation, n.Kind)
	assertCode(t, n, apperrors.ErrCodeValidationFailed)
	assert.Empty(t, h.pending)
	assert.Equal(t, Reserved, h.ctrl.Snapshot().State)
}

func TestController_StartWhileIdle(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Start()

	assertCode(t, h.view.lastNotice(t), apperrors.ErrCodeNoActiveSession)
	assert.Zero(t, h.sched.Active())
}

func TestController_UnbookFailureKeepsSession(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldImmediate)
	h.ctrl.Start()
	h.advance(time.Second)

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).
		Return(apperrors.NewUnbookFailedError("server said no")).Once()
	h.ctrl.Stop()
	h.flush()

	snap := h.ctrl.Snapshot()
	assert.Equal(t, Active, snap.State)
	assert.Equal(t, testSpot, snap.SpotID)
	assert.True(t, h.session.IsParkedAt(testSpot))
	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, "Couldn't unbook parking", n.Message)
	assert.Empty(t, h.view.routes)

	// timer keeps running
	h.advance(time.Second)
	assert.Equal(t, "00:00:02", h.view.lastDisplay(t).String())

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()
	h.ctrl.Stop()
	h.flush()
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	h.service.AssertExpectations(t)
}

func TestController_StopInFlight(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldImmediate)
	h.ctrl.Start()
	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()

	h.ctrl.Stop()
	h.ctrl.Stop()

	assert.Len(t, h.pending, 1)
	assertCode(t, h.view.lastNotice(t), apperrors.ErrCodeRequestInFlight)
	h.flush()
	h.service.AssertNumberOfCalls(t, "UnbookParking", 1)
}

// ==========================
// Expiry Tests
// ==========================

func TestController_ExpiryWhileReserved(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()

	h.advance(29 * time.Minute)
	assert.Empty(t, h.view.noticesOf(NoticeExpired))
	assert.Empty(t, h.pending)

	h.advance(time.Minute)
	require.Len(t, h.view.noticesOf(NoticeExpired), 1)
	require.Len(t, h.pending, 1)

	// further ticks before the unbook completes do nothing
	h.advance(time.Second)
	assert.Len(t, h.view.noticesOf(NoticeExpired), 1)
	assert.Len(t, h.pending, 1)

	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
	assert.Len(t, h.view.noticesOf(NoticeExpired), 1)
	assert.Empty(t, h.view.noticesOf(NoticeSessionEnded))
	assert.Equal(t, []Route{RouteParkingLots}, h.view.routes)
	assert.Zero(t, h.sched.Active())
	h.service.AssertNumberOfCalls(t, "UnbookParking", 1)
}

func TestController_ExpiryWhileActiveFreezesDisplay(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.advance(10 * time.Minute)
	h.ctrl.Start()
	h.advance(19 * time.Minute)
	frozen := h.view.lastDisplay(t)
	assert.Equal(t, "00:19:00", frozen.String())

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).
		Return(apperrors.NewUnbookFailedError("offline")).Once()
	h.advance(time.Minute)

	require.Len(t, h.view.noticesOf(NoticeExpired), 1)
	assert.Equal(t, frozen, h.view.lastDisplay(t))
	h.flush()

	// failed release leaves the session in place with the display frozen
	assert.Equal(t, Active, h.ctrl.Snapshot().State)
	h.advance(time.Minute)
	assert.Equal(t, frozen, h.view.lastDisplay(t))
	assert.Len(t, h.view.noticesOf(NoticeExpired), 1)
	assert.Empty(t, h.pending)

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()
	h.ctrl.Stop()
	h.flush()
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
}

func TestController_ExpiredReservationRetry(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldOneHour)
	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).
		Return(apperrors.NewServiceUnavailableError("Parking service is unreachable", fmt.Errorf("dial tcp: connection refused"))).Once()

	h.advance(time.Hour)
	h.flush()

	assert.Equal(t, Reserved, h.ctrl.Snapshot().State)
	assert.True(t, h.session.IsParkedAt(testSpot))
	assert.Equal(t, NoticeError, h.view.lastNotice(t).Kind)

	h.ctrl.Start()
	assert.Equal(t, NoticeValidation, h.view.lastNotice(t).Kind)
	assert.Equal(t, Reserved, h.ctrl.Snapshot().State)

	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()
	h.ctrl.Stop()
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.Equal(t, []Route{RouteParkingLots}, h.view.routes)
	assert.Len(t, h.view.noticesOf(NoticeExpired), 1)
}

func TestController_ManualStopBeatsExpiry(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()
	h.advance(29*time.Minute + 59*time.Second)
	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()

	h.ctrl.Stop()
	h.advance(time.Second)

	// expiry notices but does not issue a second unbook
	assert.Len(t, h.view.noticesOf(NoticeExpired), 1)
	assert.Len(t, h.pending, 1)
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	h.service.AssertNumberOfCalls(t, "UnbookParking", 1)
}

func TestController_ImmediateHoldNeverExpires(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldImmediate)

	assert.False(t, h.ctrl.Snapshot().HasWindow)
	assert.Zero(t, h.sched.Active())

	h.ctrl.Start()
	h.advance(3 * time.Hour)

	assert.Empty(t, h.view.noticesOf(NoticeExpired))
	assert.Equal(t, Active, h.ctrl.Snapshot().State)
	assert.Equal(t, "03:00:00", h.view.lastDisplay(t).String())
}

func TestController_StartCancelsGuard(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	assert.Equal(t, 1, h.sched.Active())

	h.ctrl.Start()

	// guard replaced by the display timer
	assert.Equal(t, 1, h.sched.Active())
}

// ==========================
// Navigation Tests
// ==========================

func TestController_UnauthorizedNavigation(t *testing.T) {
	h := newHarness(t)

	h.ctrl.OnEnter(nil)

	n := h.view.lastNotice(t)
	assert.Equal(t, NoticeRedirect, n.Kind)
	assertCode(t, n, apperrors.ErrCodeUnauthorizedNavigation)
	assert.Equal(t, []Route{RouteParkingLots}, h.view.routes)
	assert.Empty(t, h.pending)
}

func TestController_ResumeWithoutParams(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()
	h.advance(5 * time.Second)
	notices := len(h.view.notices)

	h.ctrl.OnExit()
	h.ctrl.OnEnter(nil)

	assert.Len(t, h.view.notices, notices)
	assert.Empty(t, h.view.routes)
	assert.Equal(t, "00:00:05", h.view.lastDisplay(t).String())
	assert.Equal(t, Active, h.ctrl.Snapshot().State)
}

func TestController_OnExitResetsIdleScreen(t *testing.T) {
	h := newHarness(t)
	displays := len(h.view.displays)

	h.ctrl.OnExit()

	require.Len(t, h.view.displays, displays+1)
	assert.Equal(t, timer.ZeroDisplay, h.view.lastDisplay(t))
	assert.False(t, h.session.State().IsParked)
	assert.True(t, h.session.State().IsAuthenticated)
}

// ==========================
// Session Change Tests
// ==========================

func TestController_LogoutResetsLocalState(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()

	h.session.LogOut()

	snap := h.ctrl.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Zero(t, snap.SpotID)
	assert.Zero(t, h.sched.Active())
	assert.Empty(t, h.pending)
	h.service.AssertNotCalled(t, "UnbookParking", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_BookingCompletesAfterLogout(t *testing.T) {
	h := newHarness(t)
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldHalfHour).Return(nil).Once()
	h.service.On("UnbookParking", mock.Anything, testSpot, testUserID).Return(nil).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldHalfHour))
	h.session.LogOut()
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
	assertCode(t, h.view.lastNotice(t), apperrors.ErrCodeNotAuthenticated)
	h.service.AssertExpectations(t)
}

// ==========================
// Close Tests
// ==========================

func TestController_CloseDropsCompletions(t *testing.T) {
	h := newHarness(t)
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldHalfHour).Return(nil).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldHalfHour))
	h.ctrl.Close()
	h.flush()

	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.False(t, h.session.State().IsParked)
	assert.Empty(t, h.view.noticesOf(NoticeBooked))
	assert.Zero(t, h.sched.Active())
}

func TestController_CloseCancelsTicks(t *testing.T) {
	h := newHarness(t)
	h.book(t, testSpot, models.HoldHalfHour)
	h.ctrl.Start()
	displays := len(h.view.displays)

	h.ctrl.Close()
	h.ctrl.Close()
	h.advance(time.Hour)

	assert.Len(t, h.view.displays, displays)
	assert.Empty(t, h.view.noticesOf(NoticeExpired))
	assert.Zero(t, h.sched.Active())

	h.ctrl.Start()
	h.ctrl.Stop()
	h.ctrl.OnEnter(nil)
	assert.Empty(t, h.pending)
	assert.Empty(t, h.view.routes)
}

func TestController_RequestContextCancelledOnClose(t *testing.T) {
	h := newHarness(t)
	var errAtCall error
	called := false
	h.service.On("BookParking", mock.Anything, testSpot, testUserID, models.HoldImmediate).
		Run(func(args mock.Arguments) {
			called = true
			errAtCall = args.Get(0).(context.Context).Err()
		}).
		Return(nil).Once()

	h.ctrl.OnEnter(params(testSpot, models.HoldImmediate))
	h.ctrl.Close()
	h.flush()

	require.True(t, called)
	assert.ErrorIs(t, errAtCall, context.Canceled)
}
