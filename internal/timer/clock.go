package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Handle cancels a recurring task. Cancel is safe to call more than once.
type Handle interface {
	Cancel()
}

// Scheduler runs fn every period until the returned Handle is cancelled.
type Scheduler interface {
	Every(period time.Duration, fn func()) Handle
}

// TickerScheduler drives tasks from a time.Ticker. Each tick is handed to
// dispatch so it runs on the caller's event loop; a nil dispatch runs fn on
// the ticker goroutine.
type TickerScheduler struct {
	dispatch func(func())
}

func NewTickerScheduler(dispatch func(func())) *TickerScheduler {
	return &TickerScheduler{dispatch: dispatch}
}

type tickerHandle struct {
	done      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		close(h.done)
	})
}

func (s *TickerScheduler) Every(period time.Duration, fn func()) Handle {
	h := &tickerHandle{done: make(chan struct{})}
	ticker := time.NewTicker(period)

	run := func() {
		// a tick may already be queued on the loop when Cancel lands
		if !h.cancelled.Load() {
			fn()
		}
	}

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s.dispatch != nil {
					s.dispatch(run)
				} else {
					run()
				}
			case <-h.done:
				return
			}
		}
	}()
	return h
}

// ManualClock is a settable Clock for tests and replays.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// ManualScheduler fires tasks only when Tick is called.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	period    time.Duration
	fn        func()
	cancelled atomic.Bool
}

func (t *manualTask) Cancel() { t.cancelled.Store(true) }

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Every(period time.Duration, fn func()) Handle {
	t := &manualTask{period: period, fn: fn}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}

// Tick runs every live task once, in registration order. Tasks cancelled by
// an earlier task in the same tick do not run.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	snapshot := make([]*manualTask, 0, len(s.tasks))
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled.Load() {
			snapshot = append(snapshot, t)
			live = append(live, t)
		}
	}
	s.tasks = live
	s.mu.Unlock()

	for _, t := range snapshot {
		if !t.cancelled.Load() {
			t.fn()
		}
	}
}

// Active counts tasks that have not been cancelled.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled.Load() {
			n++
		}
	}
	return n
}
