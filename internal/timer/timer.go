// Package timer implements the elapsed-time stopwatch shown while a parking
// session is active.
//
// A Timer is not safe for concurrent use. It is driven from a single event
// loop: Start, Stop, Reset and every scheduled tick must run on the same
// goroutine.
package timer

import (
	"fmt"
	"time"
)

// DefaultPeriod is the tick interval of the session display.
const DefaultPeriod = time.Second

// Display is the rendered elapsed time, each part zero padded to two digits.
type Display struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// ZeroDisplay is shown before a session starts and after it ends.
var ZeroDisplay = Display{Hours: "00", Minutes: "00", Seconds: "00"}

func (d Display) String() string {
	return d.Hours + ":" + d.Minutes + ":" + d.Seconds
}

// DisplayFor renders elapsed as HH:MM:SS. Hours wrap at 24 and negative
// durations render as zero.
func DisplayFor(elapsed time.Duration) Display {
	total := int64(elapsed / time.Second)
	if total < 0 {
		total = 0
	}
	return Display{
		Hours:   fmt.Sprintf("%02d", (total/3600)%24),
		Minutes: fmt.Sprintf("%02d", (total/60)%60),
		Seconds: fmt.Sprintf("%02d", total%60),
	}
}

// BeforeTick runs at the start of every tick, before the display is
// recomputed. Returning true skips the recompute for that tick.
type BeforeTick func(now time.Time) (halt bool)

type Timer struct {
	clock  Clock
	sched  Scheduler
	period time.Duration

	running bool
	start   time.Time
	elapsed time.Duration
	display Display
	handle  Handle

	beforeTick BeforeTick
	onUpdate   func(Display)
}

type Option func(*Timer)

// WithPeriod overrides the tick interval.
func WithPeriod(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.period = d
		}
	}
}

// WithBeforeTick installs the per-tick hook.
func WithBeforeTick(fn BeforeTick) Option {
	return func(t *Timer) { t.beforeTick = fn }
}

// WithOnUpdate is called with every newly computed or reset display.
func WithOnUpdate(fn func(Display)) Option {
	return func(t *Timer) { t.onUpdate = fn }
}

func New(clock Clock, sched Scheduler, opts ...Option) *Timer {
	t := &Timer{
		clock:   clock,
		sched:   sched,
		period:  DefaultPeriod,
		display: ZeroDisplay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start records the start instant and schedules ticks. No-op while running.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
	t.start = t.clock.Now()
	t.elapsed = 0
	t.handle = t.sched.Every(t.period, t.tick)
}

// Stop cancels ticking and freezes the display. No-op while stopped.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed = t.clock.Now().Sub(t.start)
	t.running = false
	t.cancel()
}

// Reset puts the display back to 00:00:00 without touching the running state.
func (t *Timer) Reset() {
	t.display = ZeroDisplay
	if !t.running {
		t.elapsed = 0
	}
	t.notify()
}

// Close cancels any scheduled tick unconditionally.
func (t *Timer) Close() {
	t.running = false
	t.cancel()
}

func (t *Timer) Running() bool { return t.running }

func (t *Timer) Display() Display { return t.display }

// Elapsed is the live duration while running and the frozen one after Stop.
func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.clock.Now().Sub(t.start)
	}
	return t.elapsed
}

func (t *Timer) cancel() {
	if t.handle != nil {
		t.handle.Cancel()
		t.handle = nil
	}
}

func (t *Timer) tick() {
	now := t.clock.Now()
	if t.beforeTick != nil && t.beforeTick(now) {
		return
	}
	if !t.running {
		return
	}
	t.display = DisplayFor(now.Sub(t.start))
	t.notify()
}

func (t *Timer) notify() {
	if t.onUpdate != nil {
		t.onUpdate(t.display)
	}
}
