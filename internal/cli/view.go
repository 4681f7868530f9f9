package cli

import (
	"fmt"
	"io"
	"sync"

	sessiontimer "parkvision-client/internal/screens/session-timer"
	"parkvision-client/internal/timer"
)

const basePrompt = "> "

// Printer renders session screen output on the terminal. It implements
// sessiontimer.View and is called from the event loop.
type Printer struct {
	mu         sync.Mutex
	out        io.Writer
	setPrompt  func(string)
	onNavigate func(sessiontimer.Route)
	elapsed    timer.Display
}

// NewPrinter writes to out. setPrompt, when set, receives a prompt carrying
// the elapsed time so the clock stays visible while typing.
func NewPrinter(out io.Writer, setPrompt func(string)) *Printer {
	return &Printer{out: out, setPrompt: setPrompt, elapsed: timer.ZeroDisplay}
}

// OnNavigate registers the handler for screen navigation.
func (p *Printer) OnNavigate(fn func(sessiontimer.Route)) {
	p.mu.Lock()
	p.onNavigate = fn
	p.mu.Unlock()
}

func (p *Printer) Alert(n sessiontimer.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch n.Kind {
	case sessiontimer.NoticeError, sessiontimer.NoticeValidation, sessiontimer.NoticeRedirect:
		fmt.Fprintf(p.out, "! %s: %s\n", n.Title, n.Message)
	default:
		fmt.Fprintf(p.out, "* %s: %s\n", n.Title, n.Message)
	}
}

func (p *Printer) Navigate(route sessiontimer.Route) {
	p.mu.Lock()
	fmt.Fprintf(p.out, "-> %s\n", routeTitle(route))
	fn := p.onNavigate
	p.mu.Unlock()

	if fn != nil {
		fn(route)
	}
}

func (p *Printer) ShowElapsed(d timer.Display) {
	p.mu.Lock()
	p.elapsed = d
	setPrompt := p.setPrompt
	p.mu.Unlock()

	if setPrompt == nil {
		return
	}
	if d == timer.ZeroDisplay {
		setPrompt(basePrompt)
		return
	}
	setPrompt(fmt.Sprintf("[%s] %s", d, basePrompt))
}

// Elapsed is the last display shown.
func (p *Printer) Elapsed() timer.Display {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsed
}

func routeTitle(route sessiontimer.Route) string {
	switch route {
	case sessiontimer.RouteParkingLots:
		return "Parking lots (use 'lots' to browse)"
	}
	return string(route)
}
