package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
	bookspot "parkvision-client/internal/screens/book-spot"
	lotdetail "parkvision-client/internal/screens/lot-detail"
	sessiontimer "parkvision-client/internal/screens/session-timer"
)

func (c *CLI) handleLots(args []string) error {
	if _, err := c.requireUser(); err != nil {
		return err
	}
	c.leaveScreen()

	ctx, cancel := c.context()
	defer cancel()
	lots, err := c.api.FetchAllParkingLots(ctx)
	if err != nil {
		return err
	}
	if len(lots) == 0 {
		c.printf("No parking lots available.\n")
		return nil
	}
	c.printLots(lots)
	return nil
}

func (c *CLI) handleSpots(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: spots <lot id>")
	}
	if _, err := c.requireUser(); err != nil {
		return err
	}
	lotID, err := parseID(args[0], "lot id")
	if err != nil {
		return err
	}
	c.leaveScreen()

	ctx, cancel := c.context()
	defer cancel()
	list, err := c.api.FetchParking(ctx, models.LotID(lotID))
	if err != nil {
		return err
	}
	c.printSpots(list)
	return nil
}

// handleSelect is the lot screen's spot tap followed by its confirm dialog.
func (c *CLI) handleSelect(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: select <lot id> <spot id>")
	}
	if _, err := c.requireUser(); err != nil {
		return err
	}
	lotID, err := parseID(args[0], "lot id")
	if err != nil {
		return err
	}
	spotID, err := parseID(args[1], "spot id")
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	list, err := c.api.RefreshParking(ctx, models.LotID(lotID))
	if err != nil {
		return err
	}
	spot, ok := lotdetail.FindSpot(list, models.SpotID(spotID))
	if !ok {
		return apperrors.NewValidationError(fmt.Sprintf("Parking %d is not in lot %d.", spotID, lotID), "")
	}

	decision := lotdetail.SelectSpot(models.LotID(lotID), spot)
	if !decision.Confirm {
		c.printf("%s: %s\n", decision.Title, decision.Prompt)
		return nil
	}
	ok, err = c.confirm(fmt.Sprintf("%s: %s", decision.Title, decision.Prompt))
	if err != nil {
		return err
	}
	if !ok {
		c.printf("Cancelled.\n")
		return nil
	}

	c.selection = &selection{lot: decision.Lot, spot: decision.Spot}
	c.printf("Choose when you will arrive:\n")
	for _, option := range bookspot.Describe() {
		c.printf("  book %s\n", option)
	}
	c.printf("The payment starts as soon as you book the parking spot.\n")
	return nil
}

// handleBook is the booking-options screen. Confirming hands the parameters
// to the session screen, which performs the booking.
func (c *CLI) handleBook(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: book <immediate|half|hour>")
	}
	if c.selection == nil {
		return apperrors.NewMissingBookingParamsError("select a spot first: select <lot id> <spot id>")
	}

	confirmation, err := bookspot.Confirm(c.selection.spot, c.selection.lot, args[0], c.clock.Now())
	if err != nil {
		return err
	}
	ok, err := c.confirm(fmt.Sprintf("%s: %s", confirmation.Title, confirmation.Message))
	if err != nil {
		return err
	}
	if !ok {
		c.printf("Cancelled.\n")
		return nil
	}

	c.selection = nil
	params := confirmation.Params
	c.onScreen.Store(true)
	return c.onLoop(func() { c.screen.OnEnter(&params) })
}

func (c *CLI) handleEnter(args []string) error {
	c.onScreen.Store(true)
	return c.onLoop(func() { c.screen.OnEnter(nil) })
}

func (c *CLI) handleLeave(args []string) error {
	if !c.onScreen.Load() {
		c.printf("The session screen is not open.\n")
		return nil
	}
	c.leaveScreen()
	return nil
}

func (c *CLI) handleStart(args []string) error {
	return c.onLoop(c.screen.Start)
}

func (c *CLI) handleStop(args []string) error {
	return c.onLoop(c.screen.Stop)
}

func (c *CLI) handleStatus(args []string) error {
	var snap sessiontimer.Snapshot
	if err := c.onLoop(func() { snap = c.screen.Snapshot() }); err != nil {
		return err
	}

	c.printf("Session: %s\n", snap.State)
	if snap.State == sessiontimer.Idle {
		if snap.InFlight != "" {
			c.printf("Waiting for the %s request to finish.\n", snap.InFlight)
		}
		return nil
	}
	c.printf("Parking: %d (%s)\n", snap.SpotID, snap.HoldKind.Label())
	c.printf("Elapsed: %s\n", snap.Elapsed)
	if snap.HasWindow {
		remaining := snap.Deadline.Sub(c.clock.Now())
		if remaining > 0 {
			c.printf("Arrive by %s (%s left)\n", snap.Deadline.Format("15:04"), remaining.Truncate(time.Second))
		} else {
			c.printf("Reservation expired at %s\n", snap.Deadline.Format("15:04"))
		}
	}
	if snap.InFlight != "" {
		c.printf("Waiting for the %s request to finish.\n", snap.InFlight)
	}
	return nil
}

func (c *CLI) handleOccupied(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: occupied <spot id>")
	}
	spotID, err := parseID(args[0], "spot id")
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	occupied, err := c.api.IsOccupied(ctx, models.SpotID(spotID))
	if err != nil {
		return err
	}
	if occupied {
		c.printf("Parking %d is occupied.\n", spotID)
	} else {
		c.printf("Parking %d is free.\n", spotID)
	}
	return nil
}

func (c *CLI) handleHistory(args []string) error {
	user, err := c.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	entries, err := c.api.GetUserHistory(ctx, user.ID)
	if err != nil {
		return err
	}
	c.printHistory(entries, false)
	return nil
}

func (c *CLI) handleLive(args []string) error {
	if _, err := c.requireAdmin(); err != nil {
		return err
	}
	if c.dialFeed == nil {
		return apperrors.NewValidationError("Live stream is not configured", "")
	}
	seconds := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: live [seconds]")
		}
		seconds = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(seconds)*time.Second)
	defer cancel()
	feed, err := c.dialFeed(ctx)
	if err != nil {
		return err
	}
	defer feed.Close()

	c.printf("Live (%ds)\n", seconds)
	received := 0
	for {
		select {
		case frame, ok := <-feed.Frames():
			if !ok {
				c.printf("Live stream disconnected after %d frames.\n", received)
				return feed.Err()
			}
			received++
			c.printf("frame %d: %d bytes at %s\n", received, len(frame.JPEG), frame.ReceivedAt.Format("15:04:05"))
		case <-ctx.Done():
			c.printf("Received %d frames, %d skipped.\n", received, feed.Skipped())
			return nil
		}
	}
}

// leaveScreen delivers the focus-lost signal when the session screen is open.
func (c *CLI) leaveScreen() {
	if !c.onScreen.Swap(false) {
		return
	}
	_ = c.onLoop(c.screen.OnExit)
}

// Navigated is called on the event loop when the session screen navigates
// away by itself. The screen loses focus as part of the navigation.
func (c *CLI) Navigated(route sessiontimer.Route) {
	if route == sessiontimer.RouteParkingLots && c.onScreen.Swap(false) {
		c.screen.OnExit()
	}
}

func (c *CLI) onLoop(fn func()) error {
	if !c.do(fn) {
		return fmt.Errorf("session screen is closed")
	}
	return nil
}

func parseID(s, name string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("Invalid %s: %s", name, s), "")
	}
	return id, nil
}
