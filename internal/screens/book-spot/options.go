// Package bookspot turns the chosen hold option into booking parameters for
// the session screen.
package bookspot

import (
	"fmt"
	"time"

	"parkvision-client/internal/models"
	"parkvision-client/internal/reservation"
	sessiontimer "parkvision-client/internal/screens/session-timer"
)

// Options lists the hold choices in display order.
var Options = []models.HoldKind{models.HoldImmediate, models.HoldHalfHour, models.HoldOneHour}

// Confirmation is the dialog shown before handing off to the session screen.
type Confirmation struct {
	Title   string
	Message string
	Params  sessiontimer.BookingParams
}

// Confirm validates the chosen option. option may be a wire value or a label.
func Confirm(spot models.SpotID, lot models.LotID, option string, now time.Time) (Confirmation, error) {
	kind, err := reservation.ParseHoldKind(option)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{
		Title:   "Booking Confirmation",
		Message: fmt.Sprintf("Estimated arriving time: %s", reservation.EstimatedArrival(kind, now)),
		Params:  sessiontimer.BookingParams{SpotID: spot, LotID: lot, HoldKind: kind},
	}, nil
}

// Describe renders the option list, e.g. "immediate (Immediate)".
func Describe() []string {
	out := make([]string, 0, len(Options))
	for _, k := range Options {
		out = append(out, fmt.Sprintf("%s (%s)", k, k.Label()))
	}
	return out
}
