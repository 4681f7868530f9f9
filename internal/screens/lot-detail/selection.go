// Package lotdetail handles picking a spot from a lot's spot listing.
package lotdetail

import (
	"fmt"

	"parkvision-client/internal/models"
)

const dialogTitle = "ParkVision"

// Decision is what the lot screen shows after a spot is tapped. When Confirm
// is true the user may continue to the booking options for Spot.
type Decision struct {
	Confirm bool
	Title   string
	Prompt  string
	Spot    models.SpotID
	Lot     models.LotID
}

// SelectSpot decides whether spot can be booked. Saved and occupied spots are refused.
func SelectSpot(lot models.LotID, spot models.ParkingSpot) Decision {
	d := Decision{Title: dialogTitle, Spot: spot.ID, Lot: lot}
	if spot.Status() != models.SpotAvailable {
		d.Prompt = "This spot is already occupied. Try another one."
		return d
	}
	d.Confirm = true
	d.Prompt = fmt.Sprintf("Do you want to book parking %d?", spot.ID)
	return d
}

// FindSpot looks id up in a lot listing.
func FindSpot(list models.ParkingList, id models.SpotID) (models.ParkingSpot, bool) {
	for _, s := range list.Parkings {
		if s.ID == id {
			return s, true
		}
	}
	return models.ParkingSpot{}, false
}
