package lotdetail

import (
	"testing"

	"parkvision-client/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSelectSpot(t *testing.T) {
	tests := []struct {
		name    string
		spot    models.ParkingSpot
		confirm bool
		prompt  string
	}{
		{
			name:    "available spot",
			spot:    models.ParkingSpot{ID: 4},
			confirm: true,
			prompt:  "Do you want to book parking 4?",
		},
		{
			name:   "occupied spot",
			spot:   models.ParkingSpot{ID: 5, Occupied: true},
			prompt: "This spot is already occupied. Try another one.",
		},
		{
			name:   "saved spot",
			spot:   models.ParkingSpot{ID: 6, Saved: true},
			prompt: "This spot is already occupied. Try another one.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SelectSpot(2, tt.spot)
			assert.Equal(t, tt.confirm, d.Confirm)
			assert.Equal(t, tt.prompt, d.Prompt)
			assert.Equal(t, "ParkVision", d.Title)
			assert.Equal(t, tt.spot.ID, d.Spot)
			assert.Equal(t, models.LotID(2), d.Lot)
		})
	}
}

func TestFindSpot(t *testing.T) {
	list := models.ParkingList{Parkings: []models.ParkingSpot{{ID: 1}, {ID: 2, Occupied: true}}}

	spot, ok := FindSpot(list, 2)
	assert.True(t, ok)
	assert.True(t, spot.Occupied)

	_, ok = FindSpot(list, 9)
	assert.False(t, ok)
}
