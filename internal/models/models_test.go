package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParkingSpot_Status(t *testing.T) {
	tests := []struct {
		name string
		spot ParkingSpot
		want SpotStatus
	}{
		{"free", ParkingSpot{ID: 1}, SpotAvailable},
		{"saved", ParkingSpot{ID: 2, Saved: true}, SpotSaved},
		{"occupied", ParkingSpot{ID: 3, Occupied: true}, SpotOccupied},
		{"occupied wins over saved", ParkingSpot{ID: 4, Occupied: true, Saved: true}, SpotOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spot.Status())
		})
	}
}

func TestParkingList_CountByStatus(t *testing.T) {
	list := ParkingList{Parkings: []ParkingSpot{
		{ID: 1}, {ID: 2, Saved: true}, {ID: 3, Occupied: true}, {ID: 4},
	}}

	counts := list.CountByStatus()
	assert.Equal(t, 2, counts[SpotAvailable])
	assert.Equal(t, 1, counts[SpotSaved])
	assert.Equal(t, 1, counts[SpotOccupied])
}

func TestHoldKind(t *testing.T) {
	assert.True(t, HoldImmediate.Valid())
	assert.True(t, HoldHalfHour.Valid())
	assert.True(t, HoldOneHour.Valid())
	assert.False(t, HoldKind("forever").Valid())

	assert.Equal(t, "Immediate", HoldImmediate.Label())
	assert.Equal(t, "1/2 hour", HoldHalfHour.Label())
	assert.Equal(t, "1 hour", HoldOneHour.Label())
}

func TestSessionState_ActiveSpot(t *testing.T) {
	assert.Equal(t, SpotID(0), SessionState{}.ActiveSpot())

	id := SpotID(42)
	assert.Equal(t, SpotID(42), SessionState{IsParked: true, ActiveParkingID: &id}.ActiveSpot())
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Dana Levi", User{FirstName: "Dana", LastName: "Levi"}.FullName())
	assert.Equal(t, "Dana", User{FirstName: "Dana"}.FullName())
	assert.False(t, User{}.HasID())
	assert.True(t, User{ID: 3}.HasID())
}

func TestParkingLot_DecodesStringAndNumericCoordinates(t *testing.T) {
	payload := `[
		{"id": 1, "name": "Central", "parking_spots": 20, "latitude": "31.2438", "longitude": "34.7925"},
		{"id": 2, "name": "North", "parking_spots": 8, "latitude": 32.1, "longitude": 34.8},
		{"id": 3, "name": "Unmapped", "parking_spots": 4, "latitude": null}
	]`

	var lots []ParkingLot
	require.NoError(t, json.Unmarshal([]byte(payload), &lots))
	require.Len(t, lots, 3)

	assert.InDelta(t, 31.2438, float64(lots[0].Latitude), 1e-9)
	assert.InDelta(t, 34.8, float64(lots[1].Longitude), 1e-9)
	assert.Equal(t, Coordinate(0), lots[2].Latitude)
}

func TestSignUpForm_UsesServerFieldNames(t *testing.T) {
	data, err := json.Marshal(SignUpForm{FirstName: "Dana", LicenseNumber: "1234567"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lisence_plate_number":"1234567"`)
	assert.Contains(t, string(data), `"first_name":"Dana"`)
}
