package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SpotID identifies a single parking space.
type SpotID int64

// LotID identifies a parking lot.
type LotID int64

// SpotStatus is derived from the occupied/saved flags.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "available"
	SpotSaved     SpotStatus = "saved"
	SpotOccupied  SpotStatus = "occupied"
)

// ParkingSpot is a space as reported by the Parking Service.
type ParkingSpot struct {
	ID            SpotID `json:"id"`
	Occupied      bool   `json:"occupied"`
	Saved         bool   `json:"saved"`
	LicenseNumber string `json:"license_number,omitempty"`
	AssignedUser  *User  `json:"user,omitempty"`
}

// Status returns exactly one of available, saved or occupied. Occupied wins over saved.
func (p ParkingSpot) Status() SpotStatus {
	switch {
	case p.Occupied:
		return SpotOccupied
	case p.Saved:
		return SpotSaved
	}
	return SpotAvailable
}

// ParkingLot is a collection of spots at one location.
type ParkingLot struct {
	ID           LotID      `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address,omitempty"`
	ParkingSpots int        `json:"parking_spots"`
	Latitude     Coordinate `json:"latitude"`
	Longitude    Coordinate `json:"longitude"`
	OwnerID      UserID     `json:"owner,omitempty"`
}

// ParkingList wraps the spot listing returned for a lot.
type ParkingList struct {
	Parkings []ParkingSpot `json:"parkings"`
}

// CountByStatus tallies spots per status.
func (l ParkingList) CountByStatus() map[SpotStatus]int {
	counts := map[SpotStatus]int{SpotAvailable: 0, SpotSaved: 0, SpotOccupied: 0}
	for _, p := range l.Parkings {
		counts[p.Status()]++
	}
	return counts
}

// Coordinate is a latitude or longitude. The server sends decimal strings for
// some lots and plain numbers for others.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*c = Coordinate(v)
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(c))
}
