package models

// SessionState is a snapshot of who is logged in and whether they hold a spot.
// ActiveParkingID is non-nil exactly when IsParked is true.
type SessionState struct {
	IsAuthenticated bool    `json:"isAuthenticated"`
	IsAdmin         bool    `json:"isAdmin"`
	IsParked        bool    `json:"isParked"`
	ActiveParkingID *SpotID `json:"activeParkingId,omitempty"`
}

// ActiveSpot returns the active spot id, or 0 when not parked.
func (s SessionState) ActiveSpot() SpotID {
	if s.ActiveParkingID == nil {
		return 0
	}
	return *s.ActiveParkingID
}

// HoldKind is the grace period requested before arrival.
type HoldKind string

const (
	HoldImmediate HoldKind = "immediate"
	HoldHalfHour  HoldKind = "half"
	HoldOneHour   HoldKind = "hour"
)

// Valid reports whether k is one of the wire values accepted by the booking endpoint.
func (k HoldKind) Valid() bool {
	switch k {
	case HoldImmediate, HoldHalfHour, HoldOneHour:
		return true
	}
	return false
}

// Label is the text shown on the booking screen.
func (k HoldKind) Label() string {
	switch k {
	case HoldImmediate:
		return "Immediate"
	case HoldHalfHour:
		return "1/2 hour"
	case HoldOneHour:
		return "1 hour"
	}
	return string(k)
}
