package models

// HistoryEntry is one finished parking session.
type HistoryEntry struct {
	ParkingLot    string `json:"parking_lot"`
	Parking       SpotID `json:"parking,omitempty"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	LicenseNumber string `json:"license_number,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
}

// StatsRequest asks the server to email a monthly occupancy report for a lot.
type StatsRequest struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	LotID LotID `json:"parkinglot"`
}

// StatsResult reports whether a report was produced.
type StatsResult struct {
	Success bool `json:"success"`
	NoData  bool `json:"noData"`
}
