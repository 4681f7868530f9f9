package parkingapi

import (
	"context"
	"fmt"
	"net/http"

	"parkvision-client/internal/models"
)

func (c *Client) FetchOwnerParkingLots(ctx context.Context, ownerID models.UserID) ([]models.ParkingLot, error) {
	var out []models.ParkingLot
	if err := c.call(ctx, "owner_lots", http.MethodGet, fmt.Sprintf("/parkinglot/admin_parking_lots/%d/", ownerID), nil, &out,
		"Couldn't fetch owner's parking lots."); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchParkingLotUsers lists the spots of a lot together with who is parked on them.
func (c *Client) FetchParkingLotUsers(ctx context.Context, lotID models.LotID) (models.ParkingList, error) {
	var out models.ParkingList
	if err := c.call(ctx, "lot_users", http.MethodGet, fmt.Sprintf("/parkinglot/parking_lot_users/%d/", lotID), nil, &out,
		"Couldn't fetch users parked in this parking lot."); err != nil {
		return models.ParkingList{}, err
	}
	return out, nil
}

func (c *Client) GetParkingLotHistory(ctx context.Context, lotID models.LotID) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	if err := c.call(ctx, "lot_history", http.MethodGet, fmt.Sprintf("/auth/admin/history/%d/", lotID), nil, &out,
		"Couldn't fetch the parking lot history."); err != nil {
		return nil, err
	}
	return out, nil
}

// GetParkingStats asks the server to email a monthly report. NoData is set
// when the lot had no sessions that month.
func (c *Client) GetParkingStats(ctx context.Context, adminID models.UserID, req models.StatsRequest) (models.StatsResult, error) {
	body := map[string]interface{}{
		"id":         adminID,
		"month":      req.Month,
		"year":       req.Year,
		"parkinglot": req.LotID,
	}
	var out models.StatsResult
	if err := c.call(ctx, "stats", http.MethodPost, "/parkinglot/stats/", body, &out,
		"Couldn't fetch parking lot stats."); err != nil {
		return models.StatsResult{}, err
	}
	return out, nil
}
