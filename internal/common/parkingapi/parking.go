package parkingapi

import (
	"context"
	"fmt"
	"net/http"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

type successResponse struct {
	Success bool `json:"success"`
}

// FetchParking lists the spots of a lot.
func (c *Client) FetchParking(ctx context.Context, lotID models.LotID) (models.ParkingList, error) {
	var out models.ParkingList
	err := c.cached(ctx, lotSpotsKey(lotID), &out, func() error {
		return c.call(ctx, "fetch_parking", http.MethodGet, fmt.Sprintf("/parkinglot/%d", lotID), nil, &out,
			"Couldn't fetch parking spots.")
	})
	if err != nil {
		return models.ParkingList{}, err
	}
	c.rememberSpots(lotID, out.Parkings)
	return out, nil
}

// RefreshParking reads the spots of a lot from the server, skipping the cached
// listing, and stores the result for later FetchParking calls. Occupancy checks
// before booking go through here.
func (c *Client) RefreshParking(ctx context.Context, lotID models.LotID) (models.ParkingList, error) {
	var out models.ParkingList
	if err := c.call(ctx, "fetch_parking", http.MethodGet, fmt.Sprintf("/parkinglot/%d", lotID), nil, &out,
		"Couldn't fetch parking spots."); err != nil {
		return models.ParkingList{}, err
	}
	c.store(ctx, lotSpotsKey(lotID), out)
	c.rememberSpots(lotID, out.Parkings)
	return out, nil
}

func (c *Client) FetchAllParkingLots(ctx context.Context) ([]models.ParkingLot, error) {
	var out []models.ParkingLot
	err := c.cached(ctx, allLotsKey, &out, func() error {
		return c.call(ctx, "fetch_all_lots", http.MethodGet, "/parkinglot/all/", nil, &out,
			"Couldn't fetch parking lots.")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BookParking reserves spotID for userID with the given hold.
func (c *Client) BookParking(ctx context.Context, spotID models.SpotID, userID models.UserID, hold models.HoldKind) error {
	if !hold.Valid() {
		return apperrors.NewInvalidHoldKindError(string(hold))
	}
	body := map[string]interface{}{"id": spotID, "user_id": userID, "savetime": hold}
	var out successResponse
	if err := c.call(ctx, "book", http.MethodPost, "/parkinglot/book/", body, &out, "Couldn't book parking"); err != nil {
		return err
	}
	if !out.Success {
		return apperrors.NewBookingFailedError(fmt.Sprintf("spot %d was not booked", spotID))
	}
	c.invalidateSpot(ctx, spotID)
	return nil
}

// UnbookParking releases spotID.
func (c *Client) UnbookParking(ctx context.Context, spotID models.SpotID, userID models.UserID) error {
	body := map[string]interface{}{"id": spotID, "user_id": userID}
	var out successResponse
	if err := c.call(ctx, "unbook", http.MethodPost, "/parkinglot/unbook/", body, &out, "Couldn't unbook parking"); err != nil {
		return err
	}
	if !out.Success {
		return apperrors.NewUnbookFailedError(fmt.Sprintf("spot %d was not released", spotID))
	}
	c.invalidateSpot(ctx, spotID)
	return nil
}

// IsOccupied asks the server whether a car is physically on the spot.
func (c *Client) IsOccupied(ctx context.Context, spotID models.SpotID) (bool, error) {
	var out struct {
		Occupied bool `json:"occupied"`
	}
	body := map[string]interface{}{"parkingId": spotID}
	if err := c.call(ctx, "occupancy", http.MethodPost, "/parkinglot/occupancy/", body, &out,
		"Couldn't check parking occupancy"); err != nil {
		return false, err
	}
	return out.Occupied, nil
}

// GetUserHistory lists the finished sessions of a user.
func (c *Client) GetUserHistory(ctx context.Context, userID models.UserID) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	if err := c.call(ctx, "user_history", http.MethodGet, fmt.Sprintf("/auth/history/%d/", userID), nil, &out,
		"Couldn't fetch your parking history."); err != nil {
		return nil, err
	}
	return out, nil
}
