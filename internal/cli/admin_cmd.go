package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	apperrors "parkvision-client/internal/common/errors"
	"parkvision-client/internal/models"
)

func (c *CLI) handleMyLots(args []string) error {
	user, err := c.requireAdmin()
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	lots, err := c.api.FetchOwnerParkingLots(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(lots) == 0 {
		c.printf("You do not own any parking lots.\n")
		return nil
	}
	c.printLots(lots)
	return nil
}

func (c *CLI) handleLotUsers(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lotusers <lot id>")
	}
	if _, err := c.requireAdmin(); err != nil {
		return err
	}
	lotID, err := parseID(args[0], "lot id")
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	list, err := c.api.FetchParkingLotUsers(ctx, models.LotID(lotID))
	if err != nil {
		return err
	}
	c.printSpots(list)
	return nil
}

func (c *CLI) handleLotHistory(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lothistory <lot id>")
	}
	if _, err := c.requireAdmin(); err != nil {
		return err
	}
	lotID, err := parseID(args[0], "lot id")
	if err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	entries, err := c.api.GetParkingLotHistory(ctx, models.LotID(lotID))
	if err != nil {
		return err
	}
	c.printHistory(entries, true)
	return nil
}

// handleStats asks the server to email a monthly report for a lot.
func (c *CLI) handleStats(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: stats <lot id> <month> <year>")
	}
	user, err := c.requireAdmin()
	if err != nil {
		return err
	}
	lotID, err := parseID(args[0], "lot id")
	if err != nil {
		return err
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return apperrors.NewValidationError("Month must be between 1 and 12.", args[1])
	}
	year, err := strconv.Atoi(args[2])
	if err != nil || year < 2000 {
		return apperrors.NewValidationError("Invalid year.", args[2])
	}

	ctx, cancel := c.context()
	defer cancel()
	result, err := c.api.GetParkingStats(ctx, user.ID, models.StatsRequest{Month: month, Year: year, LotID: models.LotID(lotID)})
	if err != nil {
		return err
	}
	if result.NoData {
		c.printf("No data for %02d/%d.\n", month, year)
		return nil
	}
	c.printf("The report for %02d/%d was sent to %s.\n", month, year, user.Email)
	return nil
}

func (c *CLI) printLots(lots []models.ParkingLot) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tSPOTS")
	for _, lot := range lots {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", lot.ID, lot.Name, lot.Address, lot.ParkingSpots)
	}
	_ = w.Flush()
}

func (c *CLI) printSpots(list models.ParkingList) {
	if len(list.Parkings) == 0 {
		c.printf("No parking spots found.\n")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SPOT\tSTATUS\tDRIVER")
	for _, spot := range list.Parkings {
		driver := ""
		if spot.AssignedUser != nil {
			driver = spot.AssignedUser.FullName()
		}
		if spot.LicenseNumber != "" {
			driver = fmt.Sprintf("%s %s", driver, spot.LicenseNumber)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", spot.ID, spot.Status(), driver)
	}
	_ = w.Flush()

	counts := list.CountByStatus()
	c.printf("available: %d  saved: %d  occupied: %d\n",
		counts[models.SpotAvailable], counts[models.SpotSaved], counts[models.SpotOccupied])
}

func (c *CLI) printHistory(entries []models.HistoryEntry, withDriver bool) {
	if len(entries) == 0 {
		c.printf("No parking history.\n")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if withDriver {
		fmt.Fprintln(w, "LOT\tSPOT\tSTART\tEND\tDRIVER\tPLATE")
	} else {
		fmt.Fprintln(w, "LOT\tSPOT\tSTART\tEND")
	}
	for _, e := range entries {
		start := e.StartDate + " " + e.StartTime
		end := e.EndDate + " " + e.EndTime
		if withDriver {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s %s\t%s\n", e.ParkingLot, e.Parking, start, end, e.FirstName, e.LastName, e.LicenseNumber)
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.ParkingLot, e.Parking, start, end)
		}
	}
	_ = w.Flush()
}
