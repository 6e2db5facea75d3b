package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"airbnb-dashboard/models"
)

// XLSXSheet is the worksheet name listing exports are written to.
const XLSXSheet = "Listings"

// WriteXLSX renders listings as a single-sheet workbook and writes it to w.
func WriteXLSX(w io.Writer, listings []models.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, l := range listings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		row := []interface{}{
			l.ID, l.Name, l.HostName, l.NeighbourhoodGroup, l.Neighbourhood,
			l.RoomType, l.Price, l.Availability365, l.NumberOfReviews,
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}
