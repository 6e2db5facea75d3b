package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"airbnb-dashboard/models"
)

// ExportHeader is the column order used by every listing export.
var ExportHeader = []string{
	models.ColID, models.ColName, models.ColHostName, models.ColNeighbourhoodGroup,
	models.ColNeighbourhood, models.ColRoomType, models.ColPrice,
	models.ColAvailability365, models.ColNumberOfReviews,
}

// CSVWriter writes listings as CSV to an arbitrary stream.
type CSVWriter struct {
	writer *csv.Writer
}

// NewCSVWriter wraps w and writes the header row.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CSVWriter{writer: cw}, nil
}

// WriteListings writes one row per listing and flushes.
func (c *CSVWriter) WriteListings(listings []models.Listing) error {
	for _, l := range listings {
		if err := c.writer.Write(exportRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func exportRow(l models.Listing) []string {
	return []string{
		strconv.FormatInt(l.ID, 10),
		l.Name,
		l.HostName,
		l.NeighbourhoodGroup,
		l.Neighbourhood,
		l.RoomType,
		strconv.FormatFloat(l.Price, 'f', -1, 64),
		strconv.Itoa(l.Availability365),
		strconv.Itoa(l.NumberOfReviews),
	}
}
