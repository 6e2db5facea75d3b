package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"airbnb-dashboard/models"
)

// ErrMissingColumn is returned when the dataset header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// nanValues are the cell values treated as missing, matching the usual
// dataframe conventions for NYC open data exports.
var nanValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// CSVReader loads raw listings from a CSV file on disk.
type CSVReader struct {
	path string
}

// NewCSVReader returns a reader for the CSV file at path. The file is not
// opened until ReadRaw is called.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// Path returns the file the reader loads from.
func (r *CSVReader) Path() string {
	return r.path
}

// ReadRaw opens the file and parses every row into a RawListing.
func (r *CSVReader) ReadRaw(ctx context.Context) ([]*models.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", r.path, err)
	}
	defer f.Close()

	return ParseRaw(f)
}

// ParseRaw reads a listings CSV with a header row. Every column is loaded as
// a string; cells matching a NaN marker come back as "".
func ParseRaw(rd io.Reader) ([]*models.RawListing, error) {
	df := dataframe.ReadCSV(rd,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("csv: parse: %w", df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range models.RequiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("csv: %w: %q", ErrMissingColumn, col)
		}
	}

	column := func(name string) []string {
		cells := make([]string, df.Nrow())
		if !present[name] {
			return cells
		}
		s := df.Col(name)
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			cells[i] = e.String()
		}
		return cells
	}

	var (
		ids           = column(models.ColID)
		names         = column(models.ColName)
		hosts         = column(models.ColHostName)
		groups        = column(models.ColNeighbourhoodGroup)
		neighbourhood = column(models.ColNeighbourhood)
		lats          = column(models.ColLatitude)
		lngs          = column(models.ColLongitude)
		roomTypes     = column(models.ColRoomType)
		prices        = column(models.ColPrice)
		availability  = column(models.ColAvailability365)
		reviews       = column(models.ColNumberOfReviews)
	)

	raw := make([]*models.RawListing, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		raw = append(raw, &models.RawListing{
			ID:                 ids[i],
			Name:               names[i],
			HostName:           hosts[i],
			NeighbourhoodGroup: groups[i],
			Neighbourhood:      neighbourhood[i],
			Latitude:           lats[i],
			Longitude:          lngs[i],
			RoomType:           roomTypes[i],
			Price:              prices[i],
			Availability365:    availability[i],
			NumberOfReviews:    reviews[i],
		})
	}
	return raw, nil
}
