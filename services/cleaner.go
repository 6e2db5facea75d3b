package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops rows missing a name, host name or borough, and rows whose
// numeric cells are unparseable or negative. Row order is preserved.
func (c *Cleaner) Clean(raw []*models.RawListing) []models.Listing {
	result := make([]models.Listing, 0, len(raw))
	var missing, malformed int

	for i, r := range raw {
		if isMissing(r.Name) || isMissing(r.HostName) || isMissing(r.NeighbourhoodGroup) {
			missing++
			continue
		}

		price, err := parseNonNegativeFloat(r.Price)
		if err != nil {
			c.logger.Warn("[cleaner] Row %d: bad price %q: %v", i+1, r.Price, err)
			malformed++
			continue
		}
		availability, err := parseNonNegativeInt(r.Availability365)
		if err != nil {
			c.logger.Warn("[cleaner] Row %d: bad availability_365 %q: %v", i+1, r.Availability365, err)
			malformed++
			continue
		}
		reviews, err := parseNonNegativeInt(r.NumberOfReviews)
		if err != nil {
			c.logger.Warn("[cleaner] Row %d: bad number_of_reviews %q: %v", i+1, r.NumberOfReviews, err)
			malformed++
			continue
		}

		result = append(result, models.Listing{
			ID:                 parseOptionalInt64(r.ID),
			Name:               r.Name,
			HostName:           r.HostName,
			NeighbourhoodGroup: normaliseText(r.NeighbourhoodGroup),
			Neighbourhood:      normaliseText(r.Neighbourhood),
			Latitude:           parseOptionalFloat(r.Latitude),
			Longitude:          parseOptionalFloat(r.Longitude),
			RoomType:           normaliseText(r.RoomType),
			Price:              price,
			Availability365:    availability,
			NumberOfReviews:    reviews,
		})
	}

	c.logger.Debug("[cleaner] Dropped %d rows with missing name, host or borough", missing)
	c.logger.Info("[cleaner] Cleaned %s → %s listings (dropped %s: %d missing, %d malformed)",
		humanize.Comma(int64(len(raw))), humanize.Comma(int64(len(result))),
		humanize.Comma(int64(len(raw)-len(result))), missing, malformed)
	return result
}

func isMissing(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseNonNegativeFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// parseNonNegativeInt accepts integral floats ("12.0") since some exports
// write integer columns with a decimal part.
func parseNonNegativeInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, strconv.ErrRange
		}
		return n, nil
	}
	f, err := parseNonNegativeFloat(raw)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

func parseOptionalInt64(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseOptionalFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
