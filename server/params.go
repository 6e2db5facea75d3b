package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"airbnb-dashboard/models"
)

// Query parameter names of the filter controls.
const (
	ParamBorough  = "borough"
	ParamRoomType = "room_type"
	ParamMaxPrice = "max_price"
)

var errInvalidFilter = errors.New("invalid filter")

var validate = validator.New()

// ParseFilterSpec builds a FilterSpec from query parameters. An absent
// borough or room_type parameter selects every value in opts; a parameter
// present with only empty values selects nothing. An absent max_price uses
// opts.DefaultMaxPrice.
func ParseFilterSpec(q url.Values, opts models.FilterOptions) (models.FilterSpec, error) {
	spec := models.FilterSpec{
		Boroughs:  multiValue(q, ParamBorough, opts.Boroughs),
		RoomTypes: multiValue(q, ParamRoomType, opts.RoomTypes),
		MaxPrice:  float64(opts.DefaultMaxPrice),
	}

	if raw := strings.TrimSpace(q.Get(ParamMaxPrice)); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.FilterSpec{}, fmt.Errorf("%w: %s %q is not a number", errInvalidFilter, ParamMaxPrice, raw)
		}
		spec.MaxPrice = price
	}

	if err := validate.Struct(spec); err != nil {
		return models.FilterSpec{}, fmt.Errorf("%w: %s must be a number >= 0", errInvalidFilter, ParamMaxPrice)
	}
	return spec, nil
}

func multiValue(q url.Values, key string, all []string) []string {
	values, ok := q[key]
	if !ok {
		return append([]string{}, all...)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
