package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"gonum.org/v1/gonum/stat"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

// whiskerFactor is the IQR multiple beyond which prices are outliers.
const whiskerFactor = 1.5

// DashboardService builds chart datasets for a filter and memoises them
// until the dataset changes.
type DashboardService struct {
	store    *Store
	topHosts int
	logger   *utils.Logger
	cache    *ttlcache.Cache[string, *models.Dashboard]
}

// NewDashboardService wires the service to store. Cached dashboards expire
// after ttl and are dropped whenever the store changes.
func NewDashboardService(store *Store, topHosts int, ttl time.Duration, logger *utils.Logger) *DashboardService {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *models.Dashboard](ttl),
		ttlcache.WithCapacity[string, *models.Dashboard](256),
	)
	go cache.Start()

	svc := &DashboardService{
		store:    store,
		topHosts: topHosts,
		logger:   logger,
		cache:    cache,
	}
	store.OnChange(func(version uint64) {
		svc.cache.DeleteAll()
		logger.Debug("[dashboard] Cache cleared for dataset version %d", version)
	})
	return svc
}

// Build returns every chart dataset for spec.
func (s *DashboardService) Build(ctx context.Context, spec models.FilterSpec) (*models.Dashboard, error) {
	listings, version, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(spec, version)
	if item := s.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	start := time.Now()
	d := Compose(ApplyFilter(listings, spec), spec, s.topHosts)
	s.cache.Set(key, d, ttlcache.DefaultTTL)
	s.logger.Debug("[dashboard] Built %d/%d listings for %q in %v",
		d.Total, len(listings), key, time.Since(start))
	return d, nil
}

// View returns the filtered listings for spec.
func (s *DashboardService) View(ctx context.Context, spec models.FilterSpec) ([]models.Listing, error) {
	listings, err := s.store.Listings(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(listings, spec), nil
}

// Close stops the cache janitor.
func (s *DashboardService) Close() {
	s.cache.Stop()
}

// Compose derives every chart dataset from an already filtered view.
func Compose(view []models.Listing, spec models.FilterSpec, topHosts int) *models.Dashboard {
	prices := PriceDistribution(view)
	for i := range prices {
		prices[i].Box = Summarize(prices[i].Prices)
	}

	return &models.Dashboard{
		Filter:          spec,
		Total:           len(view),
		ByBorough:       CountByCategory(view, models.ColNeighbourhoodGroup),
		ByRoomType:      CountByCategory(view, models.ColRoomType),
		PriceByRoomType: prices,
		Scatter:         AvailabilityVsPrice(view),
		TopHosts:        TopNHosts(view, topHosts),
		Insights:        GenerateInsights(view),
	}
}

// Summarize computes quartiles (empirical, no interpolation), Tukey fences
// at 1.5 IQR, the whisker ends and the outliers of prices. prices is not
// modified.
func Summarize(prices []float64) models.BoxSummary {
	box := models.BoxSummary{Outliers: make([]float64, 0)}
	if len(prices) == 0 {
		return box
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	box.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	box.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	box.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)

	iqr := box.Q3 - box.Q1
	box.LowerFence = box.Q1 - whiskerFactor*iqr
	box.UpperFence = box.Q3 + whiskerFactor*iqr

	first := true
	for _, p := range sorted {
		if p < box.LowerFence || p > box.UpperFence {
			box.Outliers = append(box.Outliers, p)
			continue
		}
		if first {
			box.Min = p
			first = false
		}
		box.Max = p
	}
	return box
}

// cacheKey canonicalises spec so that equal filters share an entry
// regardless of selection order or duplicates.
func cacheKey(spec models.FilterSpec, version uint64) string {
	var b strings.Builder
	b.WriteString("v")
	b.WriteString(strconv.FormatUint(version, 10))
	b.WriteString("|b=")
	b.WriteString(strings.Join(canonical(spec.Boroughs), "\x1f"))
	b.WriteString("|r=")
	b.WriteString(strings.Join(canonical(spec.RoomTypes), "\x1f"))
	b.WriteString("|p=")
	b.WriteString(strconv.FormatFloat(spec.MaxPrice, 'g', -1, 64))
	return b.String()
}

func canonical(values []string) []string {
	set := toSet(values)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
