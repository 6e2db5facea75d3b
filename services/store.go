package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"airbnb-dashboard/models"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

// Source produces the full, cleaned listing set.
type Source interface {
	Load(ctx context.Context) ([]models.Listing, error)
	Describe() string
}

// CSVSource reads raw rows and cleans them.
type CSVSource struct {
	reader  storage.RawListingReader
	cleaner *Cleaner
	name    string
}

// NewCSVSource combines a raw reader with a cleaner. name is used in logs.
func NewCSVSource(reader storage.RawListingReader, cleaner *Cleaner, name string) *CSVSource {
	return &CSVSource{reader: reader, cleaner: cleaner, name: name}
}

func (s *CSVSource) Load(ctx context.Context) ([]models.Listing, error) {
	raw, err := s.reader.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}
	return s.cleaner.Clean(raw), nil
}

func (s *CSVSource) Describe() string { return "csv:" + s.name }

// DBSource reads listings that were cleaned before being stored.
type DBSource struct {
	reader storage.ListingReader
}

// NewDBSource wraps a database-backed reader.
func NewDBSource(reader storage.ListingReader) *DBSource {
	return &DBSource{reader: reader}
}

func (s *DBSource) Load(ctx context.Context) ([]models.Listing, error) {
	return s.reader.FetchAll(ctx)
}

func (s *DBSource) Describe() string { return "postgres:listings" }

// Store holds the loaded dataset for the life of the process. The first
// caller loads it; later callers share the same read-only slice until
// Invalidate or Reload replaces it.
type Store struct {
	source          Source
	defaultMaxPrice int
	logger          *utils.Logger

	mu       sync.Mutex
	loaded   bool
	listings []models.Listing
	options  models.FilterOptions
	version  uint64
	loadedAt time.Time

	subMu       sync.Mutex
	subscribers []func(version uint64)
}

// NewStore creates an empty Store. Nothing is read until Listings is called.
func NewStore(source Source, defaultMaxPrice int, logger *utils.Logger) *Store {
	return &Store{
		source:          source,
		defaultMaxPrice: defaultMaxPrice,
		logger:          logger,
	}
}

// Listings returns the dataset, loading it on first use. The returned slice
// must not be modified.
func (s *Store) Listings(ctx context.Context) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return s.listings, nil
}

// Snapshot returns the dataset together with its version.
func (s *Store) Snapshot(ctx context.Context) ([]models.Listing, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, 0, err
	}
	return s.listings, s.version, nil
}

// Options returns the selectable filter values of the loaded dataset.
func (s *Store) Options(ctx context.Context) (models.FilterOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return models.FilterOptions{}, err
	}
	return s.options, nil
}

// Version increases every time a new dataset is installed.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// LoadedAt reports when the current dataset was installed; zero if none is.
func (s *Store) LoadedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return time.Time{}
	}
	return s.loadedAt
}

// Invalidate drops the loaded dataset; the next read loads it again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.listings = nil
	s.options = models.FilterOptions{}
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Info("[store] Dataset invalidated (version %d)", version)
	s.notify(version)
}

// Reload loads a fresh copy from the source and swaps it in. On failure the
// current dataset stays in place.
func (s *Store) Reload(ctx context.Context) error {
	listings, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	version := s.installLocked(listings)
	s.mu.Unlock()

	s.notify(version)
	return nil
}

// OnChange registers fn to run after every Invalidate or Reload.
func (s *Store) OnChange(fn func(version uint64)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(version uint64) {
	s.subMu.Lock()
	subs := append([]func(uint64){}, s.subscribers...)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(version)
	}
}

func (s *Store) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	listings, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.installLocked(listings)
	return nil
}

func (s *Store) load(ctx context.Context) ([]models.Listing, error) {
	start := time.Now()
	listings, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", s.source.Describe(), err)
	}
	s.logger.Info("[store] Loaded %s listings from %s in %v",
		humanize.Comma(int64(len(listings))), s.source.Describe(), time.Since(start).Round(time.Millisecond))
	return listings, nil
}

func (s *Store) installLocked(listings []models.Listing) uint64 {
	s.listings = listings
	s.options = buildOptions(listings, s.defaultMaxPrice)
	s.loaded = true
	s.loadedAt = time.Now()
	s.version++
	return s.version
}

// buildOptions lists distinct boroughs and room types in first-appearance
// order and floors the highest price for the slider. The default slider
// value is clamped into the slider range.
func buildOptions(listings []models.Listing, defaultMaxPrice int) models.FilterOptions {
	opts := models.FilterOptions{
		Boroughs:      make([]string, 0),
		RoomTypes:     make([]string, 0),
		TotalListings: len(listings),
	}

	seenBorough := make(map[string]struct{})
	seenRoom := make(map[string]struct{})
	var maxPrice float64
	for _, l := range listings {
		if _, ok := seenBorough[l.NeighbourhoodGroup]; !ok {
			seenBorough[l.NeighbourhoodGroup] = struct{}{}
			opts.Boroughs = append(opts.Boroughs, l.NeighbourhoodGroup)
		}
		if _, ok := seenRoom[l.RoomType]; !ok {
			seenRoom[l.RoomType] = struct{}{}
			opts.RoomTypes = append(opts.RoomTypes, l.RoomType)
		}
		if l.Price > maxPrice {
			maxPrice = l.Price
		}
	}

	opts.MaxPrice = int(math.Floor(maxPrice))
	opts.DefaultMaxPrice = defaultMaxPrice
	if opts.DefaultMaxPrice > opts.MaxPrice {
		opts.DefaultMaxPrice = opts.MaxPrice
	}
	if opts.DefaultMaxPrice < 0 {
		opts.DefaultMaxPrice = 0
	}
	return opts
}
