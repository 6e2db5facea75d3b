package storage

import (
	"context"

	"airbnb-dashboard/models"
)

// RawListingReader is the interface for sources that yield uncleaned rows.
type RawListingReader interface {
	ReadRaw(ctx context.Context) ([]*models.RawListing, error)
}

// ListingReader is the interface for sources that already hold clean listings.
type ListingReader interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
}

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	Write(ctx context.Context, listings []models.Listing) error
	Close() error
}
