package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

const insertColumns = 11

// PostgresStore keeps a copy of the cleaned dataset in PostgreSQL so the
// dashboard can be served without the CSV file.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.DoContext(ctx, "postgres-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			row_id              SERIAL PRIMARY KEY,
			listing_id          BIGINT        NOT NULL DEFAULT 0,
			name                TEXT          NOT NULL,
			host_name           TEXT          NOT NULL,
			neighbourhood_group TEXT          NOT NULL,
			neighbourhood       TEXT          NOT NULL DEFAULT '',
			latitude            DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude           DOUBLE PRECISION NOT NULL DEFAULT 0,
			room_type           TEXT          NOT NULL,
			price               NUMERIC(10,2) NOT NULL DEFAULT 0,
			availability_365    INTEGER       NOT NULL DEFAULT 0,
			number_of_reviews   INTEGER       NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_listings_group     ON listings(neighbourhood_group);
		CREATE INDEX IF NOT EXISTS idx_listings_room_type ON listings(room_type);
		CREATE INDEX IF NOT EXISTS idx_listings_price     ON listings(price);
	`)
	return err
}

// Write replaces the table contents with listings inside one transaction,
// inserting in batches. Source order is kept in row_id.
func (ps *PostgresStore) Write(ctx context.Context, listings []models.Listing) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 500
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := insertBatch(ctx, tx, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []models.Listing) error {
	query, args := buildInsert(batch)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func buildInsert(batch []models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.ID, l.Name, l.HostName, l.NeighbourhoodGroup, l.Neighbourhood,
			l.Latitude, l.Longitude, l.RoomType, l.Price, l.Availability365, l.NumberOfReviews)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (listing_id, name, host_name, neighbourhood_group, neighbourhood,
			latitude, longitude, room_type, price, availability_365, number_of_reviews)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// Close closes the database handle.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// FetchAll retrieves all stored listings in insertion order.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT listing_id, name, host_name, neighbourhood_group, neighbourhood,
		       latitude, longitude, room_type, price, availability_365, number_of_reviews
		FROM listings
		ORDER BY row_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.Name, &l.HostName, &l.NeighbourhoodGroup, &l.Neighbourhood,
			&l.Latitude, &l.Longitude, &l.RoomType, &l.Price, &l.Availability365, &l.NumberOfReviews,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
