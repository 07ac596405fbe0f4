package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"housing-manager/models"
)

// PostgresStore persists cleaned listings to PostgreSQL, one row per
// (address, source).
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id           SERIAL PRIMARY KEY,
			address      TEXT          NOT NULL,
			source       VARCHAR(50)   NOT NULL,
			price        NUMERIC(10,2),
			bedrooms     INTEGER,
			bathrooms    NUMERIC(4,1),
			category     TEXT          NOT NULL DEFAULT 'Residential',
			square_feet  INTEGER,
			move_in_date TEXT          NOT NULL DEFAULT '',
			listing_link TEXT          NOT NULL DEFAULT '',
			scraped_at   TIMESTAMPTZ   NOT NULL,
			updated_at   TIMESTAMPTZ   NOT NULL,
			UNIQUE (address, source)
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price      ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_source     ON listings(source);
		CREATE INDEX IF NOT EXISTS idx_listings_updated_at ON listings(updated_at);
	`)
	return err
}

// Upsert inserts or refreshes the given listings for one source.
func (ps *PostgresStore) Upsert(ctx context.Context, source string, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := ps.now()
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := upsertBatch(ctx, tx, source, listings[i:end], now); err != nil {
			return fmt.Errorf("postgres: upsert %s: %w", source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

const upsertColumns = 11

func upsertBatch(ctx context.Context, tx *sql.Tx, source string, batch []*models.Listing, now time.Time) error {
	query, args := buildUpsert(source, batch, now)
	if len(args) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// buildUpsert renders one multi-row INSERT. Rows repeating an address within
// the batch are skipped, since ON CONFLICT cannot touch a row twice.
func buildUpsert(source string, batch []*models.Listing, now time.Time) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*upsertColumns)
	seen := make(map[string]struct{}, len(batch))

	for _, l := range batch {
		if l == nil {
			continue
		}
		if _, dup := seen[l.Address]; dup {
			continue
		}
		seen[l.Address] = struct{}{}

		base := len(valueStrings) * upsertColumns
		placeholders := make([]string, upsertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		scrapedAt := l.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = now
		}
		category := l.Category
		if category == "" {
			category = "Residential"
		}
		valueArgs = append(valueArgs,
			l.Address, source, nullFloat(l.Price), nullInt(l.Bedrooms), nullFloat(l.Bathrooms),
			category, nullInt(l.SquareFeet), l.MoveInDate, l.URL, scrapedAt, now)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (address, source, price, bedrooms, bathrooms, category,
		                      square_feet, move_in_date, listing_link, scraped_at, updated_at)
		VALUES %s
		ON CONFLICT (address, source) DO UPDATE SET
			price        = EXCLUDED.price,
			bedrooms     = EXCLUDED.bedrooms,
			bathrooms    = EXCLUDED.bathrooms,
			category     = EXCLUDED.category,
			square_feet  = EXCLUDED.square_feet,
			move_in_date = EXCLUDED.move_in_date,
			listing_link = EXCLUDED.listing_link,
			updated_at   = EXCLUDED.updated_at
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// FetchAll retrieves every stored listing, most recently updated first.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT address, source, price, bedrooms, bathrooms, category, square_feet,
		       move_in_date, listing_link, scraped_at, updated_at
		FROM listings
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	listings := make([]*models.Listing, 0)
	for rows.Next() {
		var (
			l                models.Listing
			price, bathrooms sql.NullFloat64
			bedrooms, sqft   sql.NullInt64
		)
		if err := rows.Scan(
			&l.Address, &l.Source, &price, &bedrooms, &bathrooms, &l.Category, &sqft,
			&l.MoveInDate, &l.URL, &l.ScrapedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Price = floatPtr(price)
		l.Bathrooms = floatPtr(bathrooms)
		l.Bedrooms = intPtr(bedrooms)
		l.SquareFeet = intPtr(sqft)
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// Metadata returns the number of stored listings and the latest update time.
func (ps *PostgresStore) Metadata(ctx context.Context) (*models.StoreMetadata, error) {
	var (
		meta models.StoreMetadata
		last sql.NullTime
	)
	err := ps.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(updated_at) FROM listings`).
		Scan(&meta.Total, &last)
	if err != nil {
		return nil, fmt.Errorf("postgres: metadata: %w", err)
	}
	if last.Valid {
		meta.LastUpdated = last.Time
	}
	return &meta, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
