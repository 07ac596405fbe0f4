package models

import (
	"encoding/json"
	"time"
)

// RawListing holds unprocessed card text straight from a property
// management site. The cleaner turns it into a Listing.
type RawListing struct {
	Source       string
	Address      string
	PriceText    string
	BedsText     string
	BathsText    string
	SqftText     string
	CategoryHint string
	MoveInDate   string
	URL          string
	ScrapedAt    time.Time
}

// Listing is one rental unit. Nil numeric fields mean the value is unknown,
// which is not the same as zero (Bedrooms 0 is a studio).
type Listing struct {
	Address    string    `json:"address"`
	Source     string    `json:"source"`
	Price      *float64  `json:"price"`
	Bedrooms   *int      `json:"bedrooms"`
	Bathrooms  *float64  `json:"bathrooms"`
	SquareFeet *int      `json:"square_feet"`
	Category   string    `json:"category,omitempty"`
	MoveInDate string    `json:"move_in_date,omitempty"`
	URL        string    `json:"url,omitempty"`
	ScrapedAt  time.Time `json:"scraped_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// UnmarshalJSON accepts the scrapers' wire shape, where the link may be sent
// as listing_link, the move-in date as date_available and the category as
// null.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type alias Listing
	var wire struct {
		alias
		Category      *string `json:"category"`
		ListingLink   string  `json:"listing_link"`
		DateAvailable string  `json:"date_available"`
		ScrapedAt     string  `json:"scraped_at"`
		UpdatedAt     string  `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*l = Listing(wire.alias)
	if wire.Category != nil {
		l.Category = *wire.Category
	}
	if l.URL == "" {
		l.URL = wire.ListingLink
	}
	if l.MoveInDate == "" {
		l.MoveInDate = wire.DateAvailable
	}
	l.ScrapedAt = ParseTimestamp(wire.ScrapedAt)
	l.UpdatedAt = ParseTimestamp(wire.UpdatedAt)
	return nil
}

// ScrapeResult is the payload of one scrape run: GET /scrape/{id} returns
// a single source, GET /scrape/all the merged feed with Sources filled in.
type ScrapeResult struct {
	Listings  []*Listing `json:"listings"`
	ScrapedAt time.Time  `json:"scraped_at"`
	Source    string     `json:"source,omitempty"`
	Sources   []string   `json:"sources,omitempty"`
}

func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	var wire struct {
		Listings  []*Listing `json:"listings"`
		ScrapedAt *string    `json:"scraped_at"`
		Source    string     `json:"source"`
		Sources   []string   `json:"sources"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Listings = wire.Listings
	r.Source = wire.Source
	r.Sources = wire.Sources
	r.ScrapedAt = time.Time{}
	if wire.ScrapedAt != nil {
		r.ScrapedAt = ParseTimestamp(*wire.ScrapedAt)
	}
	return nil
}

// ScraperInfo describes one scraper exposed by the backend.
type ScraperInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Endpoint string `json:"endpoint"`
}

// StoreMetadata summarises what the listing store currently holds.
type StoreMetadata struct {
	Total       int       `json:"total"`
	LastUpdated time.Time `json:"last_updated"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999-07:00Z",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads the API's ISO-8601 variants and returns the zero time
// when none match. The backend appends "Z" to offsets that are already
// present, and some sources send naive UTC times.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Float and Int are helpers for building optional fields.
func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
