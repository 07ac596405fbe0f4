package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"housing-manager/models"
	"housing-manager/utils"
)

const defaultCategory = "Residential"

var (
	// priceRegexp captures the first amount, thousands separators allowed
	priceRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

	studioRegexp = regexp.MustCompile(`(?i)\bstudio\b`)

	bedroomsRegexp = regexp.MustCompile(`(?i)(\d+)\s*(?:bedrooms?|beds?|br|bd)\b`)

	// bathroomsRegexp allows half baths such as "1.5 ba"
	bathroomsRegexp = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bathrooms?|baths?|ba)\b`)

	sqftRegexp = regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:sq\.?\s*ft\.?|sqft|square\s+feet|sf)\b`)

	commercialRegexp = regexp.MustCompile(`(?i)office|commercial`)
	storageRegexp    = regexp.MustCompile(`(?i)storage`)
)

// Cleaner transforms RawListings into clean, typed Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean parses raw card text into listings. Cards without an address are
// dropped, and only the first card per source and address is kept.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewKeySet()
	result := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		address := normaliseText(r.Address)
		if address == "" {
			c.logger.Warn("[cleaner] Dropping %s listing with empty address: %s", r.Source, r.URL)
			continue
		}

		source := normaliseSource(r.Source)
		if !seen.Add(utils.ListingKey(source, address)) {
			c.logger.Debug("[cleaner] Duplicate listing skipped: %s (%s)", address, source)
			continue
		}

		scrapedAt := r.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = time.Now().UTC()
		}

		result = append(result, &models.Listing{
			Address:    address,
			Source:     source,
			Price:      parsePrice(r.PriceText),
			Bedrooms:   parseBedrooms(r.BedsText),
			Bathrooms:  parseBathrooms(r.BathsText),
			SquareFeet: parseSquareFeet(r.SqftText),
			Category:   parseCategory(r.CategoryHint + " " + r.BedsText),
			MoveInDate: normaliseText(r.MoveInDate),
			URL:        strings.TrimSpace(r.URL),
			ScrapedAt:  scrapedAt,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts a monthly rent.
// Examples:
//
//	"$2,450/mo" → 2450
//	"Starting at $1,100.50" → 1100.5
//	"Call for pricing" → nil
func parsePrice(raw string) *float64 {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return nil
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || price <= 0 {
		return nil
	}
	return &price
}

// parseBedrooms reads "Studio" as 0, "3 Bed" / "2 bedrooms" / "1BR" as the
// count, and a bare integer (data attributes) as is.
func parseBedrooms(raw string) *int {
	if studioRegexp.MatchString(raw) {
		zero := 0
		return &zero
	}
	if m := bedroomsRegexp.FindStringSubmatch(raw); len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
		return &n
	}
	return nil
}

func parseBathrooms(raw string) *float64 {
	if m := bathroomsRegexp.FindStringSubmatch(raw); len(m) == 2 {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &f
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f >= 0 {
		return &f
	}
	return nil
}

// parseSquareFeet only accepts positive sizes.
func parseSquareFeet(raw string) *int {
	text := strings.TrimSpace(raw)
	if m := sqftRegexp.FindStringSubmatch(text); len(m) == 2 {
		text = m[1]
	}
	n, err := strconv.Atoi(strings.ReplaceAll(text, ",", ""))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func parseCategory(raw string) string {
	switch {
	case commercialRegexp.MatchString(raw):
		return "Commercial"
	case storageRegexp.MatchString(raw):
		return "Storage"
	default:
		return defaultCategory
	}
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

func normaliseSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
