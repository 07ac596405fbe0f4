package sierra

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"housing-manager/config"
	"housing-manager/models"
	"housing-manager/services"
	"housing-manager/utils"
)

const (
	source      = "sierra"
	defaultBase = "https://sierrapropsb.com"
	listingPath = "/student-housing/"
)

// Scraper reads Sierra Property Management's student housing page. The
// listing data lives in data-* attributes, so plain HTTP is enough.
type Scraper struct {
	http    *resty.Client
	logger  *utils.Logger
	retry   *utils.RetryConfig
	cleaner *services.Cleaner
	baseURL string
}

// New creates a Scraper against the live site.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return NewWithBaseURL(cfg, logger, defaultBase)
}

// NewWithBaseURL points the scraper at another host, such as a test server.
func NewWithBaseURL(cfg *config.Config, logger *utils.Logger, baseURL string) *Scraper {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout()).
		SetHeader("User-Agent", "Mozilla/5.0")

	return &Scraper{
		http:   client,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		cleaner: services.NewCleaner(logger),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Scraper) Name() string { return source }

// Scrape fetches the listing page and returns the cleaned listings.
func (s *Scraper) Scrape(ctx context.Context) (*models.ScrapeResult, error) {
	var body []byte
	err := s.retry.Do(ctx, "sierra-student-housing", func() error {
		res, err := s.http.R().SetContext(ctx).Get(listingPath)
		if err != nil {
			return err
		}
		if res.IsError() {
			return fmt.Errorf("HTTP %d", res.StatusCode())
		}
		body = res.Body()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sierra: %w", err)
	}

	scrapedAt := time.Now().UTC()
	raw, err := s.parse(body, scrapedAt)
	if err != nil {
		return nil, fmt.Errorf("sierra: parse: %w", err)
	}
	s.logger.Debug("[sierra] Found %d listing wrappers", len(raw))

	return &models.ScrapeResult{
		Listings:  s.cleaner.Clean(raw),
		ScrapedAt: scrapedAt,
		Source:    source,
	}, nil
}

func (s *Scraper) parse(body []byte, scrapedAt time.Time) ([]*models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var raw []*models.RawListing
	doc.Find("div.rmwb_listing-wrapper").Each(func(_ int, sel *goquery.Selection) {
		address := attr(sel, "data-address")
		if address == "" {
			address = attr(sel, "data-propertyname")
		}

		var available string
		sel.Find("li").Each(func(_ int, li *goquery.Selection) {
			if strings.Contains(li.Find(".rmwb_info-title").Text(), "Available") {
				available = strings.TrimSpace(li.Find(".rmwb_info-detail").Text())
			}
		})

		link := ""
		if href, ok := sel.Find("a.more-details").Attr("href"); ok {
			link = s.absolute(href)
		}

		raw = append(raw, &models.RawListing{
			Source:       source,
			Address:      address,
			PriceText:    attr(sel, "data-rent"),
			BedsText:     attr(sel, "data-bedrooms"),
			BathsText:    attr(sel, "data-bathrooms"),
			SqftText:     attr(sel, "data-sqft"),
			CategoryHint: attr(sel, "data-propertytype"),
			MoveInDate:   available,
			URL:          link,
			ScrapedAt:    scrapedAt,
		})
	})
	return raw, nil
}

func (s *Scraper) absolute(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.baseURL + "/" + strings.TrimLeft(href, "/")
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}
