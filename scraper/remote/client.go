// Package remote talks to the housing scrape API, the backend that runs the
// per-company scrapers and keeps the listing database.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"housing-manager/models"
	"housing-manager/utils"
)

// AllSources is the scraper id of the combined feed.
const AllSources = "all"

// ErrHTTPStatus wraps every non-2xx response.
var ErrHTTPStatus = errors.New("remote: unexpected HTTP status")

// StatusError carries the status code and the API's detail message.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }

// StoredListings is the GET /listings payload.
type StoredListings struct {
	Listings    []*models.Listing
	LastUpdated time.Time
	Total       int
	Sources     []string
}

// Client is a scrape API client.
type Client struct {
	http   *resty.Client
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, logger *utils.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Scrapers lists the scrapers the API offers.
func (c *Client) Scrapers(ctx context.Context) ([]models.ScraperInfo, error) {
	var out struct {
		Scrapers []models.ScraperInfo `json:"scrapers"`
	}
	if err := c.get(ctx, "/scrapers", &out); err != nil {
		return nil, err
	}
	return out.Scrapers, nil
}

// Scrape triggers a live scrape of one company, or of all of them with
// AllSources.
func (c *Client) Scrape(ctx context.Context, id string) (*models.ScrapeResult, error) {
	var out models.ScrapeResult
	if err := c.get(ctx, "/scrape/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	if out.Listings == nil {
		out.Listings = make([]*models.Listing, 0)
	}
	if out.Source == "" && id != AllSources {
		out.Source = id
	}
	c.logger.Debug("[remote] /scrape/%s returned %d listings", id, len(out.Listings))
	return &out, nil
}

// Listings returns the listings the API has stored from scheduled runs.
func (c *Client) Listings(ctx context.Context) (*StoredListings, error) {
	var out struct {
		Listings    []*models.Listing `json:"listings"`
		LastUpdated *string           `json:"last_updated"`
		Total       int               `json:"total"`
		Sources     []string          `json:"sources"`
	}
	if err := c.get(ctx, "/listings", &out); err != nil {
		return nil, err
	}

	stored := &StoredListings{
		Listings: out.Listings,
		Total:    out.Total,
		Sources:  out.Sources,
	}
	if stored.Listings == nil {
		stored.Listings = make([]*models.Listing, 0)
	}
	if out.LastUpdated != nil {
		stored.LastUpdated = models.ParseTimestamp(*out.LastUpdated)
	}
	return stored, nil
}

// Refresh asks the API to re-scrape every company into its database.
func (c *Client) Refresh(ctx context.Context) (*models.StoreMetadata, error) {
	var out struct {
		Total       int     `json:"total"`
		LastUpdated *string `json:"last_updated"`
	}
	res, err := c.http.R().SetContext(ctx).Post("/listings/refresh")
	if err != nil {
		return nil, fmt.Errorf("remote: POST /listings/refresh: %w", err)
	}
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("remote: POST /listings/refresh: %w", err)
	}

	meta := &models.StoreMetadata{Total: out.Total}
	if out.LastUpdated != nil {
		meta.LastUpdated = models.ParseTimestamp(*out.LastUpdated)
	}
	return meta, nil
}

// get performs a GET with retries. Client errors (4xx) are not retried.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var permanent error
	err := c.retry.Do(ctx, "GET "+path, func() error {
		res, err := c.http.R().SetContext(ctx).Get(path)
		if err != nil {
			return err
		}
		err = decode(res, out)
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		err = permanent
	}
	if err != nil {
		return fmt.Errorf("remote: GET %s: %w", path, err)
	}
	return nil
}

func decode(res *resty.Response, out interface{}) error {
	if res.IsError() {
		var body struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(res.Body(), &body)
		return &StatusError{Code: res.StatusCode(), Detail: body.Detail}
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Source exposes one remote scraper as a services.Scraper.
type Source struct {
	client *Client
	id     string
}

func NewSource(client *Client, id string) *Source {
	return &Source{client: client, id: id}
}

func (s *Source) Name() string { return s.id }

func (s *Source) Scrape(ctx context.Context) (*models.ScrapeResult, error) {
	return s.client.Scrape(ctx, s.id)
}
