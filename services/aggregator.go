package services

import (
	"context"
	"time"

	"housing-manager/models"
	"housing-manager/utils"
)

// Scraper is any producer of listings for one property management company.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) (*models.ScrapeResult, error)
}

// Aggregator runs several scrapers concurrently and merges their results.
type Aggregator struct {
	logger         *utils.Logger
	maxConcurrency int
	rateLimitMs    int
	now            func() time.Time
}

// NewAggregator creates an Aggregator running at most maxConcurrency
// scrapers at a time, spaced by rateLimitMs.
func NewAggregator(logger *utils.Logger, maxConcurrency, rateLimitMs int) *Aggregator {
	return &Aggregator{
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ScrapeAll runs every scraper and returns the combined feed. A failing
// scraper contributes no listings but does not fail the run. Listings keep
// scraper order, and those without a source are attributed to their scraper.
func (a *Aggregator) ScrapeAll(ctx context.Context, scrapers []Scraper) *models.ScrapeResult {
	results := make([]*models.ScrapeResult, len(scrapers))
	pool := utils.NewWorkerPool(a.maxConcurrency, a.rateLimitMs)

	for i, s := range scrapers {
		i, s := i, s
		pool.Submit(func() {
			if ctx.Err() != nil {
				a.logger.Warn("[aggregator] Skipping %s: %v", s.Name(), ctx.Err())
				return
			}
			res, err := s.Scrape(ctx)
			if err != nil {
				a.logger.Error("[aggregator] Scraper %s failed: %v", s.Name(), err)
				return
			}
			results[i] = res
		})
	}
	pool.Wait()

	merged := &models.ScrapeResult{
		Listings: make([]*models.Listing, 0),
		Sources:  make([]string, 0, len(scrapers)),
	}
	for i, s := range scrapers {
		merged.Sources = append(merged.Sources, s.Name())
		res := results[i]
		if res == nil {
			continue
		}
		for _, l := range res.Listings {
			if l == nil {
				continue
			}
			if l.Source == "" {
				l.Source = firstNonEmpty(res.Source, s.Name())
			}
			merged.Listings = append(merged.Listings, l)
		}
		if res.ScrapedAt.After(merged.ScrapedAt) {
			merged.ScrapedAt = res.ScrapedAt
		}
		a.logger.Info("[aggregator] %s: %d listings", s.Name(), len(res.Listings))
	}

	if merged.ScrapedAt.IsZero() {
		merged.ScrapedAt = a.now()
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "unknown"
}
