package services

import (
	"context"
	"time"

	"housing-manager/models"
	"housing-manager/utils"
)

const defaultScrapeInterval = 12 * time.Hour

// ListingStore persists one source's listings, replacing earlier values for
// the same address.
type ListingStore interface {
	Upsert(ctx context.Context, source string, listings []*models.Listing) error
}

// Scheduler refreshes a ListingStore from a fixed set of scrapers.
type Scheduler struct {
	logger   *utils.Logger
	store    ListingStore
	scrapers []Scraper
	interval time.Duration
}

func NewScheduler(logger *utils.Logger, store ListingStore, scrapers []Scraper, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultScrapeInterval
	}
	return &Scheduler{
		logger:   logger,
		store:    store,
		scrapers: scrapers,
		interval: interval,
	}
}

// RunOnce scrapes each source in turn and upserts its listings. Scrapers run
// one at a time since each may drive its own browser. It returns the number
// of listings stored.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.logger.Info("[scheduler] Starting scrape run")
	stored := 0
	for _, sc := range s.scrapers {
		if ctx.Err() != nil {
			s.logger.Warn("[scheduler] Run interrupted: %v", ctx.Err())
			break
		}

		s.logger.Info("[scheduler] Scraping %s...", sc.Name())
		res, err := sc.Scrape(ctx)
		if err != nil {
			s.logger.Error("[scheduler] %s failed: %v", sc.Name(), err)
			continue
		}

		listings := res.Listings
		for _, l := range listings {
			if l != nil && l.Source == "" {
				l.Source = sc.Name()
			}
		}
		if err := s.store.Upsert(ctx, sc.Name(), listings); err != nil {
			s.logger.Error("[scheduler] %s: store failed: %v", sc.Name(), err)
			continue
		}
		stored += len(listings)
		s.logger.Info("[scheduler] %s: upserted %d listings", sc.Name(), len(listings))
	}
	s.logger.Info("[scheduler] Scrape run complete, %d listings stored", stored)
	return stored
}

// Run calls RunOnce immediately and then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
