package meridian

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"housing-manager/config"
	"housing-manager/models"
	"housing-manager/services"
	"housing-manager/utils"
)

const (
	source     = "meridian"
	baseURL    = "https://meridiangrouprem.com"
	rentalsURL = baseURL + "/available-rentals/"
)

// Scraper reads the Meridian Group available-rentals page in headless Chrome.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	retry   *utils.RetryConfig
	cleaner *services.Cleaner
	pageURL string
}

// New creates a ready-to-use Meridian Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		cleaner: services.NewCleaner(logger),
		pageURL: rentalsURL,
	}
}

func (s *Scraper) Name() string { return source }

// card mirrors the object built by extractCardsJS.
type card struct {
	Link      string `json:"link"`
	Address   string `json:"address"`
	Location  string `json:"location"`
	Price     string `json:"price"`
	BedsBaths string `json:"bedsBaths"`
}

const extractCardsJS = `
(function() {
	var out = [];
	var cards = document.querySelectorAll('.prop-list');
	for (var i = 0; i < cards.length; i++) {
		var el = cards[i];
		var text = function(sel) {
			var n = el.querySelector(sel);
			return n ? n.innerText.trim() : '';
		};
		var link = el.querySelector('a[href]');
		out.push({
			link:      link ? link.getAttribute('href') : '',
			address:   text('.prop-details h3') || 'Unknown',
			location:  text('.prop-details > p'),
			price:     text('.two-item-wrap p:first-child'),
			bedsBaths: text('.two-item-wrap p:last-child')
		});
	}
	return out;
})()
`

// Scrape loads the rentals page and returns the cleaned listings.
func (s *Scraper) Scrape(ctx context.Context) (*models.ScrapeResult, error) {
	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[meridian] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var cards []card
	err := s.retry.Do(ctx, "meridian-rentals", func() error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		cards = nil
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(s.pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(extractCardsJS, &cards),
		); err != nil {
			return fmt.Errorf("chromedp rentals page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("meridian: %w", err)
	}

	scrapedAt := time.Now().UTC()
	s.logger.Debug("[meridian] Found %d cards", len(cards))

	return &models.ScrapeResult{
		Listings:  s.cleaner.Clean(toRaw(cards, scrapedAt)),
		ScrapedAt: scrapedAt,
		Source:    source,
	}, nil
}

func toRaw(cards []card, scrapedAt time.Time) []*models.RawListing {
	raw := make([]*models.RawListing, 0, len(cards))
	for _, c := range cards {
		address := c.Address
		if c.Location != "" {
			address = c.Address + ", " + c.Location
		}
		raw = append(raw, &models.RawListing{
			Source:    source,
			Address:   address,
			PriceText: c.Price,
			BedsText:  c.BedsBaths,
			BathsText: c.BedsBaths,
			URL:       absoluteURL(c.Link),
			ScrapedAt: scrapedAt,
		})
	}
	return raw
}

func absoluteURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	default:
		return baseURL + href
	}
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
