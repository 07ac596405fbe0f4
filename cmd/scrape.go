package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"housing-manager/services"
	"housing-manager/storage"
)

func init() {
	scrapeFilters.register(scrapeCmd)
	scrapeOutput.register(scrapeCmd)
	scrapeCmd.Flags().StringSliceVar(&scrapeSources, "source", nil, "local scrapers to run: meridian, sierra (default all)")
	scrapeCmd.Flags().BoolVar(&scrapeStore, "store", false, "upsert the scraped listings into PostgreSQL")
	rootCmd.AddCommand(scrapeCmd)
}

var (
	scrapeFilters filterFlags
	scrapeOutput  outputFlags
	scrapeSources []string
	scrapeStore   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes property management sites directly from this machine.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scrapers, err := localScrapers(scrapeSources)
		if err != nil {
			return err
		}

		logger.Info("=== Scraping %d sources | concurrency: %d | rate: %dms ===",
			len(scrapers), cfg.MaxConcurrency, cfg.RateLimitMs)

		res := services.NewAggregator(logger, cfg.MaxConcurrency, cfg.RateLimitMs).
			ScrapeAll(cmd.Context(), scrapers)
		if len(res.Listings) == 0 {
			return fmt.Errorf("no listings were scraped")
		}

		if scrapeStore {
			store, err := storage.NewPostgresStore(cmd.Context(), cfg.DSN())
			if err != nil {
				logger.Error("Make sure PostgreSQL is running: docker compose up -d")
				return err
			}
			defer store.Close()

			for _, source := range res.Sources {
				batch := listingsFrom(res.Listings, source)
				if err := store.Upsert(cmd.Context(), source, batch); err != nil {
					logger.Error("PostgreSQL write failed for %s: %v", source, err)
					continue
				}
				logger.Info("Stored %d %s listings in PostgreSQL", len(batch), source)
			}
		}

		return present(cmd.OutOrStdout(), res.Listings, &scrapeFilters, &scrapeOutput)
	},
}
