package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"housing-manager/models"
	"housing-manager/scraper/remote"
	"housing-manager/services"
)

func init() {
	fetchFilters.register(fetchCmd)
	fetchOutput.register(fetchCmd)
	fetchCmd.Flags().StringSliceVar(&fetchSources, "source", []string{remote.AllSources}, "scrapers to run on the API (repeatable, or \"all\")")
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(scrapersCmd)
}

var (
	fetchFilters filterFlags
	fetchOutput  outputFlags
	fetchSources []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Runs a live scrape on the API and filters the returned listings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newRemoteClient()

		var (
			res *models.ScrapeResult
			err error
		)
		if len(fetchSources) == 1 {
			res, err = client.Scrape(cmd.Context(), fetchSources[0])
			if err != nil {
				return fmt.Errorf("failed to load listings: %w", err)
			}
		} else {
			scrapers := make([]services.Scraper, 0, len(fetchSources))
			for _, id := range fetchSources {
				scrapers = append(scrapers, remote.NewSource(client, id))
			}
			res = services.NewAggregator(logger, cfg.MaxConcurrency, cfg.RateLimitMs).
				ScrapeAll(cmd.Context(), scrapers)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Last updated: %s\n", formatUpdated(res.ScrapedAt))
		return present(cmd.OutOrStdout(), res.Listings, &fetchFilters, &fetchOutput)
	},
}

var scrapersCmd = &cobra.Command{
	Use:   "scrapers",
	Short: "Lists the scrapers offered by the API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scrapers, err := newRemoteClient().Scrapers(cmd.Context())
		if err != nil {
			return err
		}
		renderScrapers(cmd.OutOrStdout(), scrapers)
		return nil
	},
}
