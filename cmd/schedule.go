package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"housing-manager/services"
	"housing-manager/storage"
)

func init() {
	scheduleCmd.Flags().StringSliceVar(&scheduleSources, "source", nil, "local scrapers to run: meridian, sierra (default all)")
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "once", false, "run a single pass and exit")
	rootCmd.AddCommand(scheduleCmd)
}

var _ services.ListingStore = (*storage.PostgresStore)(nil)

var (
	scheduleSources []string
	scheduleOnce    bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scrapes every source into PostgreSQL on SCRAPE_INTERVAL_HOURS.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scrapers, err := localScrapers(scheduleSources)
		if err != nil {
			return err
		}

		store, err := storage.NewPostgresStore(cmd.Context(), cfg.DSN())
		if err != nil {
			return err
		}
		defer store.Close()

		sched := services.NewScheduler(logger, store, scrapers, cfg.ScrapeInterval())
		if scheduleOnce {
			sched.RunOnce(cmd.Context())
			return nil
		}

		logger.Info("[scheduler] Running every %v until interrupted", cfg.ScrapeInterval())
		if err := sched.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
