package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"housing-manager/config"
	"housing-manager/scraper/meridian"
	"housing-manager/scraper/remote"
	"housing-manager/scraper/sierra"
	"housing-manager/services"
	"housing-manager/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:           "housing",
	Short:         "housing aggregates rental listings from Isla Vista property managers.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger = newCLILogger(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
}

// newCLILogger logs to w, keeping stdout for tables and summaries.
func newCLILogger(w io.Writer, level string) *utils.Logger {
	l := utils.NewLogger()
	l.SetOutput(w)
	l.SetLevel(level)
	return l
}

// Execute runs the CLI until the command finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRemoteClient() *remote.Client {
	return remote.NewClient(cfg.APIURL, cfg.RequestTimeout(), cfg.MaxRetries, logger)
}

// localScrapers returns the in-process scrapers matching names, or all of
// them when names is empty.
func localScrapers(names []string) ([]services.Scraper, error) {
	available := map[string]func() services.Scraper{
		"meridian": func() services.Scraper { return meridian.New(cfg, logger) },
		"sierra":   func() services.Scraper { return sierra.New(cfg, logger) },
	}
	order := []string{"meridian", "sierra"}

	if len(names) == 0 || (len(names) == 1 && names[0] == remote.AllSources) {
		names = order
	}

	scrapers := make([]services.Scraper, 0, len(names))
	for _, name := range names {
		build, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unknown local scraper %q (have %v)", name, order)
		}
		scrapers = append(scrapers, build())
	}
	return scrapers, nil
}
