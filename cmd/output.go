package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"housing-manager/models"
	"housing-manager/services"
	"housing-manager/storage"
)

// outputFlags are shared by every command that prints listings.
type outputFlags struct {
	csvPath string
	summary bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "also export the filtered listings to this CSV file")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "print price and source insights")
}

// present filters listings and writes them out as a table, then the optional
// summary and CSV export.
func present(w io.Writer, listings []*models.Listing, filters *filterFlags, out *outputFlags) error {
	filtered := services.FilterListings(listings, filters.spec())
	if filters.active() {
		logger.Info("[filter] Kept %d of %d listings", len(filtered), len(listings))
	}

	renderListings(w, filtered)

	if out.summary {
		insights := services.NewInsightService(logger)
		insights.Print(w, insights.Generate(filtered))
	}

	if out.csvPath != "" {
		if err := exportCSV(out.csvPath, filtered); err != nil {
			return err
		}
		logger.Info("[csv] Wrote %d listings to %s", len(filtered), out.csvPath)
	}
	return nil
}

func exportCSV(path string, listings []*models.Listing) error {
	writer, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := writer.Write(listings); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("csv: close: %w", err)
	}
	return nil
}
