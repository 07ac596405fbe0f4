package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"housing-manager/models"
	"housing-manager/storage"
)

func init() {
	listingsFilters.register(listingsCmd)
	listingsOutput.register(listingsCmd)
	listingsCmd.Flags().BoolVar(&listingsRemote, "remote", false, "read the API's stored listings instead of the local database")
	rootCmd.AddCommand(listingsCmd)
	rootCmd.AddCommand(refreshCmd)
}

var (
	listingsFilters filterFlags
	listingsOutput  outputFlags
	listingsRemote  bool
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Filters previously scraped listings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			listings []*models.Listing
			updated  string
		)

		if listingsRemote {
			stored, err := newRemoteClient().Listings(cmd.Context())
			if err != nil {
				return err
			}
			listings = stored.Listings
			updated = formatUpdated(stored.LastUpdated)
		} else {
			store, err := storage.NewPostgresStore(cmd.Context(), cfg.DSN())
			if err != nil {
				return err
			}
			defer store.Close()

			var reader storage.ListingReader = store
			if listings, err = reader.FetchAll(cmd.Context()); err != nil {
				return err
			}
			meta, err := reader.Metadata(cmd.Context())
			if err != nil {
				return err
			}
			updated = formatUpdated(meta.LastUpdated)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Last updated: %s\n", updated)
		return present(cmd.OutOrStdout(), listings, &listingsFilters, &listingsOutput)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Asks the API to re-scrape every company into its database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := newRemoteClient().Refresh(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed: %d listings, last updated %s\n",
			meta.Total, formatUpdated(meta.LastUpdated))
		return nil
	},
}

// listingsFrom returns the listings attributed to source.
func listingsFrom(listings []*models.Listing, source string) []*models.Listing {
	out := make([]*models.Listing, 0)
	for _, l := range listings {
		if l != nil && strings.EqualFold(l.Source, source) {
			out = append(out, l)
		}
	}
	return out
}
