package cmd

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"housing-manager/config"
	"housing-manager/models"
	"housing-manager/services"
	"housing-manager/utils"
)

func setupGlobals(t *testing.T) {
	t.Helper()
	cfg = &config.Config{MaxRetries: 1, RequestTimeoutSec: 5, MaxConcurrency: 2}
	logger = utils.NewLogger()
	logger.SetOutput(io.Discard)
}

func fixtures() []*models.Listing {
	return []*models.Listing{
		{Source: "meridian", Address: "6500 Del Playa", Price: models.Float(2400), Bedrooms: models.Int(2), Bathrooms: models.Float(1), Category: "Residential"},
		{Source: "solis", Address: "6626 Picasso", Price: models.Float(1650), Bedrooms: models.Int(0), SquareFeet: models.Int(400), Category: "Residential"},
		{Source: "meridian", Address: "Pardall Office", Category: "Commercial"},
	}
}

func TestRenderListings(t *testing.T) {
	var buf bytes.Buffer
	renderListings(&buf, fixtures())
	out := strings.ToLower(buf.String())

	for _, want := range []string{"6500 del playa", "$2400", "studio", "n/a", "3 listings"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPresentFiltersAndExports(t *testing.T) {
	setupGlobals(t)

	filters := &filterFlags{in: servicesInput("2000", "Residential")}
	path := filepath.Join(t.TempDir(), "out.csv")
	out := &outputFlags{csvPath: path}

	var buf bytes.Buffer
	require.NoError(t, present(&buf, fixtures(), filters, out))

	if strings.Contains(buf.String(), "6626 Picasso") {
		t.Errorf("listing under the price floor should be filtered out:\n%s", buf.String())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one listing")
	if rows[1][1] != "6500 Del Playa" {
		t.Errorf("exported row: %v", rows[1])
	}
}

func TestListingsFrom(t *testing.T) {
	got := listingsFrom(fixtures(), "Meridian")
	addrs := make([]string, 0, len(got))
	for _, l := range got {
		addrs = append(addrs, l.Address)
	}
	if diff := cmp.Diff([]string{"6500 Del Playa", "Pardall Office"}, addrs); diff != "" {
		t.Errorf("listingsFrom (-want +got):\n%s", diff)
	}
}

func TestLocalScrapers(t *testing.T) {
	setupGlobals(t)

	all, err := localScrapers(nil)
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name())
	}
	if diff := cmp.Diff([]string{"meridian", "sierra"}, names); diff != "" {
		t.Errorf("default scrapers (-want +got):\n%s", diff)
	}

	one, err := localScrapers([]string{"sierra"})
	require.NoError(t, err)
	require.Len(t, one, 1)

	if _, err := localScrapers([]string{"zillow"}); err == nil {
		t.Error("unknown scraper should be rejected")
	}
}

func servicesInput(priceMin, category string) services.FilterInput {
	return services.FilterInput{PriceMin: priceMin, Categories: []string{category}}
}

func TestLogsStayOffStdout(t *testing.T) {
	setupGlobals(t)

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	logger = newCLILogger(cmd.ErrOrStderr(), "info")

	filters := &filterFlags{in: servicesInput("1000", "Residential")}
	out := &outputFlags{csvPath: filepath.Join(t.TempDir(), "listings.csv")}

	require.NoError(t, present(cmd.OutOrStdout(), fixtures(), filters, out))

	require.Contains(t, stderr.String(), "[filter] Kept")
	require.Contains(t, stderr.String(), "[csv] Wrote")
	require.NotContains(t, stdout.String(), "[filter]")
	require.NotContains(t, stdout.String(), "[csv]")
	require.Contains(t, strings.ToLower(stdout.String()), "6500 del playa")
}
