package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"

	"housing-manager/models"
	"housing-manager/utils"
)

// InsightReport holds summary figures over a set of listings.
type InsightReport struct {
	TotalListings  int
	UnknownPrice   int
	AveragePrice   float64
	Bounds         PriceRange
	Cheapest       *models.Listing
	MostExpensive  *models.Listing
	Categories     []string
	BySource       map[string]int
	ByBedroomCount map[string]int
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *InsightReport {
	report := &InsightReport{
		Bounds:         PriceBounds(listings),
		Categories:     UniqueCategories(listings),
		BySource:       make(map[string]int),
		ByBedroomCount: make(map[string]int),
	}

	var total float64
	priced := 0
	for _, l := range listings {
		if l == nil {
			continue
		}
		report.TotalListings++
		report.BySource[l.Source]++
		report.ByBedroomCount[BedroomLabel(l.Bedrooms)]++

		if l.Price == nil {
			report.UnknownPrice++
			continue
		}
		priced++
		total += *l.Price
		if report.Cheapest == nil || *l.Price < *report.Cheapest.Price {
			report.Cheapest = l
		}
		if report.MostExpensive == nil || *l.Price > *report.MostExpensive.Price {
			report.MostExpensive = l
		}
	}

	if priced > 0 {
		report.AveragePrice = round2(total / float64(priced))
	}

	s.logger.Debug("[insights] %d listings, %d without price, %d sources",
		report.TotalListings, report.UnknownPrice, len(report.BySource))
	return report
}

// BedroomLabel renders a bedroom count the way the listing cards do.
func BedroomLabel(beds *int) string {
	switch {
	case beds == nil:
		return "unknown"
	case *beds == 0:
		return "studio"
	case *beds == 1:
		return "1 bed"
	default:
		return fmt.Sprintf("%d beds", *beds)
	}
}

func (s *InsightService) Print(w io.Writer, r *InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  HOUSING LISTING INSIGHTS\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings   : %d\n", r.TotalListings)
	fmt.Fprintf(w, "  Without a price  : %d\n", r.UnknownPrice)
	if len(r.Categories) > 0 {
		fmt.Fprintf(w, "  Categories       : %s\n", strings.Join(r.Categories, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Monthly Rent\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Cheapest == nil {
		fmt.Fprintf(w, "  No price data available\n")
	} else {
		fmt.Fprintf(w, "  Average : $%.2f\n", r.AveragePrice)
		fmt.Fprintf(w, "  Lowest  : $%.2f  %s\n", r.Bounds.Min, truncate(r.Cheapest.Address, 36))
		fmt.Fprintf(w, "  Highest : $%.2f  %s\n", r.Bounds.Max, truncate(r.MostExpensive.Address, 36))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Listings by Source\n")
	fmt.Fprintf(w, "  %s\n", thin)
	printCounts(w, r.BySource)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Listings by Bedrooms\n")
	fmt.Fprintf(w, "  %s\n", thin)
	printCounts(w, r.ByBedroomCount)

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

func printCounts(w io.Writer, counts map[string]int) {
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n")
		return
	}
	type labelCount struct {
		label string
		count int
	}
	rows := make([]labelCount, 0, len(counts))
	for label, cnt := range counts {
		rows = append(rows, labelCount{label, cnt})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].label < rows[j].label
	})
	for _, lc := range rows {
		bar := strings.Repeat("█", lc.count)
		fmt.Fprintf(w, "  %-22s %s (%d)\n", truncate(lc.label, 20), bar, lc.count)
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes, ending in "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return text.Trim(s, max-3) + "..."
}
