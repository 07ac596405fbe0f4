package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"housing-manager/models"
	"housing-manager/services"
)

func renderListings(w io.Writer, listings []*models.Listing) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Source", "Address", "Rent", "Beds", "Baths", "Sq Ft", "Category", "Link"})

	for _, l := range listings {
		t.AppendRow(table.Row{
			l.Source,
			l.Address,
			rentCell(l.Price),
			services.BedroomLabel(l.Bedrooms),
			floatCell(l.Bathrooms),
			intCell(l.SquareFeet),
			l.Category,
			l.URL,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d listings", len(listings))})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderScrapers(w io.Writer, scrapers []models.ScraperInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Site", "Endpoint"})
	for _, s := range scrapers {
		t.AppendRow(table.Row{s.ID, s.Name, s.URL, s.Endpoint})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func rentCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return "$" + strconv.FormatFloat(*v, 'f', -1, 64)
}

func floatCell(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("Jan 2 2006 15:04")
}
