package services

import (
	"math"
	"strconv"
	"strings"
)

// FilterInput is the raw text of the filter controls, as typed into a form
// or passed on the command line.
type FilterInput struct {
	PriceMin     string
	PriceMax     string
	Bedrooms     string // any, studio, 1, 2, 3, 4+
	BedroomsMin  string
	BedroomsMax  string
	BathroomsMin string
	SqftMin      string
	SqftMax      string
	Categories   []string
	Sources      []string
	Strict       bool
}

// Active reports whether any control holds a constraint.
func (in FilterInput) Active() bool {
	for _, s := range []string{
		in.PriceMin, in.PriceMax, in.BedroomsMin, in.BedroomsMax,
		in.BathroomsMin, in.SqftMin, in.SqftMax,
	} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	if b := strings.ToLower(strings.TrimSpace(in.Bedrooms)); b != "" && b != "any" {
		return true
	}
	return len(cleanList(in.Categories)) > 0 || len(cleanList(in.Sources)) > 0
}

// NewFilterSpec builds a fresh FilterSpec from raw input. Malformed numbers
// become unbounded. An explicit bedroom choice wins over min/max bounds.
func NewFilterSpec(in FilterInput) FilterSpec {
	spec := FilterSpec{
		Price: FloatRange{
			Min: ParseFloatBound(in.PriceMin),
			Max: ParseFloatBound(in.PriceMax),
		},
		Bedrooms: IntRange{
			Min: ParseIntBound(in.BedroomsMin),
			Max: ParseIntBound(in.BedroomsMax),
		},
		BathroomsMin: ParseFloatBound(in.BathroomsMin),
		SquareFeet: IntRange{
			Min: ParseIntBound(in.SqftMin),
			Max: ParseIntBound(in.SqftMax),
		},
		Categories: cleanList(in.Categories),
		Sources:    cleanList(in.Sources),
		Nulls:      LenientNulls(),
	}
	if in.Strict {
		spec.Nulls = StrictNulls()
	}

	if choice := ParseBedroomChoice(in.Bedrooms); choice.Min != nil || choice.Max != nil {
		spec.Bedrooms = choice
	}
	return spec
}

// ParseFloatBound turns a text bound into a number. Blank, malformed, NaN
// and infinite input yield nil.
func ParseFloatBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseIntBound turns a text bound into an integer. Anything but a plain
// integer yields nil.
func ParseIntBound(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseBedroomChoice maps the bedroom selector onto a range: studio is
// exactly 0, "4+" is at least 4 and a number N is exactly N.
func ParseBedroomChoice(choice string) IntRange {
	choice = strings.ToLower(strings.TrimSpace(choice))
	switch choice {
	case "", "any":
		return IntRange{}
	case "studio":
		zero := 0
		return IntRange{Min: &zero, Max: &zero}
	}

	if strings.HasSuffix(choice, "+") {
		if n := ParseIntBound(strings.TrimSuffix(choice, "+")); n != nil && *n >= 0 {
			return IntRange{Min: n}
		}
		return IntRange{}
	}

	n := ParseIntBound(choice)
	if n == nil || *n < 0 {
		return IntRange{}
	}
	exact := *n
	return IntRange{Min: n, Max: &exact}
}

// cleanList trims entries, drops blanks and removes duplicates, keeping the
// first occurrence.
func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
