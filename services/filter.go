package services

import (
	"math"
	"strings"

	"housing-manager/models"
)

// NullPolicy decides what happens to a listing whose field is unknown when a
// bound on that field is active.
type NullPolicy int

const (
	// NullDefault uses the group's default: unknown passes for price,
	// bedrooms and bathrooms, and fails for square feet.
	NullDefault NullPolicy = iota
	// NullPasses skips the bound for unknown values (vacuous pass).
	NullPasses
	// NullFails excludes listings with an unknown value.
	NullFails
)

func (p NullPolicy) String() string {
	switch p {
	case NullPasses:
		return "pass"
	case NullFails:
		return "fail"
	}
	return "default"
}

func (p NullPolicy) or(fallback NullPolicy) NullPolicy {
	if p == NullDefault {
		return fallback
	}
	return p
}

// NullPolicies holds one policy per numeric filter group. The zero value
// behaves like LenientNulls.
type NullPolicies struct {
	Price      NullPolicy
	Bedrooms   NullPolicy
	Bathrooms  NullPolicy
	SquareFeet NullPolicy
}

// resolved replaces NullDefault with each group's concrete policy.
func (n NullPolicies) resolved() NullPolicies {
	return NullPolicies{
		Price:      n.Price.or(NullPasses),
		Bedrooms:   n.Bedrooms.or(NullPasses),
		Bathrooms:  n.Bathrooms.or(NullPasses),
		SquareFeet: n.SquareFeet.or(NullFails),
	}
}

// LenientNulls lets unknown price, bedrooms and bathrooms through their
// bounds. Unknown square footage still fails an active size bound.
func LenientNulls() NullPolicies {
	return NullPolicies{
		Price:      NullPasses,
		Bedrooms:   NullPasses,
		Bathrooms:  NullPasses,
		SquareFeet: NullFails,
	}
}

// StrictNulls is the browse-all behaviour: only an unknown price passes.
func StrictNulls() NullPolicies {
	return NullPolicies{
		Price:      NullPasses,
		Bedrooms:   NullFails,
		Bathrooms:  NullFails,
		SquareFeet: NullFails,
	}
}

// FloatRange is an optional closed interval. A nil or NaN end is unbounded.
type FloatRange struct {
	Min *float64
	Max *float64
}

// IntRange is an optional closed interval. A nil end is unbounded.
type IntRange struct {
	Min *int
	Max *int
}

// FilterSpec is the full set of user-chosen constraints. It is used by value
// and rebuilt on every edit; FilterListings never retains it.
type FilterSpec struct {
	Price        FloatRange
	Bedrooms     IntRange
	BathroomsMin *float64
	SquareFeet   IntRange
	Categories   []string
	Sources      []string
	Nulls        NullPolicies
}

// PriceRange is an observed [Min, Max] price interval.
type PriceRange struct {
	Min float64
	Max float64
}

const (
	defaultPriceMin = 0
	defaultPriceMax = 10000
)

// DefaultPriceBounds is returned by PriceBounds when no price is known. It is
// a fixed UI range, not a property of the data.
func DefaultPriceBounds() PriceRange {
	return PriceRange{Min: defaultPriceMin, Max: defaultPriceMax}
}

// IsDefault reports whether r is the DefaultPriceBounds sentinel.
func (r PriceRange) IsDefault() bool {
	return r == DefaultPriceBounds()
}

// FilterListings returns the listings satisfying every active constraint in
// spec, in their original order. The input slice is not modified.
func FilterListings(listings []*models.Listing, spec FilterSpec) []*models.Listing {
	result := make([]*models.Listing, 0, len(listings))
	if len(listings) == 0 {
		return result
	}

	spec.Nulls = spec.Nulls.resolved()
	categories := toSet(spec.Categories, false)
	sources := toSet(spec.Sources, true)

	for _, l := range listings {
		if l == nil {
			continue
		}
		if matches(l, spec, categories, sources) {
			result = append(result, l)
		}
	}
	return result
}

func matches(l *models.Listing, spec FilterSpec, categories, sources map[string]struct{}) bool {
	if !inFloatRange(l.Price, spec.Price, spec.Nulls.Price) {
		return false
	}
	if !inIntRange(l.Bedrooms, spec.Bedrooms, spec.Nulls.Bedrooms) {
		return false
	}
	if !inFloatRange(l.Bathrooms, FloatRange{Min: spec.BathroomsMin}, spec.Nulls.Bathrooms) {
		return false
	}
	if !inIntRange(l.SquareFeet, spec.SquareFeet, spec.Nulls.SquareFeet) {
		return false
	}

	if len(categories) > 0 {
		if _, ok := categories[l.Category]; !ok || l.Category == "" {
			return false
		}
	}
	if len(sources) > 0 {
		if _, ok := sources[strings.ToLower(l.Source)]; !ok {
			return false
		}
	}
	return true
}

func inFloatRange(v *float64, r FloatRange, nulls NullPolicy) bool {
	minSet, maxSet := floatActive(r.Min), floatActive(r.Max)
	if !minSet && !maxSet {
		return true
	}
	if v == nil || math.IsNaN(*v) {
		return nulls == NullPasses
	}
	if minSet && *v < *r.Min {
		return false
	}
	if maxSet && *v > *r.Max {
		return false
	}
	return true
}

func inIntRange(v *int, r IntRange, nulls NullPolicy) bool {
	if r.Min == nil && r.Max == nil {
		return true
	}
	if v == nil {
		return nulls == NullPasses
	}
	if r.Min != nil && *v < *r.Min {
		return false
	}
	if r.Max != nil && *v > *r.Max {
		return false
	}
	return true
}

func floatActive(b *float64) bool {
	return b != nil && !math.IsNaN(*b)
}

func toSet(values []string, fold bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if fold {
			v = strings.ToLower(v)
		}
		set[v] = struct{}{}
	}
	return set
}

// UniqueCategories returns the distinct non-empty categories in the order
// they first appear.
func UniqueCategories(listings []*models.Listing) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, l := range listings {
		if l == nil || l.Category == "" {
			continue
		}
		if _, dup := seen[l.Category]; dup {
			continue
		}
		seen[l.Category] = struct{}{}
		result = append(result, l.Category)
	}
	return result
}

// PriceBounds returns the lowest and highest known price, or
// DefaultPriceBounds when no listing has a price.
func PriceBounds(listings []*models.Listing) PriceRange {
	bounds := DefaultPriceBounds()
	found := false
	for _, l := range listings {
		if l == nil || l.Price == nil || math.IsNaN(*l.Price) {
			continue
		}
		p := *l.Price
		if !found {
			bounds = PriceRange{Min: p, Max: p}
			found = true
			continue
		}
		if p < bounds.Min {
			bounds.Min = p
		}
		if p > bounds.Max {
			bounds.Max = p
		}
	}
	return bounds
}
