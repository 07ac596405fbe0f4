package services

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"housing-manager/models"
)

func listingFixtures() []*models.Listing {
	return []*models.Listing{
		{Address: "6500 Del Playa Dr", Source: "meridian", Price: models.Float(2400), Bedrooms: models.Int(2), Bathrooms: models.Float(1), SquareFeet: models.Int(850), Category: "Residential"},
		{Address: "6626 Picasso Rd", Source: "solis", Price: models.Float(1650), Bedrooms: models.Int(0), Bathrooms: models.Float(1), SquareFeet: models.Int(400), Category: "Residential"},
		{Address: "956 Embarcadero", Source: "koto", Price: nil, Bedrooms: models.Int(3), Bathrooms: models.Float(2.5), Category: "Residential"},
		{Address: "Suite 4, Pardall Rd", Source: "meridian", Price: models.Float(3100), Bedrooms: nil, Bathrooms: nil, Category: "Commercial"},
		{Address: "6700 Trigo Rd", Source: "Wolfe", Price: models.Float(5200), Bedrooms: models.Int(5), Bathrooms: models.Float(3), SquareFeet: models.Int(1900)},
		{Address: "Storage Unit 12", Source: "playalife", Price: models.Float(150), Category: "Storage"},
	}
}

func addresses(ls []*models.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Address)
	}
	return out
}

func TestFilterEmptySpecIsIdentity(t *testing.T) {
	listings := listingFixtures()
	got := FilterListings(listings, FilterSpec{Nulls: LenientNulls()})
	if diff := cmp.Diff(addresses(listings), addresses(got)); diff != "" {
		t.Errorf("empty spec changed the result (-want +got):\n%s", diff)
	}

	got = FilterListings(listings, FilterSpec{Nulls: StrictNulls()})
	if len(got) != len(listings) {
		t.Errorf("strict nulls with no bounds should keep everything, got %d", len(got))
	}
}

func TestFilterNilInput(t *testing.T) {
	got := FilterListings(nil, FilterSpec{})
	if got == nil || len(got) != 0 {
		t.Errorf("nil input should yield an empty slice, got %#v", got)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	listings := listingFixtures()
	before := addresses(listings)
	_ = FilterListings(listings, FilterSpec{Price: FloatRange{Min: models.Float(2000)}})
	if diff := cmp.Diff(before, addresses(listings)); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestFilterIdempotent(t *testing.T) {
	specs := []FilterSpec{
		{Price: FloatRange{Min: models.Float(1000), Max: models.Float(4000)}},
		{Bedrooms: IntRange{Min: models.Int(1)}, Nulls: StrictNulls()},
		{Categories: []string{"Residential"}, BathroomsMin: models.Float(1)},
		{SquareFeet: IntRange{Max: models.Int(1000)}, Sources: []string{"MERIDIAN", "solis"}},
	}
	for i, spec := range specs {
		once := FilterListings(listingFixtures(), spec)
		twice := FilterListings(once, spec)
		if diff := cmp.Diff(addresses(once), addresses(twice)); diff != "" {
			t.Errorf("spec %d not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestFilterMonotonicPriceMin(t *testing.T) {
	listings := listingFixtures()
	prev := len(listings) + 1
	for _, min := range []float64{0, 500, 1650, 2000, 3100, 6000} {
		got := len(FilterListings(listings, FilterSpec{Price: FloatRange{Min: models.Float(min)}}))
		if got > prev {
			t.Errorf("raising price.min to %v grew the result from %d to %d", min, prev, got)
		}
		prev = got
	}
}

func TestFilterMonotonicSquareFeetMax(t *testing.T) {
	listings := listingFixtures()
	prev := len(listings) + 1
	for _, max := range []int{5000, 1900, 850, 400, 100} {
		got := len(FilterListings(listings, FilterSpec{SquareFeet: IntRange{Max: models.Int(max)}, Nulls: LenientNulls()}))
		if got > prev {
			t.Errorf("lowering square_feet.max to %d grew the result from %d to %d", max, prev, got)
		}
		prev = got
	}
}

func TestFilterNullPriceVacuousPass(t *testing.T) {
	listings := []*models.Listing{{Address: "a", Price: nil, Bedrooms: models.Int(2)}}
	spec := FilterSpec{Price: FloatRange{Min: models.Float(1000)}}

	got := FilterListings(listings, spec)
	if len(got) != 1 {
		t.Fatalf("unknown price should pass a price bound, got %d listings", len(got))
	}

	spec.Nulls.Price = NullFails
	if got := FilterListings(listings, spec); len(got) != 0 {
		t.Errorf("with NullFails on price the listing should be excluded, got %d", len(got))
	}
}

func TestFilterPriceRange(t *testing.T) {
	spec := FilterSpec{Price: FloatRange{Min: models.Float(1650), Max: models.Float(3100)}}
	got := addresses(FilterListings(listingFixtures(), spec))
	want := []string{"6500 Del Playa Dr", "6626 Picasso Rd", "956 Embarcadero", "Suite 4, Pardall Rd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("price range (-want +got):\n%s", diff)
	}
}

func TestFilterNaNBoundIsUnconstrained(t *testing.T) {
	nan := math.NaN()
	spec := FilterSpec{Price: FloatRange{Min: &nan, Max: &nan}, BathroomsMin: &nan}
	if got := FilterListings(listingFixtures(), spec); len(got) != len(listingFixtures()) {
		t.Errorf("NaN bounds should not constrain, got %d listings", len(got))
	}
}

func TestFilterSquareFeetNullExcluded(t *testing.T) {
	listings := []*models.Listing{
		{Address: "unknown", SquareFeet: nil},
		{Address: "big", SquareFeet: models.Int(1200)},
	}
	spec := FilterSpec{SquareFeet: IntRange{Min: models.Int(500)}, Nulls: LenientNulls()}

	got := addresses(FilterListings(listings, spec))
	if diff := cmp.Diff([]string{"big"}, got); diff != "" {
		t.Errorf("unknown square feet should be excluded (-want +got):\n%s", diff)
	}

	// No square feet bound: unknown size is irrelevant.
	if got := FilterListings(listings, FilterSpec{Nulls: LenientNulls()}); len(got) != 2 {
		t.Errorf("without a size bound both listings should pass, got %d", len(got))
	}
}

func TestFilterZeroNullsUseGroupDefaults(t *testing.T) {
	listings := []*models.Listing{
		{Address: "unknown size", Price: nil, Bedrooms: nil, Bathrooms: nil, SquareFeet: nil},
		{Address: "known", Price: models.Float(1800), Bedrooms: models.Int(2), Bathrooms: models.Float(1), SquareFeet: models.Int(900)},
	}

	got := addresses(FilterListings(listings, FilterSpec{SquareFeet: IntRange{Min: models.Int(500)}}))
	if diff := cmp.Diff([]string{"known"}, got); diff != "" {
		t.Errorf("zero-value nulls with a size bound (-want +got):\n%s", diff)
	}

	spec := FilterSpec{
		Price:        FloatRange{Min: models.Float(1000)},
		Bedrooms:     IntRange{Min: models.Int(1)},
		BathroomsMin: models.Float(1),
	}
	if got := FilterListings(listings, spec); len(got) != 2 {
		t.Errorf("zero-value nulls should pass unknown price, bedrooms and bathrooms, got %v", addresses(got))
	}

	for _, s := range []FilterSpec{
		{SquareFeet: IntRange{Max: models.Int(1000)}},
		{Bedrooms: IntRange{Min: models.Int(2)}, BathroomsMin: models.Float(1)},
	} {
		zero := addresses(FilterListings(listingFixtures(), s))
		s.Nulls = LenientNulls()
		lenient := addresses(FilterListings(listingFixtures(), s))
		if diff := cmp.Diff(lenient, zero); diff != "" {
			t.Errorf("zero-value nulls differ from LenientNulls (-lenient +zero):\n%s", diff)
		}
	}

	passing := FilterSpec{SquareFeet: IntRange{Min: models.Int(500)}, Nulls: NullPolicies{SquareFeet: NullPasses}}
	if got := FilterListings(listings, passing); len(got) != 2 {
		t.Errorf("explicit NullPasses on square feet should keep unknown sizes, got %v", addresses(got))
	}
}

func TestNullPolicyString(t *testing.T) {
	for p, want := range map[NullPolicy]string{NullDefault: "default", NullPasses: "pass", NullFails: "fail"} {
		if got := p.String(); got != want {
			t.Errorf("NullPolicy(%d).String() = %q; want %q", int(p), got, want)
		}
	}
}

func TestFilterCategory(t *testing.T) {
	listings := []*models.Listing{
		{Address: "1", Category: "Apt"},
		{Address: "2", Category: "House"},
		{Address: "3", Category: ""},
	}
	got := FilterListings(listings, FilterSpec{Categories: []string{"Apt"}})
	if diff := cmp.Diff([]string{"1"}, addresses(got)); diff != "" {
		t.Errorf("category filter (-want +got):\n%s", diff)
	}

	if got := FilterListings(listings, FilterSpec{Categories: []string{"apt"}}); len(got) != 0 {
		t.Errorf("category match is case-sensitive, got %d", len(got))
	}
	if got := FilterListings(listings, FilterSpec{Categories: []string{""}}); len(got) != 0 {
		t.Errorf("a listing without category never matches an active category filter, got %d", len(got))
	}
}

func TestFilterStudio(t *testing.T) {
	listings := []*models.Listing{{Address: "studio", Bedrooms: models.Int(0)}}

	if got := FilterListings(listings, FilterSpec{Bedrooms: IntRange{Min: models.Int(0)}}); len(got) != 1 {
		t.Errorf("studio should pass bedrooms.min=0, got %d", len(got))
	}
	if got := FilterListings(listings, FilterSpec{Bedrooms: IntRange{Min: models.Int(1)}}); len(got) != 0 {
		t.Errorf("studio should fail bedrooms.min=1, got %d", len(got))
	}
}

func TestFilterBedroomsNullPolicy(t *testing.T) {
	listings := []*models.Listing{{Address: "unknown beds"}, {Address: "two", Bedrooms: models.Int(2)}}
	spec := FilterSpec{Bedrooms: IntRange{Min: models.Int(2), Max: models.Int(2)}}

	spec.Nulls = LenientNulls()
	if got := addresses(FilterListings(listings, spec)); len(got) != 2 {
		t.Errorf("lenient: got %v, want both", got)
	}
	spec.Nulls = StrictNulls()
	if diff := cmp.Diff([]string{"two"}, addresses(FilterListings(listings, spec))); diff != "" {
		t.Errorf("strict (-want +got):\n%s", diff)
	}
}

func TestFilterBathroomsMin(t *testing.T) {
	spec := FilterSpec{BathroomsMin: models.Float(2.5), Nulls: LenientNulls()}
	got := addresses(FilterListings(listingFixtures(), spec))
	want := []string{"956 Embarcadero", "Suite 4, Pardall Rd", "6700 Trigo Rd", "Storage Unit 12"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lenient bathrooms (-want +got):\n%s", diff)
	}

	spec.Nulls = StrictNulls()
	got = addresses(FilterListings(listingFixtures(), spec))
	want = []string{"956 Embarcadero", "6700 Trigo Rd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strict bathrooms (-want +got):\n%s", diff)
	}
}

func TestFilterSources(t *testing.T) {
	spec := FilterSpec{Sources: []string{"Meridian", "wolfe"}}
	got := addresses(FilterListings(listingFixtures(), spec))
	want := []string{"6500 Del Playa Dr", "Suite 4, Pardall Rd", "6700 Trigo Rd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("source filter (-want +got):\n%s", diff)
	}

	// Exact identifiers, not substrings.
	if got := FilterListings(listingFixtures(), FilterSpec{Sources: []string{"mer"}}); len(got) != 0 {
		t.Errorf("partial source ids should not match, got %d", len(got))
	}
}

func TestUniqueCategories(t *testing.T) {
	listings := []*models.Listing{
		{Category: "B"}, {Category: "A"}, {Category: "B"}, {Category: ""},
	}
	if diff := cmp.Diff([]string{"B", "A"}, UniqueCategories(listings)); diff != "" {
		t.Errorf("UniqueCategories (-want +got):\n%s", diff)
	}
	if got := UniqueCategories(nil); len(got) != 0 {
		t.Errorf("nil input: got %v", got)
	}
}

func TestPriceBounds(t *testing.T) {
	tests := []struct {
		name     string
		listings []*models.Listing
		want     PriceRange
	}{
		{"empty", nil, PriceRange{Min: 0, Max: 10000}},
		{"all unknown", []*models.Listing{{}, {}}, PriceRange{Min: 0, Max: 10000}},
		{"mixed", []*models.Listing{{Price: models.Float(500)}, {Price: nil}, {Price: models.Float(2000)}}, PriceRange{Min: 500, Max: 2000}},
		{"single", []*models.Listing{{Price: models.Float(1200)}}, PriceRange{Min: 1200, Max: 1200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceBounds(tt.listings); got != tt.want {
				t.Errorf("PriceBounds = %+v; want %+v", got, tt.want)
			}
		})
	}

	if !PriceBounds(nil).IsDefault() {
		t.Error("empty input should report the default sentinel")
	}
	if PriceBounds(listingFixtures()).IsDefault() {
		t.Error("real data should not report the default sentinel")
	}

	b := DefaultPriceBounds()
	b.Max = 1
	if b.IsDefault() || !PriceBounds(nil).IsDefault() || DefaultPriceBounds() != (PriceRange{Min: 0, Max: 10000}) {
		t.Errorf("editing a returned range changed the sentinel: %+v", DefaultPriceBounds())
	}
}
