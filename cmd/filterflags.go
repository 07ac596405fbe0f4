package cmd

import (
	"github.com/spf13/cobra"

	"housing-manager/services"
)

// filterFlags binds the filter controls to command-line flags. Values stay
// raw strings until NewFilterSpec normalises them.
type filterFlags struct {
	in services.FilterInput
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.in.PriceMin, "price-min", "", "minimum monthly rent")
	fl.StringVar(&f.in.PriceMax, "price-max", "", "maximum monthly rent")
	fl.StringVar(&f.in.Bedrooms, "beds", "any", "bedrooms: any, studio, 1, 2, 3 or 4+")
	fl.StringVar(&f.in.BedroomsMin, "beds-min", "", "minimum bedrooms (0 is a studio)")
	fl.StringVar(&f.in.BedroomsMax, "beds-max", "", "maximum bedrooms")
	fl.StringVar(&f.in.BathroomsMin, "baths-min", "", "minimum bathrooms, half baths allowed")
	fl.StringVar(&f.in.SqftMin, "sqft-min", "", "minimum square feet")
	fl.StringVar(&f.in.SqftMax, "sqft-max", "", "maximum square feet")
	fl.StringSliceVar(&f.in.Categories, "category", nil, "only these categories (repeatable, case-sensitive)")
	fl.StringSliceVar(&f.in.Sources, "company", nil, "only these listing companies (repeatable)")
	fl.BoolVar(&f.in.Strict, "strict-nulls", false, "exclude listings with unknown bedrooms or bathrooms when those filters are set")
}

func (f *filterFlags) spec() services.FilterSpec {
	return services.NewFilterSpec(f.in)
}

func (f *filterFlags) active() bool {
	return f.in.Active()
}
