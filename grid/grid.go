// Package grid generates a flexbox grid stylesheet from two ordered
// configuration tables (breakpoints, gutters) and a column count.
package grid

import (
	"flexgrid/css"
)

// Breakpoint is a named minimum-viewport-width threshold. Table order is
// declaration order and must be ascending by resolved width: the generated
// stylesheet relies on later-rule-wins override semantics across breakpoints.
type Breakpoint struct {
	Name     string
	MinWidth css.Value
}

// Gutter is named spacing inserted between cells via negative container
// margin and positive cell padding. Gutter order carries no meaning.
type Gutter struct {
	Name string
	Size css.Value
}

// Config is the complete input of the generator. It is plain immutable data;
// Validate is the only behavior attached to it.
type Config struct {
	Columns     int // granularity of span fractions, i/Columns for i in [1, Columns]
	Breakpoints []Breakpoint
	Gutters     []Gutter
}

// DefaultColumns is the column count used when configuration does not say
// otherwise.
const DefaultColumns = 12

// DefaultConfig returns the stock three-breakpoint twelve-column grid.
func DefaultConfig() Config {
	return Config{
		Columns: DefaultColumns,
		Breakpoints: []Breakpoint{
			{Name: "sm", MinWidth: css.Value{Raw: "36em", Value: 36, Unit: "em"}},
			{Name: "md", MinWidth: css.Value{Raw: "48em", Value: 48, Unit: "em"}},
			{Name: "lg", MinWidth: css.Value{Raw: "62em", Value: 62, Unit: "em"}},
		},
		Gutters: []Gutter{
			{Name: "sm", Size: css.Value{Raw: "0.5rem", Value: 0.5, Unit: "rem"}},
			{Name: "md", Size: css.Value{Raw: "0.75rem", Value: 0.75, Unit: "rem"}},
			{Name: "lg", Size: css.Value{Raw: "1rem", Value: 1, Unit: "rem"}},
		},
	}
}
