package grid

import (
	"fmt"

	"go.uber.org/multierr"

	"flexgrid/css"
)

// InvalidColumnCountError reports a non-positive column count.
type InvalidColumnCountError struct {
	Columns int
}

func (e *InvalidColumnCountError) Error() string {
	return fmt.Sprintf("invalid column count %d: must be a positive integer", e.Columns)
}

// NonAscendingBreakpointsError reports a breakpoint whose resolved minimum
// width does not strictly exceed that of the preceding table entry.
type NonAscendingBreakpointsError struct {
	Index    int       // position of the offending entry in the table
	Name     string    // offending breakpoint name
	MinWidth css.Value // offending threshold
	Previous css.Value // threshold of the preceding entry
}

func (e *NonAscendingBreakpointsError) Error() string {
	return fmt.Sprintf("breakpoint table is not in ascending order: %q (entry %d, min-width %s) does not exceed preceding %s",
		e.Name, e.Index, e.MinWidth.Raw, e.Previous.Raw)
}

// DuplicateNameError reports a repeated name within the breakpoint or gutter
// table.
type DuplicateNameError struct {
	Table string // "breakpoint" or "gutter"
	Name  string
	Index int // position of the second occurrence
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name %q (entry %d)", e.Table, e.Name, e.Index)
}

// Validate checks the whole configuration eagerly and reports every
// violation, so a caller sees all configuration problems at once. Generation
// must not start when Validate fails: output is all-or-nothing.
func (c Config) Validate() (err error) {
	if c.Columns <= 0 {
		err = multierr.Append(err, &InvalidColumnCountError{Columns: c.Columns})
	}

	seen := make(map[string]struct{}, len(c.Breakpoints))
	var prev *Breakpoint
	for i, b := range c.Breakpoints {
		if _, dup := seen[b.Name]; dup {
			err = multierr.Append(err, &DuplicateNameError{Table: "breakpoint", Name: b.Name, Index: i})
		}
		seen[b.Name] = struct{}{}

		px, er := b.MinWidth.Pixels()
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("breakpoint %q (entry %d): %w", b.Name, i, er))
			continue
		}
		if prev != nil {
			// prev resolved or it would have been skipped above
			prevPx, er := prev.MinWidth.Pixels()
			if er == nil && px <= prevPx {
				err = multierr.Append(err, &NonAscendingBreakpointsError{
					Index:    i,
					Name:     b.Name,
					MinWidth: b.MinWidth,
					Previous: prev.MinWidth,
				})
			}
		}
		prev = &c.Breakpoints[i]
	}

	seen = make(map[string]struct{}, len(c.Gutters))
	for i, g := range c.Gutters {
		if _, dup := seen[g.Name]; dup {
			err = multierr.Append(err, &DuplicateNameError{Table: "gutter", Name: g.Name, Index: i})
		}
		seen[g.Name] = struct{}{}

		if _, er := g.Size.Pixels(); er != nil && g.Size.Unit != "%" {
			err = multierr.Append(err, fmt.Errorf("gutter %q (entry %d): %w", g.Name, i, er))
		}
	}
	return
}
