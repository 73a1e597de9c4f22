package grid_test

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"flexgrid/css"
	"flexgrid/grid"
)

func TestValidate_DuplicateBreakpointName(t *testing.T) {
	cfg := grid.Config{
		Columns: 12,
		Breakpoints: []grid.Breakpoint{
			{Name: "sm", MinWidth: mustLength(t, "320px")},
			{Name: "sm", MinWidth: mustLength(t, "480px")},
		},
	}

	err := cfg.Validate()
	var dup *grid.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
	if dup.Table != "breakpoint" || dup.Name != "sm" || dup.Index != 1 {
		t.Errorf("error = %+v, want breakpoint 'sm' at 1", dup)
	}
}

func TestValidate_DuplicateGutterName(t *testing.T) {
	cfg := grid.Config{
		Columns: 12,
		Gutters: []grid.Gutter{
			{Name: "md", Size: mustLength(t, "0.5rem")},
			{Name: "md", Size: mustLength(t, "1rem")},
		},
	}

	err := cfg.Validate()
	var dup *grid.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
	if dup.Table != "gutter" {
		t.Errorf("error names table %q, want 'gutter'", dup.Table)
	}
}

func TestValidate_EqualThresholdsAreNonAscending(t *testing.T) {
	// strictly increasing: 36em == 576px must be rejected
	cfg := grid.Config{
		Columns: 12,
		Breakpoints: []grid.Breakpoint{
			{Name: "a", MinWidth: mustLength(t, "36em")},
			{Name: "b", MinWidth: mustLength(t, "576px")},
		},
	}

	var nab *grid.NonAscendingBreakpointsError
	if !errors.As(cfg.Validate(), &nab) {
		t.Fatal("expected NonAscendingBreakpointsError for equal thresholds")
	}
}

func TestValidate_UnresolvableUnit(t *testing.T) {
	cfg := grid.Config{
		Columns: 12,
		Breakpoints: []grid.Breakpoint{
			{Name: "sm", MinWidth: css.Value{Raw: "50vw", Value: 50, Unit: "vw"}},
		},
	}
	if cfg.Validate() == nil {
		t.Fatal("expected error for viewport-relative breakpoint threshold")
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := grid.Config{
		Columns: -3,
		Breakpoints: []grid.Breakpoint{
			{Name: "sm", MinWidth: mustLength(t, "480px")},
			{Name: "sm", MinWidth: mustLength(t, "320px")},
		},
		Gutters: []grid.Gutter{
			{Name: "md", Size: mustLength(t, "0.5rem")},
			{Name: "md", Size: mustLength(t, "1rem")},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	// column count, duplicate breakpoint, non-ascending order, duplicate gutter
	if got := len(multierr.Errors(err)); got != 4 {
		t.Errorf("expected 4 collected violations, got %d: %v", got, err)
	}

	var icc *grid.InvalidColumnCountError
	if !errors.As(err, &icc) {
		t.Error("missing InvalidColumnCountError")
	}
	var nab *grid.NonAscendingBreakpointsError
	if !errors.As(err, &nab) {
		t.Error("missing NonAscendingBreakpointsError")
	}
	var dup *grid.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Error("missing DuplicateNameError")
	}
}

func TestValidate_OK(t *testing.T) {
	if err := grid.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default configuration must validate, got %v", err)
	}
}
