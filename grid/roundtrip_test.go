package grid_test

import (
	"testing"

	"go.uber.org/zap"

	"flexgrid/css"
	"flexgrid/grid"
)

// Generated stylesheets must survive a write/parse cycle without loss: the
// check subcommand depends on it.
func TestGenerate_ParseRoundTrip(t *testing.T) {
	sheet, err := grid.NewGenerator(zap.NewNop()).Generate(grid.DefaultConfig())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	text := sheet.String()
	parsed := css.NewParser(zap.NewNop()).Parse([]byte(text), "generated")

	if len(parsed.Warnings) != 0 {
		t.Fatalf("generated output outside the parser subset: %v", parsed.Warnings)
	}
	if got, want := len(parsed.Items), len(sheet.Items); got != want {
		t.Fatalf("parsed %d items, generated %d", got, want)
	}
	if got := parsed.String(); got != text {
		t.Error("write/parse/write is not stable")
	}

	// scoped thresholds survive textually and numerically
	for i, mb := range parsed.MediaBlocks() {
		want := sheet.MediaBlocks()[i].Query.MinWidth
		if mb.Query.MinWidth.Value != want.Value || mb.Query.MinWidth.Unit != want.Unit {
			t.Errorf("block %d threshold = %v%s, want %v%s",
				i, mb.Query.MinWidth.Value, mb.Query.MinWidth.Unit, want.Value, want.Unit)
		}
	}
}
