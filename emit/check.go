package emit

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexgrid/css"
	"flexgrid/grid"
	"flexgrid/state"
)

// Check implements the check subcommand: parse an existing stylesheet and
// verify that every rule the active configuration would generate is present
// in it.
func Check(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return fmt.Errorf("missing SOURCE stylesheet to check")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet '%s': %w", src, err)
	}

	sheet := css.NewParser(env.Log).Parse(data, src)
	for _, w := range sheet.Warnings {
		env.Log.Debug("Stylesheet uses constructs outside the grid subset", zap.String("warning", w))
	}

	tables, err := env.Cfg.Grid.Tables()
	if err != nil {
		return fmt.Errorf("unable to prepare grid tables: %w", err)
	}
	want, err := grid.NewGenerator(env.Log).Generate(tables)
	if err != nil {
		return fmt.Errorf("grid configuration rejected: %w", err)
	}

	present := make(map[string]struct{})
	for _, r := range sheet.Rules() {
		present[r.Selector.Raw] = struct{}{}
	}
	for _, mb := range sheet.MediaBlocks() {
		for _, r := range mb.Rules {
			present[mb.Query.Raw+" "+r.Selector.Raw] = struct{}{}
		}
	}

	var missing []string
	for _, item := range want.Items {
		switch {
		case item.Rule != nil:
			if _, ok := present[item.Rule.Selector.Raw]; !ok {
				missing = append(missing, item.Rule.Selector.Raw)
			}
		case item.MediaBlock != nil:
			for _, r := range item.MediaBlock.Rules {
				if _, ok := present[item.MediaBlock.Query.Raw+" "+r.Selector.Raw]; !ok {
					missing = append(missing, item.MediaBlock.Query.Raw+" "+r.Selector.Raw)
				}
			}
		}
	}

	for _, sel := range missing {
		env.Log.Warn("Expected grid rule is missing", zap.String("selector", sel))
	}
	env.Log.Info("Checked stylesheet against active configuration",
		zap.String("file", src),
		zap.Int("present", len(present)),
		zap.Int("missing", len(missing)))

	if len(missing) > 0 {
		return fmt.Errorf("stylesheet '%s' is missing %d generated rule(s)", src, len(missing))
	}
	return nil
}
