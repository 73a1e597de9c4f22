// Package emit implements the generate and check subcommands: the thin
// wrapper that reads configuration, drives the grid generator and writes the
// result. The generator itself stays free of any I/O or CLI concerns.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexgrid/config"
	"flexgrid/grid"
	"flexgrid/state"
)

// Run implements the generate subcommand.
func Run(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	tables, err := env.Cfg.Grid.Tables()
	if err != nil {
		return fmt.Errorf("unable to prepare grid tables: %w", err)
	}

	mode := env.Cfg.Output.Mode
	if s := cmd.String("mode"); len(s) > 0 {
		if mode, err = config.ParseOutputMode(s); err != nil {
			return fmt.Errorf("unable to parse output mode: %w", err)
		}
	}

	sheet, err := grid.NewGenerator(env.Log).Generate(tables)
	if err != nil {
		return fmt.Errorf("grid configuration rejected: %w", err)
	}

	// render first - destination and debug report must get identical bytes
	var buf bytes.Buffer
	switch mode {
	case config.OutputModeJson:
		err = sheet.WriteJSONTo(&buf)
	default:
		_, err = sheet.WriteTo(&buf)
	}
	if err != nil {
		return fmt.Errorf("unable to render generated rules: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		fname = env.Cfg.Output.Destination
	}

	out := os.Stdout
	if len(fname) > 0 {
		if !env.Overwrite {
			if _, err := os.Stat(fname); err == nil {
				return fmt.Errorf("destination '%s' already exists (use --overwrite)", fname)
			}
		}
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if _, err = out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write generated rules: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	} else if env.Rpt != nil {
		env.Rpt.StoreData(filepath.Join("output", filepath.Base(fname)), buf.Bytes())
	}
	env.Log.Info("Generated grid rules",
		zap.String("mode", mode.String()),
		zap.String("file", fname),
		zap.Int("items", len(sheet.Items)))
	return nil
}
