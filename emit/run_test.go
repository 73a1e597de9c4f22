package emit_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"flexgrid/config"
	"flexgrid/emit"
	"flexgrid/state"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Action: emit.Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode"},
		},
	}
}

func prepareEnv(t *testing.T, ctx context.Context) *state.LocalEnv {
	t.Helper()

	env := state.EnvFromContext(ctx)
	var err error
	if env.Cfg, err = config.LoadConfiguration(""); err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env.Log = zap.NewNop()
	return env
}

func TestRun_JSONModeReportMatchesDestination(t *testing.T) {
	tmpDir := t.TempDir()

	ctx := state.ContextWithEnv(context.Background())
	env := prepareEnv(t, ctx)

	env.Cfg.Reporting.Destination = filepath.Join(tmpDir, "report.zip")
	var err error
	if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
		t.Fatalf("unable to prepare reporter: %v", err)
	}

	dest := filepath.Join(tmpDir, "grid.json")
	if err := generateCommand().Run(ctx, []string{"generate", "--mode", "json", dest}); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if err := env.Rpt.Close(); err != nil {
		t.Fatalf("unable to close report: %v", err)
	}

	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("unable to read destination: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(written), []byte("[")) {
		t.Fatalf("destination does not hold the json rendering:\n%s", written)
	}

	zr, err := zip.OpenReader(env.Cfg.Reporting.Destination)
	if err != nil {
		t.Fatalf("unable to open report archive: %v", err)
	}
	defer zr.Close()

	var stored []byte
	for _, f := range zr.File {
		if f.Name != "output/grid.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open report entry: %v", err)
		}
		stored, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read report entry: %v", err)
		}
	}
	if stored == nil {
		t.Fatal("report archive has no output/grid.json entry")
	}
	if !bytes.Equal(stored, written) {
		t.Error("report entry differs from written destination")
	}
}

func TestRun_OverwriteGuard(t *testing.T) {
	tmpDir := t.TempDir()

	ctx := state.ContextWithEnv(context.Background())
	prepareEnv(t, ctx)

	dest := filepath.Join(tmpDir, "grid.css")
	if err := os.WriteFile(dest, []byte("/* existing */\n"), 0644); err != nil {
		t.Fatalf("unable to seed destination: %v", err)
	}

	err := generateCommand().Run(ctx, []string{"generate", dest})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected existing destination to be refused, got %v", err)
	}
}
