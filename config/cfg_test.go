package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Grid.Columns != 12 {
		t.Errorf("Default columns = %d, want 12", cfg.Grid.Columns)
	}
	if len(cfg.Grid.Breakpoints) != 3 {
		t.Fatalf("Default breakpoints = %d, want 3", len(cfg.Grid.Breakpoints))
	}
	for i, name := range []string{"sm", "md", "lg"} {
		if cfg.Grid.Breakpoints[i].Name != name {
			t.Errorf("Breakpoint %d name = %q, want %q", i, cfg.Grid.Breakpoints[i].Name, name)
		}
	}
	if len(cfg.Grid.Gutters) != 3 {
		t.Errorf("Default gutters = %d, want 3", len(cfg.Grid.Gutters))
	}
	if cfg.Output.Mode != OutputModeCss {
		t.Errorf("Default output mode = %s, want css", cfg.Output.Mode)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
grid:
  columns: 2
  breakpoints:
    - name: xs
      min_width: 320px
    - name: sm
      min_width: 480px
  gutters:
    - name: md
      size: 0.52rem
output:
  mode: json
logging:
  console:
    level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Grid.Columns != 2 {
		t.Errorf("columns = %d, want 2", cfg.Grid.Columns)
	}
	if len(cfg.Grid.Breakpoints) != 2 || cfg.Grid.Breakpoints[0].Name != "xs" {
		t.Errorf("breakpoint table not overridden: %+v", cfg.Grid.Breakpoints)
	}
	if cfg.Output.Mode != OutputModeJson {
		t.Errorf("output mode = %s, want json", cfg.Output.Mode)
	}
	// values not present in the file keep template defaults
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("file log level = %q, want default 'none'", cfg.Logging.FileLogger.Level)
	}
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 1\nnonsense: true\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Fatal("expected unknown configuration field to be rejected")
	}
}

func TestLoadConfiguration_BadColumnCount(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("version: 1\ngrid:\n  columns: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Fatal("expected non-positive column count to be rejected by validation")
	}
}

func TestGridConfig_Tables(t *testing.T) {
	gc := GridConfig{
		Columns: 2,
		Breakpoints: []BreakpointConfig{
			{Name: "xs", MinWidth: "320px"},
			{Name: "sm", MinWidth: "480px"},
		},
		Gutters: []GutterConfig{
			{Name: "md", Size: "0.52rem"},
		},
	}

	tables, err := gc.Tables()
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}

	if tables.Columns != 2 {
		t.Errorf("columns = %d, want 2", tables.Columns)
	}
	if len(tables.Breakpoints) != 2 {
		t.Fatalf("breakpoints = %d, want 2", len(tables.Breakpoints))
	}
	if bp := tables.Breakpoints[0]; bp.MinWidth.Value != 320 || bp.MinWidth.Unit != "px" {
		t.Errorf("xs min width = %v%s, want 320px", bp.MinWidth.Value, bp.MinWidth.Unit)
	}
	if g := tables.Gutters[0]; g.Size.Value != 0.52 || g.Size.Unit != "rem" {
		t.Errorf("md gutter size = %v%s, want 0.52rem", g.Size.Value, g.Size.Unit)
	}
}

func TestGridConfig_Tables_BadLength(t *testing.T) {
	gc := GridConfig{
		Columns:     12,
		Breakpoints: []BreakpointConfig{{Name: "sm", MinWidth: "wide"}},
	}

	_, err := gc.Tables()
	if err == nil {
		t.Fatal("expected error for unparsable min_width")
	}
	if !strings.Contains(err.Error(), `"sm"`) {
		t.Errorf("error does not identify offending entry: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"columns: 12", "name: sm", "mode: css"} {
		if !strings.Contains(out, want) {
			t.Errorf("dumped config missing %q:\n%s", want, out)
		}
	}
}

func TestParseOutputMode(t *testing.T) {
	for name, want := range map[string]OutputMode{"css": OutputModeCss, "json": OutputModeJson} {
		got, err := ParseOutputMode(name)
		if err != nil {
			t.Errorf("ParseOutputMode(%q) error = %v", name, err)
		}
		if got != want {
			t.Errorf("ParseOutputMode(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseOutputMode("xml"); err == nil {
		t.Error("expected error for unsupported mode")
	}
}
