package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"flexgrid/css"
	"flexgrid/grid"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// BreakpointConfig is one entry of the ordered breakpoint table. Order is
	// significant: entries must ascend by min_width.
	BreakpointConfig struct {
		Name     string `yaml:"name" validate:"required"`
		MinWidth string `yaml:"min_width" validate:"required"`
	}

	// GutterConfig is one entry of the gutter table. Order carries no meaning,
	// names conventionally mirror breakpoint names.
	GutterConfig struct {
		Name string `yaml:"name" validate:"required"`
		Size string `yaml:"size" validate:"required"`
	}

	GridConfig struct {
		Columns     int                `yaml:"columns" validate:"min=1"`
		Breakpoints []BreakpointConfig `yaml:"breakpoints" validate:"dive"`
		Gutters     []GutterConfig     `yaml:"gutters" validate:"dive"`
	}

	OutputConfig struct {
		Mode        OutputMode `yaml:"mode" validate:"gte=0"`
		Destination string     `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Grid      GridConfig     `yaml:"grid"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Tables converts the yaml-level grid configuration into generator input,
// parsing length strings. Cross-entry constraints (ascending order, unique
// names) are the generator's concern, not ours.
func (c *GridConfig) Tables() (grid.Config, error) {
	out := grid.Config{Columns: c.Columns}

	for _, b := range c.Breakpoints {
		w, err := css.ParseLength(b.MinWidth)
		if err != nil {
			return grid.Config{}, fmt.Errorf("breakpoint %q: bad min_width: %w", b.Name, err)
		}
		out.Breakpoints = append(out.Breakpoints, grid.Breakpoint{Name: b.Name, MinWidth: w})
	}
	for _, g := range c.Gutters {
		s, err := css.ParseLength(g.Size)
		if err != nil {
			return grid.Config{}, fmt.Errorf("gutter %q: bad size: %w", g.Name, err)
		}
		out.Gutters = append(out.Gutters, grid.Gutter{Name: g.Name, Size: s})
	}
	return out, nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
