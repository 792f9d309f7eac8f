package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fallsim/internal/export"
	"github.com/san-kum/fallsim/internal/fall"
)

const (
	ModelFree = "free"
	ModelDrag = "drag"
)

const (
	DefaultMass            = 1.0
	DefaultHeight          = 10.0
	DefaultGravity         = 9.8
	DefaultAirDensity      = 1.225
	DefaultArea            = 0.01
	DefaultDragCoefficient = 0.47
	DefaultIntervalMS      = 50
)

var ErrUnknownModel = errors.New("config: unknown model")

type Config struct {
	Model       string            `yaml:"model"`
	TimeStep    float64           `yaml:"time_step"`
	Body        BodyConfig        `yaml:"body"`
	Environment EnvironmentConfig `yaml:"environment"`
	Drag        DragConfig        `yaml:"drag"`
	Output      OutputConfig      `yaml:"output"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type BodyConfig struct {
	Mass   float64 `yaml:"mass"`
	Height float64 `yaml:"height"`
}

type EnvironmentConfig struct {
	Gravity    float64 `yaml:"gravity"`
	AirDensity float64 `yaml:"air_density"`
}

type DragConfig struct {
	Area        float64 `yaml:"area"`
	Coefficient float64 `yaml:"coefficient"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	FreeFall string `yaml:"free_fall"`
	Drag     string `yaml:"drag"`
}

type PlaybackConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives log output while the full-screen interface is up.
	// Empty discards it.
	File string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    ModelFree,
		TimeStep: fall.DefaultTimeStep,
		Body: BodyConfig{
			Mass:   DefaultMass,
			Height: DefaultHeight,
		},
		Environment: EnvironmentConfig{
			Gravity:    DefaultGravity,
			AirDensity: DefaultAirDensity,
		},
		Drag: DragConfig{
			Area:        DefaultArea,
			Coefficient: DefaultDragCoefficient,
		},
		Output: OutputConfig{
			Dir:      ".",
			FreeFall: export.FreeFallFile,
			Drag:     export.DragFile,
		},
		Playback: PlaybackConfig{IntervalMS: DefaultIntervalMS},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads a YAML file on top of c. Keys absent from the file keep
// their current values.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.checkModel()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) checkModel() error {
	switch c.Model {
	case ModelFree, ModelDrag:
		return nil
	}
	return fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownModel, c.Model, ModelFree, ModelDrag)
}

func (c *Config) FreeFallParams() fall.Params {
	return fall.Params{
		Mass:    c.Body.Mass,
		Height:  c.Body.Height,
		Gravity: c.Environment.Gravity,
	}
}

func (c *Config) DragParams() fall.DragParams {
	return fall.DragParams{
		Params:          c.FreeFallParams(),
		AirDensity:      c.Environment.AirDensity,
		Area:            c.Drag.Area,
		DragCoefficient: c.Drag.Coefficient,
	}
}

// OutputPath is the CSV destination for a run of the given model.
func (c *Config) OutputPath(model string) string {
	name := c.Output.FreeFall
	if model == ModelDrag {
		name = c.Output.Drag
	}
	if filepath.IsAbs(name) || c.Output.Dir == "" {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// ApplyPreset copies the body and drag properties of a preset.
func (c *Config) ApplyPreset(p Preset) {
	c.Body.Mass = p.Mass
	c.Body.Height = p.Height
	c.Drag.Area = p.Area
	c.Drag.Coefficient = p.DragCoefficient
}
