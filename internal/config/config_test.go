package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fallsim/internal/fall"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != ModelFree {
		t.Errorf("expected model free, got %s", cfg.Model)
	}
	if cfg.TimeStep != 0.01 {
		t.Errorf("expected time step 0.01, got %f", cfg.TimeStep)
	}
	if err := cfg.DragParams().Validate(); err != nil {
		t.Errorf("default drag params invalid: %v", err)
	}
	if cfg.Environment.Gravity != 9.8 || cfg.Environment.AirDensity != 1.225 {
		t.Errorf("unexpected environment %+v", cfg.Environment)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallsim.yaml")
	data := []byte("model: drag\nbody:\n  mass: 80\n  height: 3000\ndrag:\n  area: 0.7\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	p := cfg.DragParams()
	want := fall.DragParams{
		Params:          fall.Params{Mass: 80, Height: 3000, Gravity: DefaultGravity},
		AirDensity:      DefaultAirDensity,
		Area:            0.7,
		DragCoefficient: DefaultDragCoefficient,
	}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
	if cfg.Playback.IntervalMS != DefaultIntervalMS {
		t.Errorf("expected default interval, got %d", cfg.Playback.IntervalMS)
	}
}

func TestLoadRejectsUnknownModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: rocket\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Model = ModelDrag
	cfg.Body.Height = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("got %+v, want %+v", loaded, cfg)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Dir = "runs"

	tests := []struct {
		model    string
		expected string
	}{
		{ModelFree, filepath.Join("runs", "simulasi_data.csv")},
		{ModelDrag, filepath.Join("runs", "simulasi_data_dengan_hambatan.csv")},
	}
	for _, tt := range tests {
		if got := cfg.OutputPath(tt.model); got != tt.expected {
			t.Errorf("OutputPath(%s) = %s, want %s", tt.model, got, tt.expected)
		}
	}

	cfg.Output.Drag = "/tmp/abs.csv"
	if got := cfg.OutputPath(ModelDrag); got != "/tmp/abs.csv" {
		t.Errorf("absolute path rewritten to %s", got)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}

	for _, name := range names {
		p, ok := GetPreset(name)
		if !ok {
			t.Fatalf("preset %s not found", name)
		}
		cfg := DefaultConfig()
		cfg.ApplyPreset(p)
		if _, err := fall.NewDragFallSimulator().Simulate(cfg.DragParams()); err != nil {
			t.Errorf("preset %s does not simulate: %v", name, err)
		}
	}

	if _, ok := GetPreset("anvil"); ok {
		t.Error("expected missing preset")
	}
}

func TestOverlayKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("body:\n  height: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	p, _ := GetPreset("skydiver")
	cfg.ApplyPreset(p)
	if err := cfg.Overlay(path); err != nil {
		t.Fatalf("overlay failed: %v", err)
	}

	if cfg.Body.Height != 500 {
		t.Errorf("expected height from file, got %f", cfg.Body.Height)
	}
	if cfg.Body.Mass != 80 || cfg.Drag.Area != 0.7 {
		t.Errorf("preset values lost: %+v %+v", cfg.Body, cfg.Drag)
	}
}
