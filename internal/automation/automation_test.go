package automation

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dronesim/internal/config"
)

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	custom := config.GetPreset("fill")
	custom.Output = "custom.gif"
	if err := config.Save(filepath.Join(dir, "custom.yaml"), custom); err != nil {
		t.Fatal(err)
	}

	content := `name: test
description: two renders
steps:
  - preset: simple
    frames: 10
    output: a.gif
  - config: custom.yaml
    fill: false
`
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "test" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	first, err := sc.Resolve(sc.Steps[0])
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first.Frames != 10 || first.Output != "a.gif" || first.Variant != "simple" {
		t.Errorf("unexpected first step %+v", first)
	}

	second, err := sc.Resolve(sc.Steps[1])
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if second.Output != "custom.gif" || second.Fill || second.Frames != 400 {
		t.Errorf("unexpected second step: output %s fill %v frames %d", second.Output, second.Fill, second.Frames)
	}
}

func TestResolveErrors(t *testing.T) {
	sc := DefaultScenario()
	if _, err := sc.Resolve(ScenarioStep{Preset: "nope"}); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	if _, err := sc.Resolve(ScenarioStep{Frames: -1}); !errors.Is(err, config.ErrInvalidFrames) {
		t.Errorf("expected ErrInvalidFrames, got %v", err)
	}
	cfg, err := sc.Resolve(ScenarioStep{})
	if err != nil || cfg.Variant != "simple" {
		t.Errorf("empty step should use the default config, got %v, %v", cfg, err)
	}
}

func TestRunScenario(t *testing.T) {
	var rendered []string
	var out bytes.Buffer
	done, err := RunScenario(context.Background(), DefaultScenario(), &out, func(_ context.Context, cfg *config.Config) error {
		rendered = append(rendered, cfg.Output)
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(done) != 2 || strings.Join(rendered, ",") != "drone_animation_2.gif,drone_animation_3.gif" {
		t.Errorf("expected both variants, got %v", rendered)
	}
	if !strings.Contains(out.String(), "Running step 2/2: fill") {
		t.Errorf("expected progress output, got %q", out.String())
	}
}

func TestRunScenarioErrors(t *testing.T) {
	noop := func(context.Context, *config.Config) error { return nil }

	if _, err := RunScenario(context.Background(), &Scenario{}, &bytes.Buffer{}, noop); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}

	sentinel := errors.New("disk full")
	done, err := RunScenario(context.Background(), DefaultScenario(), &bytes.Buffer{}, func(_ context.Context, cfg *config.Config) error {
		if cfg.Variant == "fill" {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) || len(done) != 1 {
		t.Errorf("expected failure on step 2 after 1 render, got %d, %v", len(done), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunScenario(ctx, DefaultScenario(), &bytes.Buffer{}, noop); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	var out bytes.Buffer
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Preset: "fill", Param: "omega", ParamMin: 1, ParamMax: 2, NumSteps: 2,
	}, &out)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// period in frames is 50 * 2π / omega
	for _, r := range results {
		want := 50 * 2 * math.Pi / r.ParamValue
		if math.Abs(r.Period-want)/want > 0.02 {
			t.Errorf("omega %.1f: expected period near %.1f, got %.1f", r.ParamValue, want, r.Period)
		}
		if r.DroneMin < 1-1e-9 || r.DroneMax > 3+1e-9 {
			t.Errorf("omega %.1f: drone left [1, 3]: [%f, %f]", r.ParamValue, r.DroneMin, r.DroneMax)
		}
	}
	if math.Abs(results[1].PeakAccel-4) > 1e-9 {
		t.Errorf("expected peak acceleration 4 at omega 2, got %f", results[1].PeakAccel)
	}
	if strings.Count(out.String(), "Sweep") != 2 {
		t.Errorf("expected progress per step, got %q", out.String())
	}
}

func TestRunSweepErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := RunSweep(ctx, &ParameterSweep{Preset: "simple", Param: "mass", NumSteps: 2}, &bytes.Buffer{}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := RunSweep(ctx, &ParameterSweep{Preset: "simple", Param: "omega", NumSteps: 1}, &bytes.Buffer{}); !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("expected ErrInvalidSweep, got %v", err)
	}
	if _, err := RunSweep(ctx, &ParameterSweep{Preset: "nope", Param: "omega", NumSteps: 2}, &bytes.Buffer{}); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	_, err := RunSweep(ctx, &ParameterSweep{Preset: "simple", Param: "time_scale", ParamMin: 0, ParamMax: 1, NumSteps: 2}, &bytes.Buffer{})
	if !errors.Is(err, config.ErrInvalidTimeScale) {
		t.Errorf("expected ErrInvalidTimeScale, got %v", err)
	}
}
