package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/dronesim/internal/analysis"
	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/scene"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrUnknownParam  = errors.New("automation: unknown sweep parameter")
	ErrInvalidSweep  = errors.New("automation: sweep needs at least two steps")
)

// Scenario is a scripted list of renders.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep starts from a preset or a config file and overrides a few
// fields. Config paths are relative to the scenario file.
type ScenarioStep struct {
	Preset string `yaml:"preset"`
	Config string `yaml:"config"`
	Output string `yaml:"output"`
	Frames int    `yaml:"frames"`
	FPS    int    `yaml:"fps"`
	Fill   *bool  `yaml:"fill"`
}

// RenderFunc produces the output for one resolved config.
type RenderFunc func(ctx context.Context, cfg *config.Config) error

// DefaultScenario renders both variants.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "drone animations",
		Description: "simple payload arrow, then the draining payload",
		Steps: []ScenarioStep{
			{Preset: "simple"},
			{Preset: "fill"},
		},
	}
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	scenario.dir = filepath.Dir(path)

	return &scenario, nil
}

// Resolve builds the config for a step.
func (s *Scenario) Resolve(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, step.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if step.Output != "" {
		cfg.Output = step.Output
	}
	if step.Frames != 0 {
		cfg.Frames = step.Frames
	}
	if step.FPS != 0 {
		cfg.FPS = step.FPS
	}
	if step.Fill != nil {
		cfg.Fill = *step.Fill
	}
	return cfg, cfg.Validate()
}

// RunScenario resolves and renders each step in order, stopping at the
// first failure. It returns the configs rendered so far.
func RunScenario(ctx context.Context, scenario *Scenario, w io.Writer, render RenderFunc) ([]*config.Config, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	done := make([]*config.Config, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		cfg, err := scenario.Resolve(step)
		if err != nil {
			return done, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "Running step %d/%d: %s -> %s\n", i+1, len(scenario.Steps), cfg.Variant, cfg.Output)

		if err := render(ctx, cfg); err != nil {
			return done, fmt.Errorf("step %d render: %w", i+1, err)
		}
		done = append(done, cfg)
	}

	return done, nil
}

// ParameterSweep varies one geometry or motion parameter of a preset.
type ParameterSweep struct {
	Preset   string
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
}

type SweepResult struct {
	ParamValue float64
	Period     float64
	DroneMin   float64
	DroneMax   float64
	PayloadMin float64
	PayloadMax float64
	PeakAccel  float64
}

// SweepParams lists the names accepted by ParameterSweep.Param.
var SweepParams = []string{
	"amplitude", "base_height", "omega", "swing_amplitude", "swing_phase", "time_scale", "wire_length",
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "amplitude":
		cfg.Motion.Amplitude = v
	case "base_height":
		cfg.Motion.BaseHeight = v
	case "omega":
		cfg.Motion.Omega = v
	case "swing_amplitude":
		cfg.Motion.SwingAmplitude = v
	case "swing_phase":
		cfg.Motion.SwingPhase = v
	case "time_scale":
		cfg.Geometry.TimeScale = v
	case "wire_length":
		cfg.Geometry.WireLength = v
	default:
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, name, SweepParams)
	}
	return nil
}

// RunSweep computes the scene sequence of the preset for each parameter
// value and summarises the motion. Period is 0 when the trace is too
// short to cross its mean twice.
func RunSweep(ctx context.Context, sweep *ParameterSweep, w io.Writer) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSweep, sweep.NumSteps)
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, sweep.Preset)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := setParam(cfg, sweep.Param, paramVal); err != nil {
			return nil, err
		}
		opts, err := cfg.Options()
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		trace := scene.Sequence(cfg.Frames, opts)
		drone := make([]float64, len(trace))
		payload := make([]float64, len(trace))
		accel := make([]float64, len(trace))
		for j, sc := range trace {
			drone[j], payload[j], accel[j] = sc.Drone.Y, sc.Payload.Y, sc.Accel
		}

		ds, ps, as := analysis.Summarize(drone), analysis.Summarize(payload), analysis.Summarize(accel)
		period, _ := analysis.CrossingPeriod(drone)
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Period:     period,
			DroneMin:   ds.Min,
			DroneMax:   ds.Max,
			PayloadMin: ps.Min,
			PayloadMax: ps.Max,
			PeakAccel:  max(-as.Min, as.Max),
		})

		fmt.Fprintf(w, "Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}
