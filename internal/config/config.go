package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dronesim/internal/scene"
)

const (
	DefaultFPS        = 30
	DefaultIntervalMS = 20
	DefaultWidth      = 480
	DefaultHeight     = 480
	DefaultDPI        = 96
	DefaultAxisLimit  = 5.0

	DefaultTitle       = "Drone avec payload"
	DefaultAuthor      = "Philippe Lebel"
	DefaultDescription = "Animation de drone avec payload et acceleration du drone et flèche affiché"

	ModeFixed = "fixed"
	ModeDrain = "drain"
)

type Config struct {
	Variant    string         `yaml:"variant"`
	Frames     int            `yaml:"frames"`
	FPS        int            `yaml:"fps"`
	IntervalMS int            `yaml:"interval_ms"`
	Output     string         `yaml:"output"`
	Fill       bool           `yaml:"fill"`
	Canvas     CanvasConfig   `yaml:"canvas"`
	Axes       AxesConfig     `yaml:"axes"`
	Geometry   GeometryConfig `yaml:"geometry"`
	Motion     MotionConfig   `yaml:"motion"`
	Accel      ArrowConfig    `yaml:"accel_arrow"`
	Payload    ArrowConfig    `yaml:"payload_arrow"`
	Metadata   MetadataConfig `yaml:"metadata"`
}

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	DPI    int `yaml:"dpi"`
}

type AxesConfig struct {
	XMin   float64 `yaml:"x_min"`
	XMax   float64 `yaml:"x_max"`
	YMin   float64 `yaml:"y_min"`
	YMax   float64 `yaml:"y_max"`
	Title  string  `yaml:"title"`
	XLabel string  `yaml:"x_label"`
	YLabel string  `yaml:"y_label"`
	Grid   bool    `yaml:"grid"`
}

type GeometryConfig struct {
	DroneSize       float64 `yaml:"drone_size"`
	WireLength      float64 `yaml:"wire_length"`
	RotorLength     float64 `yaml:"rotor_length"`
	RotorLift       float64 `yaml:"rotor_lift"`
	TrapezoidTop    float64 `yaml:"trapezoid_top"`
	TrapezoidBottom float64 `yaml:"trapezoid_bottom"`
	TrapezoidHeight float64 `yaml:"trapezoid_height"`
	TimeScale       float64 `yaml:"time_scale"`
}

type MotionConfig struct {
	BaseHeight     float64 `yaml:"base_height"`
	Amplitude      float64 `yaml:"amplitude"`
	Omega          float64 `yaml:"omega"`
	SwingAmplitude float64 `yaml:"swing_amplitude"`
	SwingPhase     float64 `yaml:"swing_phase"`
}

// ArrowConfig styles an indicator glyph. NegativeColor defaults to Color.
// Mode and Length only apply to the payload arrow; Scale only to the
// acceleration arrow.
type ArrowConfig struct {
	Mode          string  `yaml:"mode,omitempty"`
	Length        float64 `yaml:"length,omitempty"`
	Scale         float64 `yaml:"scale,omitempty"`
	Width         float64 `yaml:"width"`
	Color         string  `yaml:"color"`
	NegativeColor string  `yaml:"negative_color,omitempty"`
}

type MetadataConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:    "simple",
		Frames:     200,
		FPS:        DefaultFPS,
		IntervalMS: DefaultIntervalMS,
		Output:     "drone_animation_2.gif",
		Canvas: CanvasConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			DPI:    DefaultDPI,
		},
		Axes: AxesConfig{
			XMin:   -DefaultAxisLimit,
			XMax:   DefaultAxisLimit,
			YMin:   -DefaultAxisLimit,
			YMax:   DefaultAxisLimit,
			Title:  DefaultTitle,
			XLabel: "Position en X",
			YLabel: "Position en Y",
		},
		Geometry: GeometryConfig{
			DroneSize:       scene.DefaultDroneSize,
			WireLength:      scene.DefaultWireLength,
			RotorLength:     scene.DefaultRotorLength,
			RotorLift:       scene.DefaultRotorLift,
			TrapezoidTop:    scene.DefaultTrapezoidTop,
			TrapezoidBottom: scene.DefaultTrapezoidBottom,
			TrapezoidHeight: scene.DefaultTrapezoidHeight,
			TimeScale:       scene.DefaultTimeScale,
		},
		Motion: MotionConfig{
			BaseHeight:     scene.DefaultBaseHeight,
			Amplitude:      scene.DefaultAmplitude,
			Omega:          scene.DefaultOmega,
			SwingAmplitude: scene.DefaultSwingAmplitude,
			SwingPhase:     scene.DefaultSwingPhase,
		},
		Accel: ArrowConfig{
			Scale: scene.DefaultAccelScale,
			Width: scene.DefaultAccelWidth,
			Color: "green",
		},
		Payload: ArrowConfig{
			Mode:   ModeFixed,
			Length: scene.DefaultFixedLength,
			Width:  0.2,
			Color:  "blue",
		},
		Metadata: MetadataConfig{
			Title:       DefaultTitle,
			Author:      DefaultAuthor,
			Description: DefaultDescription,
		},
	}
}

// Load reads a YAML config. Fields left out of the file keep the values
// of the preset named by its variant key, or of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if probe.Variant != "" {
		cfg = GetPreset(probe.Variant)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, probe.Variant, ListPresets())
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrames, c.Frames)
	}
	if c.FPS <= 0 || c.FPS > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, c.FPS)
	}
	if c.Geometry.TimeScale <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTimeScale, c.Geometry.TimeScale)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 || c.Canvas.DPI <= 0 {
		return fmt.Errorf("%w: %dx%d@%d", ErrInvalidCanvas, c.Canvas.Width, c.Canvas.Height, c.Canvas.DPI)
	}
	if c.Axes.XMin >= c.Axes.XMax || c.Axes.YMin >= c.Axes.YMax {
		return fmt.Errorf("%w: x [%g, %g] y [%g, %g]", ErrInvalidAxes, c.Axes.XMin, c.Axes.XMax, c.Axes.YMin, c.Axes.YMax)
	}
	switch c.Payload.Mode {
	case ModeFixed, ModeDrain, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLengthMode, c.Payload.Mode)
	}
	for _, a := range []ArrowConfig{c.Accel, c.Payload} {
		if _, err := a.policy(); err != nil {
			return err
		}
	}
	return nil
}

// Options maps the config onto the scene updater.
func (c *Config) Options() (scene.Options, error) {
	if err := c.Validate(); err != nil {
		return scene.Options{}, err
	}

	accel, err := c.Accel.policy()
	if err != nil {
		return scene.Options{}, err
	}
	payload, err := c.Payload.policy()
	if err != nil {
		return scene.Options{}, err
	}

	length := scene.FixedLength(c.Payload.Length)
	if c.Payload.Mode == ModeDrain {
		length = scene.DrainLength()
	}

	g, m := c.Geometry, c.Motion
	return scene.Options{
		Geometry: scene.Geometry{
			DroneSize:       g.DroneSize,
			WireLength:      g.WireLength,
			RotorLength:     g.RotorLength,
			RotorLift:       g.RotorLift,
			TrapezoidTop:    g.TrapezoidTop,
			TrapezoidBottom: g.TrapezoidBottom,
			TrapezoidHeight: g.TrapezoidHeight,
			TimeScale:       g.TimeScale,
		},
		Motion: scene.Motion{
			BaseHeight:     m.BaseHeight,
			Amplitude:      m.Amplitude,
			Omega:          m.Omega,
			SwingAmplitude: m.SwingAmplitude,
			SwingPhase:     m.SwingPhase,
		},
		Fill:        c.Fill,
		AccelScale:  c.Accel.Scale,
		AccelWidth:  c.Accel.Width,
		AccelColors: accel,
		Payload: scene.PayloadStyle{
			Width:  c.Payload.Width,
			Colors: payload,
			Length: length,
		},
	}, nil
}

func (a ArrowConfig) policy() (scene.ColorPolicy, error) {
	pos, err := ParseColor(a.Color)
	if err != nil {
		return scene.ColorPolicy{}, err
	}
	if a.NegativeColor == "" {
		return scene.Uniform(pos), nil
	}
	neg, err := ParseColor(a.NegativeColor)
	if err != nil {
		return scene.ColorPolicy{}, err
	}
	return scene.ColorPolicy{Positive: pos, Negative: neg}, nil
}
