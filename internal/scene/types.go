package scene

import (
	"image/color"
	"math"
)

const (
	DefaultDroneSize       = 1.3
	DefaultWireLength      = 1.6
	DefaultRotorLength     = 0.5
	DefaultRotorLift       = 0.2
	DefaultTrapezoidTop    = 0.8
	DefaultTrapezoidBottom = 0.4
	DefaultTrapezoidHeight = 0.6
	DefaultTimeScale       = 50.0

	DefaultBaseHeight     = 2.0
	DefaultAmplitude      = 1.0
	DefaultOmega          = 2.0
	DefaultSwingAmplitude = 0.1
	DefaultSwingPhase     = 0.5

	DefaultAccelScale  = 0.2
	DefaultAccelWidth  = 0.3
	DefaultFixedLength = -0.5
)

var (
	Green = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	Blue  = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
	Red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Lerp returns p + (o-p)*f.
func (p Point) Lerp(o Point, f float64) Point {
	return p.Add(o.Sub(p).Scale(f))
}

type Segment struct {
	A, B Point
}

func (s Segment) Length() float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y)
}

func (s Segment) Midpoint() Point {
	return s.A.Lerp(s.B, 0.5)
}

// Geometry holds the fixed dimensions of the drone and its payload.
type Geometry struct {
	DroneSize       float64
	WireLength      float64
	RotorLength     float64
	RotorLift       float64
	TrapezoidTop    float64
	TrapezoidBottom float64
	TrapezoidHeight float64
	// TimeScale is the number of frames per unit of scene time.
	TimeScale float64
}

func DefaultGeometry() Geometry {
	return Geometry{
		DroneSize:       DefaultDroneSize,
		WireLength:      DefaultWireLength,
		RotorLength:     DefaultRotorLength,
		RotorLift:       DefaultRotorLift,
		TrapezoidTop:    DefaultTrapezoidTop,
		TrapezoidBottom: DefaultTrapezoidBottom,
		TrapezoidHeight: DefaultTrapezoidHeight,
		TimeScale:       DefaultTimeScale,
	}
}

// Motion parametrises the scripted vertical oscillation.
type Motion struct {
	BaseHeight     float64
	Amplitude      float64
	Omega          float64
	SwingAmplitude float64
	SwingPhase     float64
}

func DefaultMotion() Motion {
	return Motion{
		BaseHeight:     DefaultBaseHeight,
		Amplitude:      DefaultAmplitude,
		Omega:          DefaultOmega,
		SwingAmplitude: DefaultSwingAmplitude,
		SwingPhase:     DefaultSwingPhase,
	}
}

// ColorPolicy picks an indicator colour from the sign of its length.
type ColorPolicy struct {
	Positive color.Color
	Negative color.Color
}

// Uniform returns a policy that ignores the sign.
func Uniform(c color.Color) ColorPolicy {
	return ColorPolicy{Positive: c, Negative: c}
}

func (p ColorPolicy) Pick(length float64) color.Color {
	if length > 0 {
		return p.Positive
	}
	return p.Negative
}

// LengthFunc maps scene time to a signed indicator length.
type LengthFunc func(t float64) float64

func FixedLength(v float64) LengthFunc {
	return func(float64) float64 { return v }
}

// DrainLength is the payload indicator of the filling variant: it
// oscillates in [-1, 0].
func DrainLength() LengthFunc {
	return func(t float64) float64 { return (math.Sin(t+math.Pi) - 1) / 2 }
}

type PayloadStyle struct {
	Width  float64
	Colors ColorPolicy
	Length LengthFunc
}

type Options struct {
	Geometry Geometry
	Motion   Motion
	// Fill enables the inner polygon showing the payload fill level.
	Fill        bool
	AccelScale  float64
	AccelWidth  float64
	AccelColors ColorPolicy
	Payload     PayloadStyle
}

// SimpleOptions reproduces the plain drone animation.
func SimpleOptions() Options {
	return Options{
		Geometry:    DefaultGeometry(),
		Motion:      DefaultMotion(),
		AccelScale:  DefaultAccelScale,
		AccelWidth:  DefaultAccelWidth,
		AccelColors: Uniform(Green),
		Payload: PayloadStyle{
			Width:  0.2,
			Colors: Uniform(Blue),
			Length: FixedLength(DefaultFixedLength),
		},
	}
}

// FillOptions reproduces the animation with a filling payload.
func FillOptions() Options {
	opts := SimpleOptions()
	opts.Fill = true
	opts.Payload = PayloadStyle{
		Width:  0.3,
		Colors: Uniform(Red),
		Length: DrainLength(),
	}
	return opts
}

// Scene is the complete geometry for one frame.
type Scene struct {
	Frame   int
	T       float64
	Drone   Point
	Accel   float64
	Payload Point
	Fill    float64

	Body       Segment
	Rotors     [2]Segment
	Connectors [2]Segment
	Wire       Segment

	Outer    [4]Point
	Inner    [4]Point
	HasInner bool

	AccelGlyph   Glyph
	PayloadGlyph Glyph
	HasGlyphs    bool
	// Empty marks the pre-animation state whose segments are not drawn.
	Empty bool
}
