package scene

import "math"

// Time converts a frame index to scene time.
func (g Geometry) Time(frame int) float64 {
	scale := g.TimeScale
	if scale <= 0 {
		scale = DefaultTimeScale
	}
	return float64(frame) / scale
}

// DroneHeight is y(t) = base + A cos(wt).
func (m Motion) DroneHeight(t float64) float64 {
	return m.BaseHeight + m.Amplitude*math.Cos(m.Omega*t)
}

// DroneAccel is the analytic second derivative of DroneHeight.
func (m Motion) DroneAccel(t float64) float64 {
	return -m.Amplitude * m.Omega * m.Omega * math.Cos(m.Omega*t)
}

// PayloadHeight hangs the payload a wire length below the drone with a
// phase-shifted swing.
func (m Motion) PayloadHeight(t, droneY, wireLength float64) float64 {
	return droneY - wireLength + m.SwingAmplitude*math.Cos(m.Omega*t-m.SwingPhase)
}

// FillLevel is in [0, 1].
func FillLevel(t float64) float64 {
	return (math.Sin(t) + 1) / 2
}

// Template is the payload trapezoid hanging from the origin, ordered top
// left, top right, bottom right, bottom left.
func Template(g Geometry) [4]Point {
	top, bottom, h := g.TrapezoidTop/2, g.TrapezoidBottom/2, g.TrapezoidHeight
	return [4]Point{
		{-top, 0},
		{top, 0},
		{bottom, -h},
		{-bottom, -h},
	}
}

func translate(poly [4]Point, by Point) [4]Point {
	for i := range poly {
		poly[i] = poly[i].Add(by)
	}
	return poly
}

// InnerVertices keeps the outer bottom edge and raises the top edge
// toward the outer top edge by fill.
func InnerVertices(fill float64, outer [4]Point) [4]Point {
	tl, tr, br, bl := outer[0], outer[1], outer[2], outer[3]
	return [4]Point{
		bl.Lerp(tl, fill),
		br.Lerp(tr, fill),
		br,
		bl,
	}
}

// Compute derives all primitives for frame. It is pure: equal inputs
// yield bit-identical scenes.
func Compute(frame int, opts Options) Scene {
	g, m := opts.Geometry, opts.Motion
	t := g.Time(frame)

	drone := Point{X: 0, Y: m.DroneHeight(t)}
	accel := m.DroneAccel(t)
	accelLen := accel * opts.AccelScale

	half := g.DroneSize / 2
	left, right := drone.X-half, drone.X+half
	rotorY := drone.Y + g.RotorLift

	sc := Scene{
		Frame: frame,
		T:     t,
		Drone: drone,
		Accel: accel,
		Body:  Segment{Point{left, drone.Y}, Point{right, drone.Y}},
	}
	sc.Rotors[0] = Segment{Point{left - g.RotorLength, rotorY}, Point{left, rotorY}}
	sc.Rotors[1] = Segment{Point{right, rotorY}, Point{right + g.RotorLength, rotorY}}
	sc.Connectors[0] = Segment{sc.Body.A, sc.Rotors[0].Midpoint()}
	sc.Connectors[1] = Segment{sc.Body.B, sc.Rotors[1].Midpoint()}

	sc.Payload = Point{X: drone.X, Y: m.PayloadHeight(t, drone.Y, g.WireLength)}
	sc.Outer = translate(Template(g), sc.Payload)
	if opts.Fill {
		sc.Fill = FillLevel(t)
		sc.Inner = InnerVertices(sc.Fill, sc.Outer)
		sc.HasInner = true
	}
	sc.Wire = Segment{drone, sc.Payload}

	sc.AccelGlyph = vertical(drone, accelLen, opts.AccelWidth, opts.AccelColors.Pick(accelLen))

	payloadLen := DefaultFixedLength
	if opts.Payload.Length != nil {
		payloadLen = opts.Payload.Length(t)
	}
	sc.PayloadGlyph = vertical(
		Point{sc.Payload.X, sc.Payload.Y - g.TrapezoidHeight},
		payloadLen,
		opts.Payload.Width,
		opts.Payload.Colors.Pick(payloadLen),
	)
	sc.HasGlyphs = true
	return sc
}

// Blank is the state shown before the first frame: empty segments, the
// payload template at the origin and no glyphs.
func Blank(opts Options) Scene {
	sc := Scene{Frame: -1, Outer: Template(opts.Geometry), Empty: true}
	if opts.Fill {
		// the initial inner shape is the template at half scale
		for i, p := range sc.Outer {
			sc.Inner[i] = p.Scale(0.5)
		}
		sc.HasInner = true
	}
	return sc
}

// Sequence computes frames [0, n).
func Sequence(n int, opts Options) []Scene {
	if n <= 0 {
		return nil
	}
	out := make([]Scene, n)
	for f := range out {
		out[f] = Compute(f, opts)
	}
	return out
}
