package scene

import (
	"image/color"
	"math"
)

// Glyph is a transient arrow indicator. Length is signed along Direction.
type Glyph struct {
	Origin    Point
	Direction Point
	Length    float64
	Width     float64
	Color     color.Color
}

// arrowShape is the unit arrow: the shaft spans 80% of the length, the
// head the remaining 20%, with widths relative to Glyph.Width.
var arrowShape = [7]Point{
	{0.0, 0.1},
	{0.0, -0.1},
	{0.8, -0.1},
	{0.8, -0.3},
	{1.0, 0.0},
	{0.8, 0.3},
	{0.8, 0.1},
}

func vertical(origin Point, length, width float64, c color.Color) Glyph {
	return Glyph{
		Origin:    origin,
		Direction: Point{0, 1},
		Length:    length,
		Width:     width,
		Color:     c,
	}
}

// Delta is the displacement from the origin to the arrow tip.
func (g Glyph) Delta() Point {
	return g.Direction.Scale(g.Length)
}

func (g Glyph) Tip() Point {
	return g.Origin.Add(g.Delta())
}

// Outline returns the arrow polygon in scene coordinates. A zero length
// collapses the outline onto a segment through the origin.
func (g Glyph) Outline() []Point {
	d := g.Delta()
	l := math.Hypot(d.X, d.Y)
	sin, cos := math.Sincos(math.Atan2(d.Y, d.X))

	pts := make([]Point, len(arrowShape))
	for i, p := range arrowShape {
		u, v := p.X*l, p.Y*g.Width
		pts[i] = Point{
			X: g.Origin.X + u*cos - v*sin,
			Y: g.Origin.Y + u*sin + v*cos,
		}
	}
	return pts
}
