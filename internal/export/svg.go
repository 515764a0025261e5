package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/dronesim/internal/scene"
)

// Viewport maps scene coordinates onto an SVG canvas.
type Viewport struct {
	Width, Height int
	XMin, XMax    float64
	YMin, YMax    float64
}

func DefaultViewport() Viewport {
	return Viewport{Width: 480, Height: 480, XMin: -5, XMax: 5, YMin: -5, YMax: 5}
}

func (v Viewport) project(p scene.Point) (float64, float64) {
	x := (p.X - v.XMin) / (v.XMax - v.XMin) * float64(v.Width)
	y := float64(v.Height) - (p.Y-v.YMin)/(v.YMax-v.YMin)*float64(v.Height)
	return x, y
}

func (v Viewport) points(pts []scene.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		x, y := v.project(p)
		parts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(parts, " ")
}

func hex(c color.Color) string {
	if c == nil {
		return "none"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// SceneToSVG renders a single frame as a standalone SVG document.
func SceneToSVG(sc scene.Scene, v Viewport) string {
	if v.Width <= 0 || v.Height <= 0 || v.XMax <= v.XMin || v.YMax <= v.YMin {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, v.Width, v.Height, v.Width, v.Height))

	sb.WriteString(fmt.Sprintf(`<polygon id="payload" points="%s" fill="#ff0000" stroke="#8b0000"/>
`, v.points(sc.Outer[:])))
	if sc.HasInner {
		sb.WriteString(fmt.Sprintf(`<polygon id="payload_fill" points="%s" fill="#0000ff" fill-opacity="0.7" stroke="#00008b"/>
`, v.points(sc.Inner[:])))
	}

	if sc.HasGlyphs {
		for _, g := range []struct {
			id    string
			glyph scene.Glyph
		}{{"accel", sc.AccelGlyph}, {"payload_arrow", sc.PayloadGlyph}} {
			sb.WriteString(fmt.Sprintf(`<polygon id="%s" points="%s" fill="%s"/>
`, g.id, v.points(g.glyph.Outline()), hex(g.glyph.Color)))
		}
	}

	if !sc.Empty {
		sb.WriteString(`<g stroke-linecap="butt">
`)
		for _, l := range []struct {
			id     string
			seg    scene.Segment
			stroke string
			extra  string
		}{
			{"body", sc.Body, "#000000", `stroke-width="2"`},
			{"rotor_left", sc.Rotors[0], "#0000ff", `stroke-width="2"`},
			{"rotor_right", sc.Rotors[1], "#0000ff", `stroke-width="2"`},
			{"connector_left", sc.Connectors[0], "#000000", `stroke-width="2"`},
			{"connector_right", sc.Connectors[1], "#000000", `stroke-width="2"`},
			{"wire", sc.Wire, "#000000", `stroke-width="1.5" stroke-dasharray="6,3"`},
		} {
			x1, y1 := v.project(l.seg.A)
			x2, y2 := v.project(l.seg.B)
			sb.WriteString(fmt.Sprintf(`<line id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" %s/>
`, l.id, x1, y1, x2, y2, l.stroke, l.extra))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
