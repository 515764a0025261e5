package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/dronesim/internal/scene"
)

// Window is the world rectangle shown on the canvas.
type Window struct {
	XMin, XMax, YMin, YMax float64
}

func DefaultWindow() Window {
	return Window{XMin: -5, XMax: 5, YMin: -5, YMax: 5}
}

// CanvasSurface keeps the current primitives and rasterises them onto a
// Braille canvas on Draw.
type CanvasSurface struct {
	canvas   *Canvas
	window   Window
	theme    Theme
	lines    map[scene.LineID]scene.Segment
	polygons map[scene.PolygonID][]scene.Point
	glyphs   map[scene.GlyphHandle]scene.Glyph
	order    []scene.GlyphHandle
	next     scene.GlyphHandle
}

func NewCanvasSurface(cols, rows int, w Window, t Theme) *CanvasSurface {
	return &CanvasSurface{
		canvas:   NewCanvas(cols, rows),
		window:   w,
		theme:    t,
		lines:    make(map[scene.LineID]scene.Segment),
		polygons: make(map[scene.PolygonID][]scene.Point),
		glyphs:   make(map[scene.GlyphHandle]scene.Glyph),
	}
}

func (s *CanvasSurface) SetLine(id scene.LineID, seg scene.Segment) { s.lines[id] = seg }

func (s *CanvasSurface) ClearLine(id scene.LineID) { delete(s.lines, id) }

func (s *CanvasSurface) SetPolygon(id scene.PolygonID, pts []scene.Point) {
	s.polygons[id] = append([]scene.Point(nil), pts...)
}

func (s *CanvasSurface) AddGlyph(_ scene.GlyphID, g scene.Glyph) scene.GlyphHandle {
	s.next++
	s.glyphs[s.next] = g
	s.order = append(s.order, s.next)
	return s.next
}

func (s *CanvasSurface) RemoveGlyph(h scene.GlyphHandle) {
	if _, ok := s.glyphs[h]; !ok {
		return
	}
	delete(s.glyphs, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Glyphs reports the number of live glyphs.
func (s *CanvasSurface) Glyphs() int { return len(s.glyphs) }

// Reset drops every primitive.
func (s *CanvasSurface) Reset() {
	clear(s.lines)
	clear(s.polygons)
	clear(s.glyphs)
	s.order = s.order[:0]
}

func (s *CanvasSurface) SetTheme(t Theme) { s.theme = t }

func (s *CanvasSurface) Canvas() *Canvas { return s.canvas }

// project maps world coordinates to sub-pixels, y growing downward.
func (s *CanvasSurface) project(p scene.Point) (float64, float64) {
	w, h := s.canvas.Dots()
	x := (p.X - s.window.XMin) / (s.window.XMax - s.window.XMin) * float64(w-1)
	y := (s.window.YMax - p.Y) / (s.window.YMax - s.window.YMin) * float64(h-1)
	return x, y
}

func (s *CanvasSurface) fill(pts []scene.Point, ink lipgloss.Color) {
	xs, ys := make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = s.project(p)
	}
	s.canvas.Pen = ink
	s.canvas.FillPolygon(xs, ys)
}

func (s *CanvasSurface) line(seg scene.Segment, ink lipgloss.Color, dash int) {
	x0, y0 := s.project(seg.A)
	x1, y1 := s.project(seg.B)
	s.canvas.Pen = ink
	s.canvas.DrawDashed(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), dash)
}

// Draw repaints the canvas in the same layer order as the image
// renderer: polygons, glyphs, then lines.
func (s *CanvasSurface) Draw() *Canvas {
	s.canvas.Clear()

	if pts, ok := s.polygons[scene.PolygonOuter]; ok {
		s.fill(pts, s.theme.Payload)
	}
	if pts, ok := s.polygons[scene.PolygonInner]; ok {
		s.fill(pts, s.theme.Fill)
	}
	for _, h := range s.order {
		g := s.glyphs[h]
		s.fill(g.Outline(), Ink(g.Color))
	}
	for _, id := range scene.Lines {
		seg, ok := s.lines[id]
		if !ok {
			continue
		}
		switch id {
		case scene.LineRotorLeft, scene.LineRotorRight:
			s.line(seg, s.theme.Rotor, 0)
		case scene.LineWire:
			s.line(seg, s.theme.Wire, 2)
		default:
			s.line(seg, s.theme.Body, 0)
		}
	}
	s.canvas.Pen = ""
	return s.canvas
}
