package render

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/dronesim/internal/scene"
)

// Layout is the fixed figure setup: pixel size, axes and labels.
type Layout struct {
	Width, Height int
	DPI           int
	XMin, XMax    float64
	YMin, YMax    float64
	Title         string
	XLabel        string
	YLabel        string
	Grid          bool
}

type PolygonStyle struct {
	Fill color.Color
	Edge draw.LineStyle
}

// Style holds the drawing attributes of each primitive.
type Style struct {
	Lines    map[scene.LineID]draw.LineStyle
	Polygons map[scene.PolygonID]PolygonStyle
}

var (
	black    = color.RGBA{A: 0xff}
	blue     = color.RGBA{B: 0xff, A: 0xff}
	red      = color.RGBA{R: 0xff, A: 0xff}
	darkRed  = color.RGBA{R: 0x8b, A: 0xff}
	darkBlue = color.RGBA{B: 0x8b, A: 0xff}
	// blue at 70% opacity
	fillBlue = color.NRGBA{B: 0xff, A: 0xb3}
)

func DefaultStyle() Style {
	solid := func(c color.Color) draw.LineStyle {
		return draw.LineStyle{Color: c, Width: vg.Points(2)}
	}
	return Style{
		Lines: map[scene.LineID]draw.LineStyle{
			scene.LineBody:           solid(black),
			scene.LineRotorLeft:      solid(blue),
			scene.LineRotorRight:     solid(blue),
			scene.LineConnectorLeft:  solid(black),
			scene.LineConnectorRight: solid(black),
			scene.LineWire: {
				Color:  black,
				Width:  vg.Points(1.5),
				Dashes: []vg.Length{vg.Points(5.5), vg.Points(2.4)},
			},
		},
		Polygons: map[scene.PolygonID]PolygonStyle{
			scene.PolygonOuter: {Fill: red, Edge: draw.LineStyle{Color: darkRed, Width: vg.Points(1)}},
			scene.PolygonInner: {Fill: fillBlue, Edge: draw.LineStyle{Color: darkBlue, Width: vg.Points(1)}},
		},
	}
}

type glyphEntry struct {
	id    scene.GlyphID
	glyph scene.Glyph
}

// PlotSurface is a scene.Surface that rasterises through gonum/plot.
// It is not safe for concurrent use.
type PlotSurface struct {
	layout   Layout
	style    Style
	lines    map[scene.LineID]scene.Segment
	polygons map[scene.PolygonID][]scene.Point
	glyphs   map[scene.GlyphHandle]glyphEntry
	order    []scene.GlyphHandle
	next     scene.GlyphHandle
}

func NewPlotSurface(layout Layout, style Style) *PlotSurface {
	return &PlotSurface{
		layout:   layout,
		style:    style,
		lines:    make(map[scene.LineID]scene.Segment),
		polygons: make(map[scene.PolygonID][]scene.Point),
		glyphs:   make(map[scene.GlyphHandle]glyphEntry),
	}
}

func (s *PlotSurface) SetLine(id scene.LineID, seg scene.Segment) { s.lines[id] = seg }

func (s *PlotSurface) ClearLine(id scene.LineID) { delete(s.lines, id) }

func (s *PlotSurface) SetPolygon(id scene.PolygonID, pts []scene.Point) {
	s.polygons[id] = append(s.polygons[id][:0], pts...)
}

func (s *PlotSurface) AddGlyph(id scene.GlyphID, g scene.Glyph) scene.GlyphHandle {
	s.next++
	s.glyphs[s.next] = glyphEntry{id: id, glyph: g}
	s.order = append(s.order, s.next)
	return s.next
}

func (s *PlotSurface) RemoveGlyph(h scene.GlyphHandle) {
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

// Glyphs reports how many glyphs are currently on the surface.
func (s *PlotSurface) Glyphs() int { return len(s.glyphs) }

// Plot builds the figure for the current surface contents. Patches are
// added before lines so segments draw on top.
func (s *PlotSurface) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.layout.Title
	p.X.Label.Text = s.layout.XLabel
	p.Y.Label.Text = s.layout.YLabel
	if s.layout.Grid {
		p.Add(plotter.NewGrid())
	}

	for _, id := range []scene.PolygonID{scene.PolygonOuter, scene.PolygonInner} {
		pts, ok := s.polygons[id]
		if !ok || len(pts) == 0 {
			continue
		}
		poly, err := plotter.NewPolygon(xys(pts))
		if err != nil {
			return nil, fmt.Errorf("%s polygon: %w", id, err)
		}
		st := s.style.Polygons[id]
		poly.Color = st.Fill
		poly.LineStyle = st.Edge
		p.Add(poly)
	}

	for _, h := range s.order {
		e := s.glyphs[h]
		p.Add(arrow{outline: e.glyph.Outline(), color: e.glyph.Color})
	}

	for _, id := range scene.Lines {
		seg, ok := s.lines[id]
		if !ok {
			continue
		}
		line, err := plotter.NewLine(xys([]scene.Point{seg.A, seg.B}))
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", id, err)
		}
		line.LineStyle = s.style.Lines[id]
		p.Add(line)
	}

	// Add widens the axes to fit data ranges; fix the limits afterwards.
	p.X.Min, p.X.Max = s.layout.XMin, s.layout.XMax
	p.Y.Min, p.Y.Max = s.layout.YMin, s.layout.YMax
	return p, nil
}

// Render draws the current contents into an image of the layout size.
func (s *PlotSurface) Render() (image.Image, error) {
	p, err := s.Plot()
	if err != nil {
		return nil, err
	}
	dpi := float64(s.layout.DPI)
	w := vg.Length(float64(s.layout.Width)/dpi) * vg.Inch
	h := vg.Length(float64(s.layout.Height)/dpi) * vg.Inch

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(s.layout.DPI))
	p.Draw(draw.New(c))
	return c.Image(), nil
}

func xys(pts []scene.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i].X, out[i].Y = p.X, p.Y
	}
	return out
}

// arrow fills a glyph outline in data coordinates.
type arrow struct {
	outline []scene.Point
	color   color.Color
}

func (a arrow) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	pts := make([]vg.Point, len(a.outline))
	for i, q := range a.outline {
		pts[i] = vg.Point{X: trX(q.X), Y: trY(q.Y)}
	}
	c.FillPolygon(a.color, c.ClipPolygonXY(pts))
}
