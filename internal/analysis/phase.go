package analysis

import (
	"strings"
)

type PhasePoint struct{ X, Y float64 }

// PhasePortrait pairs two series sample by sample, e.g. payload height
// against drone height.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []PhasePoint
}

// NewPhasePortrait truncates to the shorter series.
func NewPhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) *PhasePortrait {
	n := min(len(xs), len(ys))
	p := &PhasePortrait{XLabel: xLabel, YLabel: yLabel, Points: make([]PhasePoint, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = PhasePoint{xs[i], ys[i]}
	}
	return p
}

func (p *PhasePortrait) bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	return
}

// ASCII plots the portrait on a width x height character grid with a
// 10% margin around the data.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX, minY, maxY := p.bounds()
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	if p.YLabel != "" {
		sb.WriteString(p.YLabel + "\n")
	}
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	if p.XLabel != "" {
		sb.WriteString(strings.Repeat(" ", max(width-len(p.XLabel), 0)) + p.XLabel + "\n")
	}
	return sb.String()
}
