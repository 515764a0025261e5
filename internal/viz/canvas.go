package viz

import (
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	// Ink is the colour of the last dot set in each cell; "" is unset.
	Ink [][]lipgloss.Color
	Pen lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]lipgloss.Color, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Dots is the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.Pen != "" {
		c.Ink[row][col] = c.Pen
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// IsSet reports whether the sub-pixel at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDashed draws every other run of dash sub-pixels along the line.
func (c *Canvas) DrawDashed(x0, y0, x1, y1, dash int) {
	if dash <= 0 {
		c.DrawLine(x0, y0, x1, y1)
		return
	}
	n := max(absInt(x1-x0), absInt(y1-y0))
	for i := 0; i <= n; i++ {
		if (i/dash)%2 == 1 {
			continue
		}
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		c.Set(x0+int(math.Round(t*float64(x1-x0))), y0+int(math.Round(t*float64(y1-y0))))
	}
}

// FillPolygon fills a closed polygon given in sub-pixel coordinates with
// an even-odd scanline. The outline is drawn too so thin shapes stay
// visible.
func (c *Canvas) FillPolygon(xs, ys []float64) {
	n := len(xs)
	if n < 3 || len(ys) != n {
		return
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	var nodes []float64
	for y := int(math.Ceil(minY)); y <= int(math.Floor(maxY)); y++ {
		fy := float64(y)
		nodes = nodes[:0]
		j := n - 1
		for i := 0; i < n; i++ {
			if (ys[i] < fy && ys[j] >= fy) || (ys[j] < fy && ys[i] >= fy) {
				nodes = append(nodes, xs[i]+(fy-ys[i])/(ys[j]-ys[i])*(xs[j]-xs[i]))
			}
			j = i
		}
		sort.Float64s(nodes)
		for k := 0; k+1 < len(nodes); k += 2 {
			for x := int(math.Ceil(nodes[k])); x <= int(math.Floor(nodes[k+1])); x++ {
				c.Set(x, y)
			}
		}
	}

	j := n - 1
	for i := 0; i < n; i++ {
		c.DrawLine(int(math.Round(xs[j])), int(math.Round(ys[j])), int(math.Round(xs[i])), int(math.Round(ys[i])))
		j = i
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each cell coloured by its ink.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			ink := c.Ink[i][j]
			if ink == "" || r == blank {
				b.WriteRune(r)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(ink).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image rasterises the dots into a two-colour frame with each cell
// charW x charH pixels.
func (c *Canvas) Image(charW, charH int, bg, fg color.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{bg, fg})
	dotW, dotH := max(charW/2, 1), max(charH/4, 1)
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
