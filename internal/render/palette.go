package render

import (
	"image"
	"image/color"
	"image/color/palette"
	imagedraw "image/draw"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/dronesim/internal/scene"
)

const maxPaletteSize = 256

// Palette starts with the exact scene colours, the composites of
// translucent fills over what they cover, then pads with Plan9 entries.
func Palette(style Style) color.Palette {
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	seen := make(map[color.RGBA]bool)
	var pal color.Palette
	add := func(c color.Color) {
		if c == nil {
			return
		}
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		if seen[rgba] || len(pal) >= maxPaletteSize {
			return
		}
		seen[rgba] = true
		pal = append(pal, rgba)
	}

	add(white)
	add(black)
	for _, id := range []scene.PolygonID{scene.PolygonOuter, scene.PolygonInner} {
		st, ok := style.Polygons[id]
		if !ok {
			continue
		}
		add(over(st.Fill, white))
		add(st.Edge.Color)
	}
	if in, ok := style.Polygons[scene.PolygonInner]; ok {
		if out, ok := style.Polygons[scene.PolygonOuter]; ok {
			add(over(in.Fill, out.Fill))
		}
	}
	for _, id := range scene.Lines {
		add(style.Lines[id].Color)
	}
	for _, c := range palette.Plan9 {
		add(c)
	}
	return pal
}

// over composites a possibly translucent src onto opaque dst.
func over(src, dst color.Color) color.Color {
	if src == nil {
		return dst
	}
	_, _, _, a := src.RGBA()
	if a == 0xffff {
		return src
	}
	alpha := float64(a) / 0xffff
	nrgba := color.NRGBAModel.Convert(src).(color.NRGBA)
	s := colorful.Color{R: float64(nrgba.R) / 0xff, G: float64(nrgba.G) / 0xff, B: float64(nrgba.B) / 0xff}
	d, _ := colorful.MakeColor(dst)
	return d.BlendRgb(s, alpha).Clamped()
}

// Quantize maps img onto pal without dithering; the artwork is flat.
func Quantize(img image.Image, pal color.Palette) *image.Paletted {
	b := img.Bounds()
	dst := image.NewPaletted(b, pal)
	imagedraw.Draw(dst, b, img, b.Min, imagedraw.Src)
	return dst
}
