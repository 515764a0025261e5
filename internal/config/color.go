package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// named accepts the single-letter and CSS names used by plotting tools.
var named = map[string]string{
	"k":         "#000000",
	"black":     "#000000",
	"w":         "#ffffff",
	"white":     "#ffffff",
	"b":         "#0000ff",
	"blue":      "#0000ff",
	"darkblue":  "#00008b",
	"g":         "#008000",
	"green":     "#008000",
	"darkgreen": "#006400",
	"r":         "#ff0000",
	"red":       "#ff0000",
	"darkred":   "#8b0000",
	"c":         "#00bfbf",
	"cyan":      "#00ffff",
	"m":         "#bf00bf",
	"magenta":   "#ff00ff",
	"y":         "#bfbf00",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"gray":      "#808080",
	"grey":      "#808080",
}

// ParseColor resolves a colour name or #rrggbb hex string.
func ParseColor(s string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[key]; ok {
		key = hex
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ColorNames returns the accepted colour names.
func ColorNames() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	return names
}
