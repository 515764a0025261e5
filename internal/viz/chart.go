package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Chart plots values as an ASCII line graph. Series longer than width are
// resampled by asciigraph.
func Chart(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	return asciigraph.Plot(values, opts...)
}
