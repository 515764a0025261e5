package render

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/scene"
)

// Parallel renders contiguous frame ranges on separate targets. Each
// worker owns its target, so the glyph lifecycle holds per target.
type Parallel struct {
	NewTarget func() Target
	Options   scene.Options
	Frames    int
	Workers   int
	Palette   color.Palette
}

func ParallelFromConfig(cfg *config.Config, workers int) (*Parallel, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	style := DefaultStyle()
	layout := LayoutFromConfig(cfg)
	return &Parallel{
		NewTarget: func() Target { return NewPlotSurface(layout, style) },
		Options:   opts,
		Frames:    cfg.Frames,
		Workers:   workers,
		Palette:   Palette(style),
	}, nil
}

// Collect returns the frames in order. The first failing frame wins.
func (p *Parallel) Collect(ctx context.Context) ([]*image.Paletted, error) {
	if p.Frames <= 0 {
		return nil, ErrNoFrames
	}
	workers := min(max(p.Workers, 1), p.Frames)
	chunk := (p.Frames + workers - 1) / workers

	frames := make([]*image.Paletted, p.Frames)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, p.Frames)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(idx, lo, hi int) {
			defer wg.Done()

			a := &Animator{Target: p.NewTarget(), Options: p.Options, Palette: p.Palette}
			errs[idx] = a.runRange(ctx, lo, hi, func(sc scene.Scene, img *image.Paletted) error {
				frames[sc.Frame] = img
				return nil
			})
		}(w, lo, hi)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return frames, nil
}
