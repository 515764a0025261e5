package render

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/scene"
)

// Target is a surface that can also produce a raster of its contents.
type Target interface {
	scene.Surface
	Render() (image.Image, error)
}

// FrameFunc receives each rendered frame in order.
type FrameFunc func(sc scene.Scene, img *image.Paletted) error

// Animator drives the scene updater over a fixed frame count.
type Animator struct {
	Target  Target
	Options scene.Options
	Frames  int
	Palette color.Palette
}

// LayoutFromConfig maps the canvas and axes settings onto a Layout.
func LayoutFromConfig(cfg *config.Config) Layout {
	return Layout{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		DPI:    cfg.Canvas.DPI,
		XMin:   cfg.Axes.XMin,
		XMax:   cfg.Axes.XMax,
		YMin:   cfg.Axes.YMin,
		YMax:   cfg.Axes.YMax,
		Title:  cfg.Axes.Title,
		XLabel: cfg.Axes.XLabel,
		YLabel: cfg.Axes.YLabel,
		Grid:   cfg.Axes.Grid,
	}
}

// FromConfig builds an animator drawing on a PlotSurface.
func FromConfig(cfg *config.Config) (*Animator, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	style := DefaultStyle()
	return &Animator{
		Target:  NewPlotSurface(LayoutFromConfig(cfg), style),
		Options: opts,
		Frames:  cfg.Frames,
		Palette: Palette(style),
	}, nil
}

// Run pushes the blank scene, then every frame with an incrementing
// index, rasterising after each update. The context is checked between
// frames.
func (a *Animator) Run(ctx context.Context, fn FrameFunc) error {
	if a.Frames <= 0 {
		return ErrNoFrames
	}
	return a.runRange(ctx, 0, a.Frames, fn)
}

func (a *Animator) runRange(ctx context.Context, lo, hi int, fn FrameFunc) error {
	pal := a.Palette
	if len(pal) == 0 {
		pal = Palette(DefaultStyle())
	}

	ov := scene.Apply(a.Target, scene.Blank(a.Options), scene.Overlay{})
	for f := lo; f < hi; f++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sc := scene.Compute(f, a.Options)
		ov = scene.Apply(a.Target, sc, ov)

		img, err := a.Target.Render()
		if err != nil {
			return &FrameError{Frame: f, Wrapped: fmt.Errorf("%w: %v", ErrRender, err)}
		}
		if fn == nil {
			continue
		}
		if err := fn(sc, Quantize(img, pal)); err != nil {
			return &FrameError{Frame: f, Wrapped: err}
		}
	}
	return nil
}

// Collect runs the animation and keeps every frame in memory.
func (a *Animator) Collect(ctx context.Context) ([]*image.Paletted, error) {
	frames := make([]*image.Paletted, 0, max(a.Frames, 0))
	err := a.Run(ctx, func(_ scene.Scene, img *image.Paletted) error {
		frames = append(frames, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}
