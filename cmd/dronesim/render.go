package main

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/export"
	"github.com/san-kum/dronesim/internal/render"
	"github.com/san-kum/dronesim/internal/scene"
	"github.com/san-kum/dronesim/internal/storage"
	"github.com/spf13/cobra"
)

const progressEvery = 50

// renderAndRecord draws every frame, writes the gif and, when st is set,
// records the run.
func renderAndRecord(ctx context.Context, w io.Writer, cfg *config.Config, st *storage.Store) error {
	fmt.Fprintf(w, "rendering %s: %d frames at %d fps\n", cfg.Variant, cfg.Frames, cfg.FPS)
	start := time.Now()

	frames, err := renderFrames(ctx, w, cfg)
	if err != nil {
		return err
	}

	meta := export.Metadata{
		Title:       cfg.Metadata.Title,
		Author:      cfg.Metadata.Author,
		Description: cfg.Metadata.Description,
	}
	if err := export.SaveGIF(cfg.Output, frames, cfg.FPS, meta); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	elapsed := time.Since(start)
	fmt.Fprintf(w, "saved %s (%v)\n", cfg.Output, elapsed.Round(time.Millisecond))

	if st == nil {
		return nil
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		Variant:     cfg.Variant,
		Frames:      cfg.Frames,
		FPS:         cfg.FPS,
		Fill:        cfg.Fill,
		Output:      cfg.Output,
		Title:       meta.Title,
		Author:      meta.Author,
		Description: meta.Description,
		ElapsedMS:   elapsed.Milliseconds(),
	}, storage.Rows(scene.Sequence(cfg.Frames, opts)))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "run: %s\n", id)
	return nil
}

// renderFrames uses the sequential animator, which reports progress, or
// the parallel renderer when more than one worker is requested.
func renderFrames(ctx context.Context, w io.Writer, cfg *config.Config) ([]*image.Paletted, error) {
	if workers > 1 {
		p, err := render.ParallelFromConfig(cfg, workers)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "  %d workers\n", workers)
		return p.Collect(ctx)
	}

	anim, err := render.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	frames := make([]*image.Paletted, 0, cfg.Frames)
	err = anim.Run(ctx, func(sc scene.Scene, img *image.Paletted) error {
		frames = append(frames, img)
		if n := len(frames); n%progressEvery == 0 || n == cfg.Frames {
			fmt.Fprintf(w, "  frame %d/%d\n", n, cfg.Frames)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

func inspectGIF(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	comments, err := export.ReadComments(f)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "file: %s\n", args[0])
	fmt.Fprintf(w, "size: %dx%d\n", anim.Config.Width, anim.Config.Height)
	fmt.Fprintf(w, "frames: %d\n", len(anim.Image))
	if len(anim.Delay) > 0 {
		fmt.Fprintf(w, "delay: %d/100 s (%.1f fps)\n", anim.Delay[0], 100/float64(max(anim.Delay[0], 1)))
	}
	loop := "forever"
	if anim.LoopCount > 0 {
		loop = fmt.Sprintf("%d times", anim.LoopCount)
	} else if anim.LoopCount < 0 {
		loop = "once"
	}
	fmt.Fprintf(w, "loop: %s\n", loop)

	for _, c := range comments {
		m := export.ParseMetadata(c)
		if m == (export.Metadata{}) {
			fmt.Fprintf(w, "comment: %s\n", c)
			continue
		}
		fmt.Fprintf(w, "title: %s\nauthor: %s\ndescription: %s\n", m.Title, m.Author, m.Description)
	}
	return nil
}
