package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dronesim/internal/analysis"
	"github.com/san-kum/dronesim/internal/automation"
	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/export"
	"github.com/san-kum/dronesim/internal/scene"
	"github.com/san-kum/dronesim/internal/storage"
	"github.com/san-kum/dronesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	// render overrides
	frames  int
	fps     int
	output  string
	fill    bool
	noSave  bool
	workers int
	// live view
	loop  bool
	theme string
	// plot / analyze
	runID  string
	fields string
	// svg
	frameIndex int
	svgOut     string
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dronesim",
		Short:         "drone with payload animations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dronesim", "run store directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset configuration (simple, fill)")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render an animation to gif",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderAnimation,
	}
	addOverrideFlags(renderCmd)
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the store")
	renderCmd.Flags().IntVar(&workers, "workers", 1, "render frames on this many goroutines")

	renderAllCmd := &cobra.Command{
		Use:   "render-all",
		Short: "render every variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, automation.DefaultScenario())
		},
	}
	renderAllCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the runs in the store")
	renderAllCmd.Flags().IntVar(&workers, "workers", 1, "render frames on this many goroutines")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "render the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return fmt.Errorf("failed to load scenario: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scenario: %s\n", sc.Name)
			return runScenario(cmd, sc)
		},
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the runs in the store")
	scenarioCmd.Flags().IntVar(&workers, "workers", 1, "render frames on this many goroutines")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "play the animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addOverrideFlags(liveCmd)
	liveCmd.Flags().BoolVar(&loop, "loop", false, "restart after the last frame")
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	plotCmd := &cobra.Command{
		Use:   "plot [preset]",
		Short: "plot trace fields",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTrace,
	}
	addOverrideFlags(plotCmd)
	plotCmd.Flags().StringVar(&runID, "run", "", "plot a stored run instead")
	plotCmd.Flags().StringVar(&fields, "fields", "drone_y,accel,payload_y", "comma separated trace fields")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [preset]",
		Short: "frequency analysis of the motion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeTrace,
	}
	addOverrideFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&runID, "run", "", "analyze a stored run instead")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep a motion or geometry parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "omega", "parameter ("+strings.Join(automation.SweepParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	svgCmd := &cobra.Command{
		Use:   "svg [preset]",
		Short: "export a single frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addOverrideFlags(svgCmd)
	svgCmd.Flags().IntVar(&frameIndex, "frame", 0, "frame index")
	svgCmd.Flags().StringVar(&svgOut, "svg-out", "", "svg output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file for the selected preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[0], cfg.Variant)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [gif]",
		Short: "show frame count, timing and metadata of a gif",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectGIF,
	}

	rootCmd.AddCommand(renderCmd, renderAllCmd, scenarioCmd, liveCmd, plotCmd, analyzeCmd, sweepCmd, svgCmd,
		presetsCmd, initCmd, listCmd, exportCSVCmd, exportJSONCmd, inspectCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output gif path")
	cmd.Flags().BoolVar(&fill, "fill", false, "draw the payload fill polygon")
}

// resolveConfig picks the preset from the argument or --preset, loads
// --config over it, then applies the flags the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownPreset, name, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("fill") {
		cfg.Fill = fill
	}

	return cfg, cfg.Validate()
}

func renderAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	return renderAndRecord(cmd.Context(), cmd.OutOrStdout(), cfg, runStore())
}

func runStore() *storage.Store {
	if noSave {
		return nil
	}
	return storage.New(dataDir)
}

func runScenario(cmd *cobra.Command, sc *automation.Scenario) error {
	w := cmd.OutOrStdout()
	st := runStore()
	done, err := automation.RunScenario(cmd.Context(), sc, w, func(ctx context.Context, cfg *config.Config) error {
		return renderAndRecord(ctx, w, cfg, st)
	})
	fmt.Fprintf(w, "rendered %d/%d\n", len(done), len(sc.Steps))
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	m := viz.NewModel(opts, viz.LiveOptions{
		Frames: cfg.Frames,
		FPS:    cfg.FPS,
		Loop:   loop,
		Theme:  theme,
		Window: viz.Window{XMin: cfg.Axes.XMin, XMax: cfg.Axes.XMax, YMin: cfg.Axes.YMin, YMax: cfg.Axes.YMax},
		Title:  cfg.Metadata.Title,
	})

	p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// traceRows computes the trace of the resolved config, or loads the
// stored run named by --run.
func traceRows(cmd *cobra.Command, args []string) (string, []storage.TraceRow, error) {
	if runID != "" {
		st := storage.New(dataDir)
		meta, err := st.Load(runID)
		if err != nil {
			return "", nil, err
		}
		rows, err := st.LoadTrace(runID)
		if err != nil {
			return "", nil, err
		}
		return meta.ID, rows, nil
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return "", nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return "", nil, err
	}
	return cfg.Variant, storage.Rows(scene.Sequence(cfg.Frames, opts)), nil
}

func plotTrace(cmd *cobra.Command, args []string) error {
	name, rows, err := traceRows(cmd, args)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "trace: %s\n", name)
	fmt.Fprintf(w, "frames: %d\n\n", len(rows))

	for _, field := range strings.Split(fields, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		data, err := storage.Column(rows, field)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, viz.Chart(data, field+" vs frame", 80, 10))
		fmt.Fprintln(w)
	}
	return nil
}

func analyzeTrace(cmd *cobra.Command, args []string) error {
	name, rows, err := traceRows(cmd, args)
	if err != nil {
		return err
	}
	if len(rows) < 4 {
		return fmt.Errorf("not enough frames to analyze: %d", len(rows))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "frequency analysis: %s\n\n", name)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tMIN\tMAX\tMEAN\tRMS\tP2P")
	for _, field := range storage.Columns()[1:] {
		data, _ := storage.Column(rows, field)
		s := analysis.Summarize(data)
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", field, s.Min, s.Max, s.Mean, s.RMS, s.PeakToPeak)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	heights, _ := storage.Column(rows, "drone_y")
	times, _ := storage.Column(rows, "t")

	n := analysis.NextPow2(len(heights))
	ps := analysis.PowerSpectrum(analysis.Pad(heights, n))
	fmt.Fprintln(w, viz.Chart(ps[1:max(len(ps)/4, 2)], "power spectrum (drone_y)", 80, 12))
	fmt.Fprintln(w)

	if hz := analysis.DominantFrequency(heights, 1); hz > 0 {
		period := 1 / hz
		fmt.Fprintf(w, "dominant frequency: %.5f cycles/frame\n", hz)
		fmt.Fprintf(w, "period: %.1f frames", period)
		if len(times) > 1 && times[1] > times[0] {
			fmt.Fprintf(w, " (%.3f time units)", period*(times[1]-times[0]))
		}
		fmt.Fprintln(w)
	}
	if period, ok := analysis.CrossingPeriod(heights); ok {
		fmt.Fprintf(w, "crossing period: %.1f frames\n", period)
	}

	payload, _ := storage.Column(rows, "payload_y")
	portrait := analysis.NewPhasePortrait("drone_y", heights, "payload_y", payload)
	fmt.Fprintln(w)
	fmt.Fprint(w, portrait.ASCII(60, 15))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		name = "simple"
	}

	w := cmd.OutOrStdout()
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Preset:   name,
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tPERIOD\tDRONE\tPAYLOAD\tPEAK ACCEL\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		period := "-"
		if r.Period > 0 {
			period = fmt.Sprintf("%.1f", r.Period)
		}
		fmt.Fprintf(tw, "%.4f\t%s\t[%.3f, %.3f]\t[%.3f, %.3f]\t%.3f\n",
			r.ParamValue, period, r.DroneMin, r.DroneMax, r.PayloadMin, r.PayloadMax, r.PeakAccel)
	}
	return tw.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if frameIndex < 0 {
		return fmt.Errorf("frame must be non-negative: %d", frameIndex)
	}

	svg := export.SceneToSVG(scene.Compute(frameIndex, opts), export.Viewport{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		XMin:   cfg.Axes.XMin,
		XMax:   cfg.Axes.XMax,
		YMin:   cfg.Axes.YMin,
		YMax:   cfg.Axes.YMax,
	})
	if svgOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "frame %d saved to %s\n", frameIndex, svgOut)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFRAMES\tFILL\tPAYLOAD ARROW\tOUTPUT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		arrow := fmt.Sprintf("%s %s", cfg.Payload.Mode, cfg.Payload.Color)
		fmt.Fprintf(tw, "%s\t%d\t%v\t%s\t%s\n", name, cfg.Frames, cfg.Fill, arrow, cfg.Output)
	}
	return tw.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVARIANT\tTIME\tFRAMES\tFPS\tOUTPUT\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%dms\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Output,
			run.ElapsedMS,
		)
	}
	return tw.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	rows, err := storage.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(cmd.OutOrStdout(), rows)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), *meta, rows)
}
