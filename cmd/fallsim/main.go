package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/fallsim/internal/config"
	"github.com/san-kum/fallsim/internal/export"
	"github.com/san-kum/fallsim/internal/fall"
	"github.com/san-kum/fallsim/internal/logger"
	"github.com/san-kum/fallsim/internal/metrics"
	"github.com/san-kum/fallsim/internal/storage"
	"github.com/san-kum/fallsim/internal/sweep"
	"github.com/san-kum/fallsim/internal/tui"
	"github.com/san-kum/fallsim/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	logFormat  string

	mass    float64
	height  float64
	gravity float64
	rho     float64
	area    float64
	cd      float64
	dt      float64

	outPath   string
	svgPath   string
	jsonPath  string
	showPlot  bool
	noHistory bool

	sweepParam   string
	sweepFrom    float64
	sweepTo      float64
	sweepN       int
	sweepWorkers int
)

var titles = map[string]string{
	config.ModelFree: "free fall",
	config.ModelDrag: "free fall with air drag",
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "fallsim",
		Short:         "free fall with and without air drag",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			return runInteractive(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "body preset (see 'fallsim presets')")
	pf.StringVar(&dataDir, "data", ".fallsim", "run history directory")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: console, text, json")

	runCmd := &cobra.Command{
		Use:       "run [free|drag]",
		Short:     "simulate a fall and export it to CSV",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{config.ModelFree, config.ModelDrag},
		RunE:      runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "CSV output path, '-' for stdout (default from config)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "also write a height plot as SVG")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "also write the run as JSON")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print height and speed plots")
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the run in the history")

	liveCmd := &cobra.Command{
		Use:       "live [free|drag]",
		Short:     "animate a fall, then export it to CSV",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{config.ModelFree, config.ModelDrag},
		RunE:      runLive,
	}
	addParamFlags(liveCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [csv]",
		Short: "plot an exported trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCSV,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare the same body with and without drag",
		Args:  cobra.NoArgs,
		RunE:  compareModels,
	}
	addParamFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "landing time of the drag model over a parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "mass", "parameter to vary: "+strings.Join(sweep.Params(), ", "))
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 20, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel simulations (0 = one per CPU)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list body presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, compareCmd, sweepCmd, presetsCmd, historyCmd, showCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.L().Error("command failed", "error", err)
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&mass, "mass", config.DefaultMass, "mass (kg)")
	f.Float64Var(&height, "height", config.DefaultHeight, "initial height (m)")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration (m/s²)")
	f.Float64Var(&rho, "rho", config.DefaultAirDensity, "air density (kg/m³)")
	f.Float64Var(&area, "area", config.DefaultArea, "cross-sectional area (m²)")
	f.Float64Var(&cd, "cd", config.DefaultDragCoefficient, "drag coefficient")
	f.Float64Var(&dt, "dt", fall.DefaultTimeStep, "time step (s)")
}

// loadConfig resolves defaults < preset < config file < explicit flags and
// installs the logger.
func loadConfig(cmd *cobra.Command, logOut io.Writer) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}

	if configFile != "" {
		if err := cfg.Overlay(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"mass", &cfg.Body.Mass, mass},
		{"height", &cfg.Body.Height, height},
		{"gravity", &cfg.Environment.Gravity, gravity},
		{"rho", &cfg.Environment.AirDensity, rho},
		{"area", &cfg.Drag.Area, area},
		{"cd", &cfg.Drag.Coefficient, cd},
		{"dt", &cfg.TimeStep, dt},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.dst = o.src
		}
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: logOut})

	return cfg, nil
}

func modelArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Model
}

func simulate(cfg *config.Config, model string) (fall.Trajectory, fall.DragParams, error) {
	logger.L().Debug("simulating",
		"model", model,
		"time_step", cfg.TimeStep,
		"mass", cfg.Body.Mass,
		"height", cfg.Body.Height,
		"gravity", cfg.Environment.Gravity,
	)

	switch model {
	case config.ModelFree:
		sim := fall.NewFreeFallSimulator()
		sim.TimeStep = cfg.TimeStep
		p := cfg.FreeFallParams()
		traj, err := sim.Simulate(p)
		return traj, fall.DragParams{Params: p}, err
	case config.ModelDrag:
		sim := fall.NewDragFallSimulator()
		sim.TimeStep = cfg.TimeStep
		p := cfg.DragParams()
		logger.L().Debug("drag properties",
			"air_density", p.AirDensity,
			"area", p.Area,
			"drag_coefficient", p.DragCoefficient,
		)
		traj, err := sim.Simulate(p)
		return traj, p, err
	}
	return nil, fall.DragParams{}, fmt.Errorf("%w: %q", config.ErrUnknownModel, model)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	model := modelArg(cfg, args)

	traj, params, err := simulate(cfg, model)
	if err != nil {
		return err
	}
	summary := metrics.Summarize(traj, params.Mass, params.Gravity)
	logger.L().Info("simulation finished",
		"model", model,
		"samples", summary.Samples,
		"duration", summary.Duration,
		"impact_speed", summary.ImpactSpeed,
	)

	if outPath == "-" {
		return export.WriteCSV(os.Stdout, traj)
	}

	path := outPath
	if path == "" {
		path = cfg.OutputPath(model)
	}
	if err := export.Save(path, traj); err != nil {
		return err
	}
	logger.L().Info("trajectory exported", "path", path)

	meta := storage.RunMetadata{
		Model:    model,
		TimeStep: cfg.TimeStep,
		Params:   params,
		Output:   path,
		Metrics:  summary.Map(),
	}

	if svgPath != "" {
		svg := export.TrajectoryToSVG(traj, 800, 400, "#00ccff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.L().Info("plot exported", "path", svgPath)
	}

	if jsonPath != "" {
		if err := writeJSON(jsonPath, meta, traj); err != nil {
			return err
		}
		logger.L().Info("run exported", "path", jsonPath)
	}

	if !noHistory {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, traj)
		if err != nil {
			return err
		}
		logger.L().Debug("run recorded", "id", id)
	}

	fmt.Printf("Data saved to '%s'\n\n", path)
	if err := printSummary(os.Stdout, model, params, summary); err != nil {
		return err
	}
	if showPlot {
		printPlots(traj)
	}
	return nil
}

func writeJSON(path string, meta storage.RunMetadata, traj fall.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(out io.Writer, model string, p fall.DragParams, s metrics.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", titles[model])
	fmt.Fprintf(w, "samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "landing time\t%.3f s\n", s.Duration)
	fmt.Fprintf(w, "impact speed\t%.3f m/s\n", s.ImpactSpeed)
	fmt.Fprintf(w, "mean speed\t%.3f m/s\n", s.MeanSpeed)
	if model == config.ModelDrag {
		fmt.Fprintf(w, "terminal velocity\t%.3f m/s\n", p.TerminalVelocity())
	}
	fmt.Fprintf(w, "potential energy\t%.3f J\n", s.PotentialEnergy)
	fmt.Fprintf(w, "impact energy\t%.3f J\n", s.ImpactEnergy)
	if model == config.ModelDrag {
		fmt.Fprintf(w, "lost to drag\t%.3f J\n", s.DragLoss)
	}
	return w.Flush()
}

func printPlots(traj fall.Trajectory) {
	fmt.Println()
	fmt.Println(viz.PlotSeries(traj.Heights(), "height (m) vs time"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(traj.Speeds(), "speed (m/s) vs time"))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}
	model := modelArg(cfg, args)

	traj, _, err := simulate(cfg, model)
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Playback.IntervalMS) * time.Millisecond
	if err := viz.Play(traj, titles[model], interval); err != nil {
		return err
	}

	path := cfg.OutputPath(model)
	if err := export.Save(path, traj); err != nil {
		return err
	}
	logger.L().Info("trajectory exported", "path", path)
	fmt.Printf("Data saved to '%s'\n", path)
	return nil
}

func plotCSV(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd, os.Stderr); err != nil {
		return err
	}

	traj, err := export.Load(args[0])
	if err != nil {
		return err
	}
	if len(traj) < 2 {
		return fmt.Errorf("no data to plot in %s", args[0])
	}

	last := traj.Last()
	fmt.Printf("file: %s\n", args[0])
	fmt.Printf("samples: %d\n", len(traj))
	fmt.Printf("duration: %.2f s\n", last.Time)
	printPlots(traj)
	return nil
}

func compareModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}

	free, _, err := simulate(cfg, config.ModelFree)
	if err != nil {
		return err
	}
	drag, p, err := simulate(cfg, config.ModelDrag)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tSAMPLES\tLANDING\tIMPACT")
	for _, row := range []struct {
		model string
		traj  fall.Trajectory
	}{{config.ModelFree, free}, {config.ModelDrag, drag}} {
		last := row.traj.Last()
		fmt.Fprintf(w, "%s\t%d\t%.3fs\t%.3fm/s\n", row.model, len(row.traj), last.Time, last.Speed)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nterminal velocity with drag: %.3f m/s\n\n", p.TerminalVelocity())

	fmt.Println(viz.PlotHeights("height (m): free (green) vs drag (yellow)", free, drag))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Stderr)
	if err != nil {
		return err
	}

	values := sweep.Linspace(sweepFrom, sweepTo, sweepN)
	start := time.Now()
	points, err := sweep.Run(cmd.Context(), cfg.DragParams(), sweep.Config{
		Param:    sweepParam,
		Values:   values,
		TimeStep: cfg.TimeStep,
		Workers:  sweepWorkers,
	})
	if err != nil {
		return err
	}
	logger.L().Info("sweep finished", "param", sweepParam, "points", len(points), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tLANDING\tIMPACT\tTERMINAL\tSAMPLES\n", strings.ToUpper(sweepParam))
	landing := make([]float64, len(points))
	for i, pt := range points {
		landing[i] = pt.LandingTime
		fmt.Fprintf(w, "%g\t%.3fs\t%.3fm/s\t%.3fm/s\t%d\n",
			pt.Value, pt.LandingTime, pt.ImpactSpeed, pt.TerminalVelocity, pt.Samples)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plot := viz.PlotSeries(landing, fmt.Sprintf("landing time (s) vs %s", sweepParam)); plot != "" {
		fmt.Println()
		fmt.Println(plot)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tHEIGHT\tAREA\tCD\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gkg\t%gm\t%gm²\t%g\t%s\n", name, p.Mass, p.Height, p.Area, p.DragCoefficient, p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tHEIGHT\tLANDING\tIMPACT\tOUTPUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%gm\t%.2fs\t%.2fm/s\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Height,
			run.Metrics["duration"],
			run.Metrics["impact_speed"],
			run.Output,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("recorded: %s\n\n", meta.Timestamp.Format(time.RFC3339))
	summary := metrics.Summarize(traj, meta.Params.Mass, meta.Params.Gravity)
	if err := printSummary(os.Stdout, meta.Model, meta.Params, summary); err != nil {
		return err
	}
	printPlots(traj)
	return nil
}

// runInteractive starts the full-screen menu. Log output would corrupt the
// screen, so it goes to the configured file or nowhere.
func runInteractive(cmd *cobra.Command) error {
	var logOut io.Writer = io.Discard
	cfg, err := loadConfig(cmd, logOut)
	if err != nil {
		return err
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: f})
	}
	return tui.RunInteractive(cfg)
}
