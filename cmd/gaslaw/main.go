package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/thermo"
	"github.com/san-kum/gaslaw/internal/viz"
)

var (
	dataDir  string
	logLevel string
	theme    string
	logger   *log.Logger

	dt             float64
	duration       float64
	sampleEvery    int
	seed           int64
	preset         string
	configFile     string
	holdMode       string
	pressureSource string
	counts         map[string]int
	temperature    float64
	width          float64
	heatCool       float64
	noCollisions   bool
	lidOpen        bool
	saveConfig     string

	watch         bool
	frameRate     int
	stepsPerFrame int
	gifPath       string

	outPath     string
	format      string
	energyView  bool
	numRuns     int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepSettle float64
	svgWidth    int
	csvPath     string
	statePath   string
	fromState   string
)

// main registers the commands and runs the menu when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gaslaw",
		Short: "kinetic theory of gases in a box",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(viz.ThemeNames(), theme) {
				return fmt.Errorf("unknown theme %q (available: %v)", theme, viz.ThemeNames())
			}
			viz.SetTheme(theme)
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(stepsPerFrame)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gaslaw", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "lab", "color theme of the live view")
	rootCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 2, "engine ticks per frame")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "print text frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --watch")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this path")
	runCmd.Flags().StringVar(&fromState, "from-state", "", "start from a snapshot file instead of an empty container")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "interactive live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addEngineFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 2, "engine ticks per frame")
	liveCmd.Flags().StringVar(&gifPath, "gif", "gaslaw.gif", "GIF recording path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id | export.json]",
		Short: "plot temperature, pressure and width of a run or JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and metrics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.json)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.csv)")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render a temperature/pressure chart of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.<format>)")
	chartCmd.Flags().StringVar(&format, "format", "png", "png or svg")

	histogramCmd := &cobra.Command{
		Use:   "histogram [scenario]",
		Short: "run a scenario and chart its final speed or energy distribution",
		Args:  cobra.MaximumNArgs(1),
		RunE:  histogramRun,
	}
	addEngineFlags(histogramCmd)
	histogramCmd.Flags().StringVarP(&outPath, "out", "o", "", "output chart (default <scenario>_histogram.<format>)")
	histogramCmd.Flags().StringVar(&format, "format", "png", "png or svg")
	histogramCmd.Flags().BoolVar(&energyView, "energy", false, "chart kinetic energy instead of speed")
	histogramCmd.Flags().StringVar(&csvPath, "csv", "", "also write the bins as CSV")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "draw the final state of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")
	snapshotCmd.Flags().StringVar(&statePath, "state", "", "also write the snapshot as a standalone JSON file")

	resumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "continue a saved run from its final state",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeRun,
	}
	resumeCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "tick length (ps)")
	resumeCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "additional duration (ps)")
	resumeCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "ticks between samples")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run once per value of a parameter and tabulate T, P, V",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addEngineFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "width", "width, temperature, heat_cool or count:<species>")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 6000, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 15000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&sweepSettle, "settle", 0, "ps discarded before averaging")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scenario]",
		Short: "run copies with consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addEngineFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, chartCmd, histogramCmd,
		snapshotCmd, resumeCmd, presetsCmd, scriptCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "gaslaw", Level: lvl})
	return nil
}

func addEngineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "tick length (ps)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration (ps)")
	f.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "ticks between samples")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	f.StringVar(&preset, "preset", "", "start from a preset")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&holdMode, "hold", "nothing", "nothing, volume, temperature, pressureV or pressureT")
	f.StringVar(&pressureSource, "pressure", "analytic", "analytic or impulse")
	f.StringToIntVar(&counts, "count", nil, "particles per species, e.g. heavy=100,light=50")
	f.Float64Var(&temperature, "temperature", config.DefaultTemperature, "injection temperature (K)")
	f.Float64Var(&width, "width", 0, "container width (pm)")
	f.Float64Var(&heatCool, "heat-cool", 0, "heat/cool factor in [-1, 1]")
	f.BoolVar(&noCollisions, "no-collisions", false, "disable particle-particle collisions")
	f.BoolVar(&lidOpen, "lid-open", false, "start with the lid off")
}

// buildConfig resolves preset, then config file, then explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := config.DefaultScenario
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scenario = scenario
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("hold") {
		mode, err := thermo.ParseHoldConstant(holdMode)
		if err != nil {
			return nil, err
		}
		cfg.HoldConstant = mode
	}
	if flags.Changed("pressure") {
		src, err := thermo.ParsePressureSource(pressureSource)
		if err != nil {
			return nil, err
		}
		cfg.PressureSource = src
	}
	for name, n := range counts {
		cfg.Particles.Counts[strings.ToLower(name)] = n
	}
	if flags.Changed("temperature") {
		cfg.Particles.Temperature = temperature
	}
	if flags.Changed("width") {
		cfg.Container.Width = width
	}
	if flags.Changed("heat-cool") {
		cfg.HeatCool = heatCool
	}
	if flags.Changed("no-collisions") {
		cfg.Collisions = !noCollisions
	}
	if flags.Changed("lid-open") {
		cfg.Container.LidOpen = lidOpen
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	return cfg.Build(engine.WithLogger(logger))
}

// signalContext is cancelled by Ctrl-C so a long run still saves.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printOops(oops []thermo.Oops) {
	for _, o := range oops {
		fmt.Fprintln(os.Stderr, viz.OopsBanner(o.Message()))
	}
}
