package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/export"
	"github.com/san-kum/gaslaw/internal/metrics"
	"github.com/san-kum/gaslaw/internal/sim"
	"github.com/san-kum/gaslaw/internal/storage"
	"github.com/san-kum/gaslaw/internal/tui"
	"github.com/san-kum/gaslaw/internal/viz"
)

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: cfg.SampleEvery}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	if fromState != "" {
		snap, err := storage.ReadState(fromState)
		if err != nil {
			return err
		}
		if err := e.Restore(*snap); err != nil {
			return err
		}
	}
	s := sim.New(e)
	for _, m := range metrics.All() {
		s.AddMetric(m)
	}

	var live *tui.LiveRenderer
	if watch {
		live = tui.NewLiveRenderer(os.Stdout, e, frameRate)
		s.AddObserver(live)
		live.Start()
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("running", "scenario", cfg.Scenario, "seed", cfg.Seed, "duration", cfg.Duration)
	result, runErr := s.Run(ctx, simConfig(cfg))
	if live != nil {
		live.Stop()
	}
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", "err", runErr, "steps", result.StepsTaken)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	state := e.State()
	runID, err := st.Save(storage.RunMetadata{
		Scenario: cfg.Scenario,
		Preset:   preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}, result, &state)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	fmt.Printf("run %s: %d steps\n", runID, result.StepsTaken)
	printMetrics(result.Metrics)
	printOops(result.Oops)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.4f\n", name, m[name])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	title := cfg.Scenario
	if preset != "" {
		title += " / " + preset
	}
	m := viz.NewModel(e, cfg.Dt, stepsPerFrame, title).
		WithReset(cfg.Apply).
		WithGIFPath(gifPath)
	return viz.Run(m)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tSTEPS\tMEAN T\tPEAK P\tOOPS\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.1f\t%d\t%s\n",
			r.ID, r.Scenario, r.Preset, r.Steps,
			r.Metrics["mean_temperature"], r.Metrics["peak_pressure"], len(r.Oops),
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run: %w", err)
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

// loadPlotSource accepts a run id or a file written by export-json.
func loadPlotSource(arg string) (string, []sim.Sample, error) {
	if filepath.Ext(arg) == ".json" {
		data, err := storage.ReadJSON(arg)
		if err != nil {
			return "", nil, err
		}
		if len(data.Samples) == 0 {
			return "", nil, fmt.Errorf("%s has no samples", arg)
		}
		return fmt.Sprintf("%s  %s  dt=%g", arg, data.Scenario, data.Dt), data.Samples, nil
	}
	meta, samples, err := loadRun(arg)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s  seed=%d  steps=%d", meta.ID, meta.Seed, meta.Steps), samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	header, samples, err := loadPlotSource(args[0])
	if err != nil {
		return err
	}

	temps := make([]float64, 0, len(samples))
	pressures := make([]float64, len(samples))
	widths := make([]float64, len(samples))
	for i, s := range samples {
		if s.HasTemperature {
			temps = append(temps, s.Temperature)
		}
		pressures[i] = s.PressureKPa
		widths[i] = s.Width
	}

	fmt.Printf("%s\n\n", header)
	if len(temps) > 0 {
		fmt.Println(asciigraph.Plot(temps, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("temperature (K)")))
		fmt.Println()
	}
	fmt.Println(asciigraph.Plot(pressures, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("pressure (kPa)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(widths, asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("container width (pm)")))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + ".json"
	}
	if err := storage.ExportJSON(path, meta.Scenario, meta.Dt, meta.Duration, samples, meta.Metrics); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(samples), path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + ".csv"
	}
	if err := storage.ExportCSV(path, samples); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(samples), path)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + "." + format
	}
	var buf bytes.Buffer
	if err := export.HistoryChart(&buf, format, meta.ID, samples); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func histogramRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := sim.New(e).Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}

	hcfg := e.Setup().Histogram
	bins, binWidth, xName := result.Final.SpeedBins, hcfg.SpeedBinWidth, "speed (pm/ps)"
	if energyView {
		bins, binWidth, xName = result.Final.EnergyBins, hcfg.EnergyBinWidth, "kinetic energy (AMU·pm²/ps²)"
	}

	tags := e.System().Tags()
	if csvPath != "" {
		names := make([]string, len(tags))
		series := make([][]float64, len(tags))
		for i, tag := range tags {
			names[i], series[i] = tag.String(), bins[tag]
		}
		if err := storage.ExportHistogram(csvPath, binWidth, names, series); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("%s at t=%.1f ps", cfg.Scenario, result.Final.Time)
	if err := export.HistogramChart(&buf, format, title, xName, binWidth, tags, bins); err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = cfg.Scenario + "_histogram." + format
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	e, err := restoreRun(runID)
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.SceneToSVG(e, svgWidth)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	if statePath != "" {
		if err := storage.SaveState(statePath, e.State()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", statePath)
	}
	return nil
}

// restoreRun rebuilds the engine of a saved run from its final state.
func restoreRun(runID string) (*engine.Engine, error) {
	st, err := storage.New(dataDir).LoadState(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	cfg := config.DefaultConfig()
	cfg.Scenario = st.Scenario
	e, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	if err := e.Restore(*st); err != nil {
		return nil, err
	}
	return e, nil
}

func resumeRun(cmd *cobra.Command, args []string) error {
	prev, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	e, err := restoreRun(args[0])
	if err != nil {
		return err
	}

	s := sim.New(e)
	for _, m := range metrics.All() {
		s.AddMetric(m)
	}
	ctx, stop := signalContext()
	defer stop()

	logger.Info("resuming", "run", prev.ID, "time", e.Time())
	result, runErr := s.Run(ctx, sim.Config{Dt: dt, Duration: duration, SampleEvery: sampleEvery})
	if result == nil {
		return runErr
	}

	st := storage.New(dataDir)
	state := e.State()
	runID, err := st.Save(storage.RunMetadata{
		Scenario: prev.Scenario,
		Preset:   prev.Preset,
		Seed:     prev.Seed,
		Dt:       dt,
		Duration: duration,
	}, result, &state)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: resumed %s for %d steps\n", runID, prev.ID, result.StepsTaken)
	printMetrics(result.Metrics)
	printOops(result.Oops)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := engine.Scenarios
	if len(args) > 0 {
		scenarios = args[:1]
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPRESET\tHOLD\tPARTICLES\tT")
	for _, sc := range scenarios {
		names := config.ListPresets(sc)
		if names == nil {
			return fmt.Errorf("no presets for scenario %q", sc)
		}
		for _, name := range names {
			p := config.GetPreset(sc, name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%.0f\n", sc, name, p.HoldConstant, p.Particles.Counts, p.Particles.Temperature)
		}
	}
	return w.Flush()
}
