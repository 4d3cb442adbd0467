package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gaslaw/internal/automation"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/metrics"
	"github.com/san-kum/gaslaw/internal/sim"
	"github.com/san-kum/gaslaw/internal/storage"
)

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	cfg, err := script.BaseConfig()
	if err != nil {
		return err
	}
	if script.Description != "" {
		fmt.Println(script.Description)
	}

	ctx, stop := signalContext()
	defer stop()

	result, e, err := automation.RunScript(ctx, script, logger, metrics.All()...)
	if result == nil {
		return err
	}
	if err != nil {
		logger.Error("script stopped", "err", err, "time", e.Time())
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	state := e.State()
	runID, saveErr := st.Save(storage.RunMetadata{
		Scenario: cfg.Scenario,
		Preset:   script.Preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}, result, &state)
	if saveErr != nil {
		return saveErr
	}
	fmt.Printf("run %s: script %q, %d steps\n", runID, script.Name, result.StepsTaken)
	printMetrics(result.Metrics)
	printOops(result.Oops)
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Settle:   sweepSettle,
	}, logger)
	if err != nil && len(results) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tT (K)\tP (kPa)\tV (pm²)\tN\tPV/NT\tOOPS\n", sweepParam)
	for _, r := range results {
		pvnt := 0.0
		if r.Temperature > 0 && r.Particles > 0 {
			pvnt = r.PressureKPa * r.Volume / (float64(r.Particles) * r.Temperature)
		}
		fmt.Fprintf(w, "%.3g\t%.1f\t%.2f\t%.4g\t%d\t%.4g\t%d\n",
			r.Value, r.Temperature, r.PressureKPa, r.Volume, r.Particles, pvnt, r.Oops)
	}
	w.Flush()
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", numRuns)
	}

	build := func(seed int64) (*engine.Engine, error) {
		c := cfg.Clone()
		c.Seed = seed
		return c.Build()
	}
	ens := sim.NewEnsemble(build, metrics.All, numRuns, cfg.Seed)

	ctx, stop := signalContext()
	defer stop()

	logger.Info("ensemble", "scenario", cfg.Scenario, "runs", numRuns, "seed", cfg.Seed)
	results, err := ens.Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}

	values := make(map[string][]float64)
	oops := 0
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
		oops += len(r.Oops)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD")
	for _, name := range sortedKeys(results[0].Metrics) {
		mean, std := stat.MeanStdDev(values[name], nil)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", name, mean, std)
	}
	w.Flush()
	fmt.Printf("%d runs, %d oops\n", len(results), oops)
	return nil
}
