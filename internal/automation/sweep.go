package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/sim"
)

// Sweep runs one simulation per value of a single parameter. Param is
// "width", "temperature", "heat_cool" or "count:<species>".
type Sweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	// Settle is discarded from the start of each run before averaging.
	Settle float64
}

// SweepResult holds the time-averaged state of one run.
type SweepResult struct {
	Value       float64
	Temperature float64
	PressureKPa float64
	Volume      float64
	Particles   int
	Oops        int
}

func (sw *Sweep) apply(cfg *config.Config, v float64) error {
	switch {
	case sw.Param == "width":
		cfg.Container.Width = v
	case sw.Param == "temperature":
		cfg.Particles.Temperature = v
	case sw.Param == "heat_cool":
		cfg.HeatCool = v
	case strings.HasPrefix(sw.Param, "count:"):
		name := strings.TrimPrefix(sw.Param, "count:")
		if _, err := kinetics.ParseTag(name); err != nil {
			return err
		}
		cfg.Particles.Counts[name] = int(v + 0.5)
	default:
		return fmt.Errorf("unknown sweep parameter %q", sw.Param)
	}
	return nil
}

// RunSweep executes a parameter sweep.
func RunSweep(ctx context.Context, sw *Sweep, logger *log.Logger) ([]SweepResult, error) {
	if sw.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sw.NumSteps)
	}
	results := make([]SweepResult, 0, sw.NumSteps)
	paramStep := (sw.Max - sw.Min) / float64(sw.NumSteps-1)

	for i := 0; i < sw.NumSteps; i++ {
		paramVal := sw.Min + float64(i)*paramStep
		cfg := sw.Base.Clone()
		if err := sw.apply(cfg, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sw.Param, paramVal, err)
		}
		e, err := cfg.Build()
		if err != nil {
			return nil, err
		}

		result, err := sim.New(e).Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: 1})
		if err != nil {
			return results, err
		}

		var temps, pressures []float64
		for _, s := range result.Samples {
			if s.Time < sw.Settle || !s.HasTemperature {
				continue
			}
			temps = append(temps, s.Temperature)
			pressures = append(pressures, s.PressureKPa)
		}
		r := SweepResult{
			Value:  paramVal,
			Volume: result.Final.Container.Volume,
			Oops:   len(result.Oops),
		}
		for _, n := range result.Final.Counts {
			r.Particles += n
		}
		if len(temps) > 0 {
			r.Temperature = stat.Mean(temps, nil)
			r.PressureKPa = stat.Mean(pressures, nil)
		}
		results = append(results, r)

		if logger != nil {
			logger.Info("sweep", "step", fmt.Sprintf("%d/%d", i+1, sw.NumSteps), sw.Param, paramVal, "T", r.Temperature, "P", r.PressureKPa)
		}
	}
	return results, nil
}
