package engine

import (
	"fmt"

	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/particles"
	"github.com/san-kum/gaslaw/internal/stats"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// Scenario names.
const (
	Explore   = "explore"
	Ideal     = "ideal"
	Energy    = "energy"
	Diffusion = "diffusion"
)

// Scenarios lists every scenario in menu order.
var Scenarios = []string{Explore, Ideal, Energy, Diffusion}

// Setup is everything needed to build an engine.
type Setup struct {
	Scenario       string
	Container      container.Params
	Species        []kinetics.Species
	Particles      particles.Params
	Histogram      stats.HistogramConfig
	RegionLength   float64
	GaugeWindow    float64
	CounterWindow  float64
	PressureSource thermo.PressureSource
	Seed           int64
}

// DefaultSetup returns the stock setup of a scenario.
func DefaultSetup(scenario string) (Setup, error) {
	s := Setup{
		Scenario:      scenario,
		Container:     container.DefaultParams(),
		Species:       []kinetics.Species{kinetics.HeavySpecies, kinetics.LightSpecies},
		Particles:     particles.DefaultParams(),
		Histogram:     stats.DefaultHistogramConfig(),
		GaugeWindow:   thermo.DefaultGaugeWindow,
		CounterWindow: stats.CounterWindows[1],
	}
	switch scenario {
	case Explore:
	case Ideal, Energy:
		s.Container.LeftWallDoesWork = false
	case Diffusion:
		s.Container = container.DiffusionParams()
		s.Species = []kinetics.Species{
			{Tag: kinetics.Particle1, Mass: 28, Radius: 125},
			{Tag: kinetics.Particle2, Mass: 28, Radius: 125},
		}
	default:
		return Setup{}, fmt.Errorf("engine: unknown scenario %q", scenario)
	}
	return s, nil
}
