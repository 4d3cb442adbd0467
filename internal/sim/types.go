package sim

import (
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/thermo"
)

type Config struct {
	Dt          float64
	Duration    float64
	SampleEvery int
}

// Sample is one recorded row of a run.
type Sample struct {
	Time           float64
	Temperature    float64
	HasTemperature bool
	PressureKPa    float64
	KineticEnergy  float64
	Width          float64
	Inside         int
	Outside        int
	Mode           thermo.HoldConstant
	WallCollisions int
}

// SampleOf flattens observables into a sample.
func SampleOf(o engine.Observables) Sample {
	s := Sample{
		Time:           o.Time,
		PressureKPa:    o.PressureKPa,
		KineticEnergy:  o.KineticEnergy,
		Width:          o.Container.Width,
		Mode:           o.Mode,
		WallCollisions: o.WallCollisions,
	}
	if o.Temperature != nil {
		s.Temperature, s.HasTemperature = *o.Temperature, true
	}
	for _, n := range o.Counts {
		s.Inside += n
	}
	for _, n := range o.OutsideCounts {
		s.Outside += n
	}
	return s
}

type Metric interface {
	Name() string
	Observe(o engine.Observables)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(o engine.Observables)
}

type Result struct {
	Samples    []Sample
	Oops       []thermo.Oops
	Metrics    map[string]float64
	StepsTaken int
	Final      engine.Observables
}
