// Package metrics reduces a run to scalar figures of merit.
package metrics

import (
	"math"

	"github.com/san-kum/gaslaw/internal/engine"
)

// MeanKineticEnergy averages the total inside kinetic energy over a run.
type MeanKineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewMeanKineticEnergy() *MeanKineticEnergy {
	return &MeanKineticEnergy{name: "mean_kinetic_energy"}
}

func (m *MeanKineticEnergy) Name() string { return m.name }

func (m *MeanKineticEnergy) Observe(o engine.Observables) {
	m.total += o.KineticEnergy
	m.samples++
}

func (m *MeanKineticEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanKineticEnergy) Reset() {
	m.total = 0
	m.samples = 0
}

// EnergyDrift is the largest relative change of the inside kinetic energy
// from its first observed value. Only meaningful for closed runs without
// heating or wall work.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(o engine.Observables) {
	if e.samples == 0 {
		e.initial = o.KineticEnergy
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(o.KineticEnergy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
