package metrics

import (
	"math"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/sim"
)

// MeanTemperature averages the temperature over ticks with particles inside.
type MeanTemperature struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{name: "mean_temperature"}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(o engine.Observables) {
	if o.Temperature == nil {
		return
	}
	m.sum += *o.Temperature
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakPressure is the highest pressure seen, in kPa.
type PeakPressure struct {
	name string
	peak float64
}

func NewPeakPressure() *PeakPressure {
	return &PeakPressure{name: "peak_pressure_kpa"}
}

func (p *PeakPressure) Name() string { return p.name }

func (p *PeakPressure) Observe(o engine.Observables) {
	p.peak = math.Max(p.peak, o.PressureKPa)
}

func (p *PeakPressure) Value() float64 { return p.peak }
func (p *PeakPressure) Reset()         { p.peak = 0 }

// Escaped is the largest number of particles outside the container at once.
type Escaped struct {
	name string
	max  int
}

func NewEscaped() *Escaped {
	return &Escaped{name: "escaped"}
}

func (e *Escaped) Name() string { return e.name }

func (e *Escaped) Observe(o engine.Observables) {
	n := 0
	for _, c := range o.OutsideCounts {
		n += c
	}
	if n > e.max {
		e.max = n
	}
}

func (e *Escaped) Value() float64 { return float64(e.max) }
func (e *Escaped) Reset()         { e.max = 0 }

// WallCollisionRate is the mean number of wall collisions per ps.
type WallCollisionRate struct {
	name       string
	collisions int
	start, end float64
	started    bool
}

func NewWallCollisionRate() *WallCollisionRate {
	return &WallCollisionRate{name: "wall_collision_rate"}
}

func (w *WallCollisionRate) Name() string { return w.name }

func (w *WallCollisionRate) Observe(o engine.Observables) {
	if !w.started {
		w.start, w.started = o.Time, true
		return
	}
	w.collisions += o.WallCollisions
	w.end = o.Time
}

func (w *WallCollisionRate) Value() float64 {
	if w.end <= w.start {
		return 0
	}
	return float64(w.collisions) / (w.end - w.start)
}

func (w *WallCollisionRate) Reset() {
	w.collisions = 0
	w.start, w.end, w.started = 0, 0, false
}

// All returns a fresh set of every metric.
func All() []sim.Metric {
	return []sim.Metric{
		NewMeanTemperature(),
		NewPeakPressure(),
		NewMeanKineticEnergy(),
		NewEnergyDrift(),
		NewEscaped(),
		NewWallCollisionRate(),
	}
}
