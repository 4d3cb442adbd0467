package thermo

import (
	"fmt"
	"strings"
)

// PressureSource selects how the reported pressure is obtained.
type PressureSource int

const (
	// SourceAnalytic reports NkT/V from the current temperature.
	SourceAnalytic PressureSource = iota
	// SourceImpulse reports the wall momentum flux measured by the gauge.
	SourceImpulse
)

func (s PressureSource) String() string {
	if s == SourceImpulse {
		return "impulse"
	}
	return "analytic"
}

// ParsePressureSource accepts "analytic" or "impulse".
func ParsePressureSource(name string) (PressureSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "analytic":
		return SourceAnalytic, nil
	case "impulse":
		return SourceImpulse, nil
	}
	return SourceAnalytic, fmt.Errorf("thermo: unknown pressure source %q", name)
}

func (s PressureSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *PressureSource) UnmarshalText(b []byte) error {
	v, err := ParsePressureSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DefaultGaugeWindow is the averaging window of the pressure gauge in ps.
const DefaultGaugeWindow = 2.0

// impulseScale maps the in-plane momentum flux of a 2D population onto the
// 3D convention used for temperature, where ½mv² = (3/2)kT.
const impulseScale = 2.0 / 3.0

// PressureGauge turns per-tick wall impulses into a pressure. Each window
// reports its time-averaged value once it completes.
type PressureGauge struct {
	Window float64

	flux     float64
	elapsed  float64
	pressure float64
	ready    bool
}

// NewPressureGauge returns a gauge averaging over window ps.
func NewPressureGauge(window float64) *PressureGauge {
	if window <= 0 {
		window = DefaultGaugeWindow
	}
	return &PressureGauge{Window: window}
}

// Add records the impulse delivered to walls of total area (perimeter ×
// depth, pm²) during a tick of length dt.
func (g *PressureGauge) Add(impulse, area, dt float64) {
	if dt <= 0 || area <= 0 {
		return
	}
	g.flux += impulse / area
	g.elapsed += dt
	if g.elapsed >= g.Window {
		g.pressure = impulseScale * g.flux / g.elapsed
		g.ready = true
		g.flux, g.elapsed = 0, 0
	}
}

// Pressure is the last completed window in AMU/(pm·ps²). ok is false until
// the first window completes.
func (g *PressureGauge) Pressure() (p float64, ok bool) { return g.pressure, g.ready }

// Reset discards the current window and the last reading.
func (g *PressureGauge) Reset() {
	g.flux, g.elapsed, g.pressure, g.ready = 0, 0, 0, false
}
