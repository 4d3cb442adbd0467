package kinetics

import "math"

const (
	// Boltzmann is the Boltzmann constant in AMU·pm²/(ps²·K).
	Boltzmann = 8314.46261815324

	// PressureToKPa converts AMU/(pm·ps²) to kilopascals.
	PressureToKPa = 1.66053906660e6

	// KPaPerAtm is the number of kilopascals in one standard atmosphere.
	KPaPerAtm = 101.325

	// MaxTemperature is the hard ceiling for any derived temperature (K).
	MaxTemperature = 100000.0

	// MaxPressureKPa is the pressure at which a lidded container loses its lid.
	MaxPressureKPa = 20000.0
)

// ToKPa converts an internal pressure to kilopascals.
func ToKPa(p float64) float64 { return p * PressureToKPa }

// ToAtm converts an internal pressure to atmospheres.
func ToAtm(p float64) float64 { return ToKPa(p) / KPaPerAtm }

// FromKPa converts kilopascals to the internal pressure unit.
func FromKPa(kpa float64) float64 { return kpa / PressureToKPa }

// RMSSpeed returns sqrt(3kT/m), the speed of a particle of mass m whose
// kinetic energy equals the mean at temperature t.
func RMSSpeed(t, mass float64) float64 {
	return math.Sqrt(3 * Boltzmann * t / mass)
}

// TemperatureOf returns the temperature matching a mean kinetic energy.
func TemperatureOf(meanKE float64) float64 {
	return (2.0 / 3.0) * meanKE / Boltzmann
}

// TimeTransform maps wall-clock seconds to simulated picoseconds.
type TimeTransform struct {
	PsPerSecond float64
	// MaxDt caps a single tick so a stalled frame cannot tunnel particles
	// through walls.
	MaxDt float64
}

var (
	NormalSpeed = TimeTransform{PsPerSecond: 2.5, MaxDt: 0.05}
	SlowSpeed   = TimeTransform{PsPerSecond: 0.4, MaxDt: 0.05}
)

// ModelDt converts elapsed real seconds into a tick length in ps.
func (t TimeTransform) ModelDt(seconds float64) float64 {
	dt := seconds * t.PsPerSecond
	if t.MaxDt > 0 && dt > t.MaxDt {
		dt = t.MaxDt
	}
	if dt < 0 {
		dt = 0
	}
	return dt
}
