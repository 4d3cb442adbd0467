package thermo

import "github.com/san-kum/gaslaw/internal/kinetics"

// KineticEnergy sums ½mv² over every particle in cols.
func KineticEnergy(cols ...*kinetics.Collection) float64 {
	total := 0.0
	for _, col := range cols {
		total += col.TotalKineticEnergy()
	}
	return total
}

// Temperature returns (2/3)·KEavg/k. ok is false when cols hold no particles.
func Temperature(cols ...*kinetics.Collection) (t float64, ok bool) {
	n := 0
	for _, col := range cols {
		n += col.Len()
	}
	if n == 0 {
		return 0, false
	}
	return kinetics.TemperatureOf(KineticEnergy(cols...) / float64(n)), true
}

// AnalyticPressure is the ideal gas law NkT/V in AMU/(pm·ps²).
func AnalyticPressure(n int, t, volume float64) float64 {
	if n <= 0 || !(volume > 0) || !(t > 0) {
		return 0
	}
	return float64(n) * kinetics.Boltzmann * t / volume
}
