package stats

import "github.com/san-kum/gaslaw/internal/kinetics"

// AverageSpeed tracks the mean speed of each species, averaged over a
// sample period.
type AverageSpeed struct {
	period  float64
	elapsed float64
	sums    map[kinetics.Tag]float64
	ticks   map[kinetics.Tag]int
	values  map[kinetics.Tag]float64
}

func NewAverageSpeed(period float64) *AverageSpeed {
	kinetics.Assert(period > 0, "sample period %g", period)
	return &AverageSpeed{
		period: period,
		sums:   make(map[kinetics.Tag]float64),
		ticks:  make(map[kinetics.Tag]int),
		values: make(map[kinetics.Tag]float64),
	}
}

// Step adds one tick. A species whose collection is empty loses its value
// at once instead of at the end of the period.
func (a *AverageSpeed) Step(dt float64, tags []kinetics.Tag, cols []*kinetics.Collection) {
	for i, col := range cols {
		tag := tags[i]
		if col.Len() == 0 {
			a.Clear(tag)
			continue
		}
		sum := 0.0
		for _, p := range col.Particles() {
			sum += p.Speed()
		}
		a.sums[tag] += sum / float64(col.Len())
		a.ticks[tag]++
	}
	a.elapsed += dt
	if a.elapsed >= a.period {
		for tag, sum := range a.sums {
			a.values[tag] = sum / float64(a.ticks[tag])
		}
		clear(a.sums)
		clear(a.ticks)
		a.elapsed -= a.period
	}
}

// Clear drops tag's running sums and published value, for a species whose
// count was set to zero between ticks.
func (a *AverageSpeed) Clear(tag kinetics.Tag) {
	delete(a.values, tag)
	delete(a.sums, tag)
	delete(a.ticks, tag)
}

// Value returns the last published average speed of tag, or nil.
func (a *AverageSpeed) Value(tag kinetics.Tag) *float64 {
	v, ok := a.values[tag]
	if !ok {
		return nil
	}
	return &v
}

func (a *AverageSpeed) Reset() {
	clear(a.sums)
	clear(a.ticks)
	clear(a.values)
	a.elapsed = 0
}
