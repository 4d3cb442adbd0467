package particles

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

// create adds n particles of tag, either at the pump or inside the
// species' chamber.
func (s *System) create(tag kinetics.Tag, n int) {
	sp := s.species[tag]
	temps := s.batchTemperatures(s.temperature[tag], n)

	chamber, inChamber := s.chambers[tag]
	for _, t := range temps {
		p := kinetics.NewParticle(sp)
		speed := kinetics.RMSSpeed(t, sp.Mass)
		if inChamber {
			s.placeInBounds(p, chamber())
			p.SetVelocityPolar(speed, 2*math.Pi*s.rng.Float64())
		} else {
			s.placeAtPump(p)
			p.SetVelocityPolar(speed, math.Pi+s.dispersion())
		}
		s.inside[tag].Add(p)
	}
}

// batchTemperatures picks the temperature of every particle in a batch.
// Single particles and collision-free systems share one temperature; a
// colliding batch is spread so it does not move as one block.
func (s *System) batchTemperatures(mean float64, n int) []float64 {
	temps := make([]float64, n)
	if n == 1 || !s.CollisionsEnabled || s.params.TemperatureSpread <= 0 {
		for i := range temps {
			temps[i] = mean
		}
		return temps
	}
	dist := distuv.Normal{Mu: mean, Sigma: s.params.TemperatureSpread * mean, Src: s.rng}
	floor := minTemperatureFraction * mean
	for i := range temps {
		temps[i] = math.Max(floor, dist.Rand())
	}
	return temps
}

// dispersion returns an angle offset uniform in ±InjectionHalfAngle.
func (s *System) dispersion() float64 {
	h := s.params.InjectionHalfAngle
	if h <= 0 {
		return 0
	}
	return distuv.Uniform{Min: -h, Max: h, Src: s.rng}.Rand()
}

// placeAtPump puts p just inside the right wall where the pump hose enters.
func (s *System) placeAtPump(p *kinetics.Particle) {
	c := s.container
	p.SetPosition(c.Right()-p.Radius, c.Bottom()+injectionHeightFraction*c.Height())
}

func (s *System) placeInBounds(p *kinetics.Particle, b kinetics.Bounds) {
	u := distuv.Uniform{Min: 0, Max: 1, Src: s.rng}
	w := math.Max(0, b.Width()-2*p.Radius)
	h := math.Max(0, b.Height()-2*p.Radius)
	p.SetPosition(b.MinX+p.Radius+u.Rand()*w, b.MinY+p.Radius+u.Rand()*h)
}

// FillChamber adds n particles of tag at random positions inside b, each
// moving in a random direction at the rms speed for temperature t.
func (s *System) FillChamber(tag kinetics.Tag, n int, t float64, b kinetics.Bounds) error {
	sp, ok := s.species[tag]
	if !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, tag)
	}
	if n < 0 || (s.params.MaxParticles > 0 && s.inside[tag].Len()+n > s.params.MaxParticles) {
		return kinetics.Violation("FillChamber", float64(n), kinetics.ErrInvalidCount)
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return kinetics.Violation("FillChamber", t, kinetics.ErrInvalidTemperature)
	}
	speed := kinetics.RMSSpeed(t, sp.Mass)
	for i := 0; i < n; i++ {
		p := kinetics.NewParticle(sp)
		s.placeInBounds(p, b)
		p.SetVelocityPolar(speed, 2*math.Pi*s.rng.Float64())
		s.inside[tag].Add(p)
	}
	return nil
}
