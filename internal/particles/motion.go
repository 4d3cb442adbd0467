package particles

import (
	"math"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

// Step moves every inside and outside particle along its velocity.
func (s *System) Step(dt float64) {
	for _, tag := range s.tags {
		for _, p := range s.inside[tag].Particles() {
			p.Step(dt)
		}
		for _, p := range s.outside[tag].Particles() {
			p.Step(dt)
		}
	}
}

// HeatCool scales every inside velocity by 1 + factor/HeatCoolScale.
// factor must lie in [-1, 1]; 0 does nothing.
func (s *System) HeatCool(factor float64) error {
	if math.IsNaN(factor) || factor < -1 || factor > 1 {
		return kinetics.Violation("HeatCool", factor, kinetics.ErrHeatCoolRange)
	}
	if factor == 0 {
		return nil
	}
	scale := 1 + factor/s.params.HeatCoolScale
	s.EachInside(func(p *kinetics.Particle) { p.ScaleVelocity(scale) })
	return nil
}

// EscapeParticles moves inside particles that have passed up through the
// opening to the outside collections and returns how many moved.
func (s *System) EscapeParticles() int {
	c := s.container
	if !c.IsOpen() {
		return 0
	}
	top, left, right := c.Top(), c.OpeningLeft(), c.OpeningRight()
	escaped := 0
	for _, tag := range s.tags {
		moved := s.inside[tag].RemoveIf(func(p *kinetics.Particle) bool {
			return p.Top() > top && p.Left() > left && p.Right() < right
		})
		for _, p := range moved {
			s.outside[tag].Add(p)
		}
		escaped += len(moved)
	}
	return escaped
}

// RemoveOutOfBounds drops outside particles whose center left b.
func (s *System) RemoveOutOfBounds(b kinetics.Bounds) int {
	removed := 0
	for _, tag := range s.tags {
		removed += len(s.outside[tag].RemoveIf(func(p *kinetics.Particle) bool {
			return !b.ContainsParticle(p)
		}))
	}
	return removed
}

// RedistributeParticles scales each inside particle's distance from the
// right wall by scaleX, keeping the spatial distribution after a resize.
func (s *System) RedistributeParticles(scaleX float64) {
	right := s.container.Right()
	s.EachInside(func(p *kinetics.Particle) {
		x := right + (p.Position.X-right)*scaleX
		p.SetPosition(x, p.Position.Y)
	})
}

// SetTemperature rescales inside velocities so the mean kinetic energy is
// exactly (3/2)kT. Directions are kept.
func (s *System) SetTemperature(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return kinetics.Violation("SetTemperature", t, kinetics.ErrInvalidTemperature)
	}
	n := s.InsideCount()
	if n == 0 {
		return kinetics.ErrEmptyContainer
	}
	ke := 0.0
	s.EachInside(func(p *kinetics.Particle) { ke += p.KineticEnergy() })
	if ke == 0 {
		return kinetics.Violation("SetTemperature", t, kinetics.ErrInvalidTemperature)
	}
	scale := math.Sqrt(1.5 * kinetics.Boltzmann * t * float64(n) / ke)
	s.EachInside(func(p *kinetics.Particle) { p.ScaleVelocity(scale) })
	return nil
}
