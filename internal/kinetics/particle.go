package kinetics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a moving circle. Mass and radius never change after creation.
type Particle struct {
	Position         r2.Vec
	PreviousPosition r2.Vec
	Velocity         r2.Vec
	Mass             float64
	Radius           float64
	Species          Tag
}

// NewParticle creates a particle of the given species at rest at the origin.
func NewParticle(s Species) *Particle {
	Assert(s.Mass > 0 && s.Radius > 0, "species %s has mass=%g radius=%g", s.Tag, s.Mass, s.Radius)
	return &Particle{Mass: s.Mass, Radius: s.Radius, Species: s.Tag}
}

func (p *Particle) Left() float64   { return p.Position.X - p.Radius }
func (p *Particle) Right() float64  { return p.Position.X + p.Radius }
func (p *Particle) Bottom() float64 { return p.Position.Y - p.Radius }
func (p *Particle) Top() float64    { return p.Position.Y + p.Radius }

// SetPosition moves the particle without recording the move as motion.
func (p *Particle) SetPosition(x, y float64) {
	p.Position = r2.Vec{X: x, Y: y}
	p.PreviousPosition = p.Position
}

// SetVelocityPolar sets the velocity from a magnitude and a direction in radians.
func (p *Particle) SetVelocityPolar(magnitude, angle float64) {
	p.Velocity = r2.Vec{X: magnitude * math.Cos(angle), Y: magnitude * math.Sin(angle)}
}

// Step advances the particle along a straight line.
func (p *Particle) Step(dt float64) {
	p.PreviousPosition = p.Position
	p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
}

// ScaleVelocity multiplies the velocity, keeping its direction.
func (p *Particle) ScaleVelocity(s float64) {
	p.Velocity = r2.Scale(s, p.Velocity)
}

// Speed is the velocity magnitude in pm/ps.
func (p *Particle) Speed() float64 { return r2.Norm(p.Velocity) }

// KineticEnergy is ½mv² in AMU·pm²/ps².
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * r2.Norm2(p.Velocity)
}

// Momentum is mv.
func (p *Particle) Momentum() r2.Vec { return r2.Scale(p.Mass, p.Velocity) }

// Overlaps reports whether two particle circles intersect.
func (p *Particle) Overlaps(q *Particle) bool {
	d := r2.Sub(p.Position, q.Position)
	r := p.Radius + q.Radius
	return r2.Norm2(d) < r*r
}

// IsFinite reports whether position and velocity hold no NaN or Inf.
func (p *Particle) IsFinite() bool {
	for _, v := range [4]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
