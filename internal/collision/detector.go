// Package collision finds and resolves particle-particle and particle-wall
// contacts once per tick.
package collision

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

// Wall names a surface a particle can bounce off.
type Wall int

const (
	LeftWall Wall = iota
	RightWall
	BottomWall
	TopWall
	Divider
	numWalls
)

var wallNames = [numWalls]string{"left", "right", "bottom", "top", "divider"}

func (w Wall) String() string {
	if w < 0 || w >= numWalls {
		return "unknown"
	}
	return wallNames[w]
}

// Detector holds the region grid and the per-tick collision tallies.
type Detector struct {
	grid *Grid

	// ParticleParticleCollisions turns pair collisions on or off. Wall
	// collisions always happen.
	ParticleParticleCollisions bool

	impulse        [numWalls]float64
	wallCollisions int
	pairCollisions int
}

// New builds a detector whose grid covers the container at maximum width.
func New(c *container.Container, regionLength float64) *Detector {
	if regionLength <= 0 {
		regionLength = DefaultRegionLength
	}
	return &Detector{
		grid:                       NewGrid(c.MaxBounds(), regionLength),
		ParticleParticleCollisions: true,
	}
}

func (d *Detector) Grid() *Grid { return d.grid }

// Impulse is the momentum magnitude delivered to w during the last Step,
// in AMU·pm/ps.
func (d *Detector) Impulse(w Wall) float64 { return d.impulse[w] }

// PressureImpulse sums the impulse on the four outer walls.
func (d *Detector) PressureImpulse() float64 {
	return d.impulse[LeftWall] + d.impulse[RightWall] + d.impulse[BottomWall] + d.impulse[TopWall]
}

// WallCollisions counts wall bounces during the last Step.
func (d *Detector) WallCollisions() int { return d.wallCollisions }

// PairCollisions counts resolved particle-particle collisions during the last Step.
func (d *Detector) PairCollisions() int { return d.pairCollisions }

// Step resolves all contacts among the given inside collections. Pairs go
// first, then walls in the order left, right, bottom, top, divider.
func (d *Detector) Step(c *container.Container, cols []*kinetics.Collection) {
	d.impulse = [numWalls]float64{}
	d.wallCollisions, d.pairCollisions = 0, 0

	if d.ParticleParticleCollisions {
		d.grid.Clear()
		for _, col := range cols {
			for _, p := range col.Particles() {
				d.grid.Insert(p)
			}
		}
		d.grid.EachPair(func(a, b *kinetics.Particle) {
			if resolvePair(a, b) {
				d.pairCollisions++
			}
		})
	}

	w := walls{
		left:         c.Left(),
		right:        c.Right(),
		bottom:       c.Bottom(),
		top:          c.Top(),
		leftVelocity: c.LeftWallVelocity(),
		open:         c.IsOpen(),
		openingLeft:  c.OpeningLeft(),
		openingRight: c.OpeningRight(),
	}
	if c.HasDivider() {
		w.divider = true
		w.dividerX = c.DividerX()
		w.dividerLeft, w.dividerRight = c.DividerLeft(), c.DividerRight()
	}
	for _, col := range cols {
		for _, p := range col.Particles() {
			d.bounce(&w, p)
		}
	}
}

type walls struct {
	left, right, bottom, top  float64
	leftVelocity              float64
	open                      bool
	openingLeft, openingRight float64

	divider                   bool
	dividerX                  float64
	dividerLeft, dividerRight float64
}

func (d *Detector) hit(w Wall, p *kinetics.Particle, before float64, after float64) {
	impulse := p.Mass * (after - before)
	if impulse < 0 {
		impulse = -impulse
	}
	d.impulse[w] += impulse
	d.wallCollisions++
}

// bounce reflects p off every wall it touches while moving into it.
func (d *Detector) bounce(w *walls, p *kinetics.Particle) {
	v := &p.Velocity

	if p.Left() < w.left {
		p.Position.X = w.left + p.Radius
		if v.X < w.leftVelocity {
			before := v.X
			v.X = -v.X + 2*w.leftVelocity
			d.hit(LeftWall, p, before, v.X)
		}
	}
	if p.Right() > w.right {
		p.Position.X = w.right - p.Radius
		if v.X > 0 {
			d.hit(RightWall, p, v.X, -v.X)
			v.X = -v.X
		}
	}
	if p.Bottom() < w.bottom {
		p.Position.Y = w.bottom + p.Radius
		if v.Y < 0 {
			d.hit(BottomWall, p, v.Y, -v.Y)
			v.Y = -v.Y
		}
	}
	if p.Top() > w.top && !(w.open && p.Left() > w.openingLeft && p.Right() < w.openingRight) {
		p.Position.Y = w.top - p.Radius
		if v.Y > 0 {
			d.hit(TopWall, p, v.Y, -v.Y)
			v.Y = -v.Y
		}
	}
	if !w.divider {
		return
	}
	if p.Position.X < w.dividerX {
		if p.Right() > w.dividerLeft {
			p.Position.X = w.dividerLeft - p.Radius
			if v.X > 0 {
				d.hit(Divider, p, v.X, -v.X)
				v.X = -v.X
			}
		}
	} else if p.Left() < w.dividerRight {
		p.Position.X = w.dividerRight + p.Radius
		if v.X < 0 {
			d.hit(Divider, p, v.X, -v.X)
			v.X = -v.X
		}
	}
}

// resolvePair performs a 2D elastic collision along the line of centers
// when a and b overlap and approach each other. Overlap is removed by
// moving both particles apart along the normal, weighted by mass.
func resolvePair(a, b *kinetics.Particle) bool {
	delta := r2.Sub(b.Position, a.Position)
	dist := r2.Norm(delta)
	sum := a.Radius + b.Radius
	if dist >= sum || dist == 0 {
		return false
	}
	n := r2.Scale(1/dist, delta)
	va, vb := r2.Dot(a.Velocity, n), r2.Dot(b.Velocity, n)
	if va-vb <= 0 {
		return false
	}

	total := a.Mass + b.Mass
	vaAfter := (va*(a.Mass-b.Mass) + 2*b.Mass*vb) / total
	vbAfter := (vb*(b.Mass-a.Mass) + 2*a.Mass*va) / total
	a.Velocity = r2.Add(a.Velocity, r2.Scale(vaAfter-va, n))
	b.Velocity = r2.Add(b.Velocity, r2.Scale(vbAfter-vb, n))

	overlap := sum - dist
	a.Position = r2.Sub(a.Position, r2.Scale(overlap*b.Mass/total, n))
	b.Position = r2.Add(b.Position, r2.Scale(overlap*a.Mass/total, n))
	return true
}
