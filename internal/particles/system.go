// Package particles owns the particle collections and every operation that
// creates, removes, moves or rescales particles.
package particles

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

const (
	DefaultInjectionHalfAngle = math.Pi / 4
	DefaultHeatCoolScale      = 100.0
	DefaultMaxParticles       = 1000
	DefaultTemperatureSpread  = 0.2
	// minimum injection temperature as a fraction of the mean
	minTemperatureFraction = 0.05
	// fraction of the container height at which the pump hose enters
	injectionHeightFraction = 0.25
)

// Params tunes particle creation and heating.
type Params struct {
	InjectionHalfAngle float64 `yaml:"injection_half_angle" json:"injection_half_angle"`
	HeatCoolScale      float64 `yaml:"heat_cool_scale" json:"heat_cool_scale"`
	MaxParticles       int     `yaml:"max_particles" json:"max_particles"`
	TemperatureSpread  float64 `yaml:"temperature_spread" json:"temperature_spread"`
}

func DefaultParams() Params {
	return Params{
		InjectionHalfAngle: DefaultInjectionHalfAngle,
		HeatCoolScale:      DefaultHeatCoolScale,
		MaxParticles:       DefaultMaxParticles,
		TemperatureSpread:  DefaultTemperatureSpread,
	}
}

// System holds the inside and outside collections of every species.
type System struct {
	params    Params
	container *container.Container
	rng       *rand.Rand

	tags    []kinetics.Tag
	species map[kinetics.Tag]kinetics.Species
	inside  map[kinetics.Tag]*kinetics.Collection
	outside map[kinetics.Tag]*kinetics.Collection

	temperature map[kinetics.Tag]float64
	chambers    map[kinetics.Tag]func() kinetics.Bounds

	// CollisionsEnabled mirrors the detector's particle-particle switch; it
	// decides whether injected batches get per-particle temperatures.
	CollisionsEnabled bool
}

// New creates an empty system for the given species. rng is the only
// source of randomness used by the system.
func New(c *container.Container, species []kinetics.Species, p Params, rng *rand.Rand) (*System, error) {
	if rng == nil {
		return nil, fmt.Errorf("particles: nil random source")
	}
	s := &System{
		params:            p,
		container:         c,
		rng:               rng,
		species:           make(map[kinetics.Tag]kinetics.Species, len(species)),
		inside:            make(map[kinetics.Tag]*kinetics.Collection, len(species)),
		outside:           make(map[kinetics.Tag]*kinetics.Collection, len(species)),
		temperature:       make(map[kinetics.Tag]float64, len(species)),
		chambers:          make(map[kinetics.Tag]func() kinetics.Bounds),
		CollisionsEnabled: true,
	}
	for _, sp := range species {
		if err := sp.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.species[sp.Tag]; dup {
			return nil, fmt.Errorf("particles: duplicate species %s", sp.Tag)
		}
		s.tags = append(s.tags, sp.Tag)
		s.species[sp.Tag] = sp
		s.inside[sp.Tag] = kinetics.NewCollection(p.MaxParticles)
		s.outside[sp.Tag] = kinetics.NewCollection(0)
		s.temperature[sp.Tag] = 300
	}
	return s, nil
}

// Tags lists the species in a fixed order.
func (s *System) Tags() []kinetics.Tag { return s.tags }

func (s *System) Species(tag kinetics.Tag) (kinetics.Species, bool) {
	sp, ok := s.species[tag]
	return sp, ok
}

// Inside returns the collection of particles in the container.
func (s *System) Inside(tag kinetics.Tag) *kinetics.Collection { return s.inside[tag] }

// Outside returns the collection of escaped particles.
func (s *System) Outside(tag kinetics.Tag) *kinetics.Collection { return s.outside[tag] }

// Count is the number of inside particles of a species.
func (s *System) Count(tag kinetics.Tag) int {
	if c, ok := s.inside[tag]; ok {
		return c.Len()
	}
	return 0
}

// InsideCount is the number of inside particles of all species.
func (s *System) InsideCount() int {
	n := 0
	for _, tag := range s.tags {
		n += s.inside[tag].Len()
	}
	return n
}

// EachInside calls fn for every inside particle, species by species.
func (s *System) EachInside(fn func(*kinetics.Particle)) {
	for _, tag := range s.tags {
		for _, p := range s.inside[tag].Particles() {
			fn(p)
		}
	}
}

// InsideCollections returns the inside collections in species order.
func (s *System) InsideCollections() []*kinetics.Collection {
	cols := make([]*kinetics.Collection, len(s.tags))
	for i, tag := range s.tags {
		cols[i] = s.inside[tag]
	}
	return cols
}

// SetInjectionTemperature sets the mean temperature of new particles of
// every species.
func (s *System) SetInjectionTemperature(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return kinetics.Violation("SetInjectionTemperature", t, kinetics.ErrInvalidTemperature)
	}
	for _, tag := range s.tags {
		s.temperature[tag] = t
	}
	return nil
}

// SetSpeciesTemperature sets the mean temperature of new particles of one species.
func (s *System) SetSpeciesTemperature(tag kinetics.Tag, t float64) error {
	if _, ok := s.species[tag]; !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, tag)
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return kinetics.Violation("SetSpeciesTemperature", t, kinetics.ErrInvalidTemperature)
	}
	s.temperature[tag] = t
	return nil
}

// InjectionTemperature returns the mean temperature used for new particles.
func (s *System) InjectionTemperature(tag kinetics.Tag) float64 { return s.temperature[tag] }

// PlaceInChamber makes new particles of tag appear at random inside the
// bounds returned by fn instead of at the pump.
func (s *System) PlaceInChamber(tag kinetics.Tag, fn func() kinetics.Bounds) {
	s.chambers[tag] = fn
}

// SetSpecies changes the mass and radius of a species. Existing inside
// particles keep their kinetic energy.
func (s *System) SetSpecies(sp kinetics.Species) error {
	if _, ok := s.species[sp.Tag]; !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, sp.Tag)
	}
	if err := sp.Validate(); err != nil {
		return err
	}
	s.species[sp.Tag] = sp
	for _, col := range []*kinetics.Collection{s.inside[sp.Tag], s.outside[sp.Tag]} {
		for _, p := range col.Particles() {
			p.ScaleVelocity(math.Sqrt(p.Mass / sp.Mass))
			p.Mass, p.Radius = sp.Mass, sp.Radius
		}
	}
	return nil
}

// Add places an existing particle in its species' inside collection.
func (s *System) Add(p *kinetics.Particle) error {
	col, ok := s.inside[p.Species]
	if !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, p.Species)
	}
	if !(p.Mass > 0) || !(p.Radius > 0) || !p.IsFinite() {
		return fmt.Errorf("%w: mass=%g radius=%g", kinetics.ErrInvalidParticle, p.Mass, p.Radius)
	}
	col.Add(p)
	return nil
}

// AddOutside places an existing particle in its species' outside collection.
func (s *System) AddOutside(p *kinetics.Particle) error {
	col, ok := s.outside[p.Species]
	if !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, p.Species)
	}
	col.Add(p)
	return nil
}

// SetCount grows or shrinks the inside collection of tag to exactly n.
// New particles are injected; removal takes the newest particles first.
func (s *System) SetCount(tag kinetics.Tag, n int) error {
	col, ok := s.inside[tag]
	if !ok {
		return fmt.Errorf("%w: %s", kinetics.ErrUnknownSpecies, tag)
	}
	if n < 0 || (s.params.MaxParticles > 0 && n > s.params.MaxParticles) {
		return kinetics.Violation("SetCount", float64(n), kinetics.ErrInvalidCount)
	}
	switch delta := n - col.Len(); {
	case delta > 0:
		s.create(tag, delta)
	case delta < 0:
		col.RemoveLast(-delta)
	}
	kinetics.Assert(col.Len() == n, "collection %s has %d particles, want %d", tag, col.Len(), n)
	return nil
}

// Reset removes every particle.
func (s *System) Reset() {
	for _, tag := range s.tags {
		s.inside[tag].Clear()
		s.outside[tag].Clear()
	}
}
