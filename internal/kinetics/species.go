package kinetics

import "fmt"

// Tag identifies the species of a particle.
type Tag int

const (
	Heavy Tag = iota
	Light
	// Particle1 and Particle2 are the two diffusion species.
	Particle1
	Particle2
)

var tagNames = map[Tag]string{
	Heavy:     "heavy",
	Light:     "light",
	Particle1: "particle1",
	Particle2: "particle2",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// ParseTag returns the tag with the given name.
func ParseTag(name string) (Tag, error) {
	for t, s := range tagNames {
		if s == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
}

func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tag) UnmarshalText(b []byte) error {
	v, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Species holds the constant properties of a particle kind.
type Species struct {
	Tag    Tag     `yaml:"-" json:"tag"`
	Mass   float64 `yaml:"mass" json:"mass"`
	Radius float64 `yaml:"radius" json:"radius"`
}

// Default species, modeled on nitrogen and helium.
var (
	HeavySpecies = Species{Tag: Heavy, Mass: 28, Radius: 125}
	LightSpecies = Species{Tag: Light, Mass: 4, Radius: 62.5}
)

// Validate reports ErrInvalidParticle for non-positive mass or radius.
func (s Species) Validate() error {
	if !(s.Mass > 0) || !(s.Radius > 0) {
		return fmt.Errorf("%w: %s mass=%g radius=%g", ErrInvalidParticle, s.Tag, s.Mass, s.Radius)
	}
	return nil
}
