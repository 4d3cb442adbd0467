package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/stats"
	"github.com/san-kum/gaslaw/internal/thermo"
)

const (
	DefaultScenario    = engine.Explore
	DefaultDt          = 0.05
	DefaultDuration    = 50.0
	DefaultSampleEvery = 20
	DefaultTemperature = 300.0
	DefaultSpeed       = "normal"
)

type Config struct {
	Scenario       string                   `yaml:"scenario"`
	Dt             float64                  `yaml:"dt"`
	Duration       float64                  `yaml:"duration"`
	SampleEvery    int                      `yaml:"sample_every"`
	Seed           int64                    `yaml:"seed"`
	Speed          string                   `yaml:"speed"`
	HoldConstant   thermo.HoldConstant      `yaml:"hold_constant"`
	PressureSource thermo.PressureSource    `yaml:"pressure_source"`
	Collisions     bool                     `yaml:"collisions"`
	HeatCool       float64                  `yaml:"heat_cool"`
	Particles      ParticleConfig           `yaml:"particles"`
	Container      ContainerConfig          `yaml:"container"`
	Species        map[string]SpeciesConfig `yaml:"species,omitempty"`
	CounterWindow  float64                  `yaml:"counter_window"`
}

// ParticleConfig holds initial counts by species name and the injection temperature.
type ParticleConfig struct {
	Counts      map[string]int `yaml:"counts"`
	Temperature float64        `yaml:"temperature"`
}

type ContainerConfig struct {
	Width            float64 `yaml:"width"`
	LidOpen          bool    `yaml:"lid_open"`
	LidWidth         float64 `yaml:"lid_width,omitempty"`
	LeftWallDoesWork *bool   `yaml:"left_wall_does_work,omitempty"`
	Divider          *bool   `yaml:"divider,omitempty"`
}

// SpeciesConfig overrides the mass, radius or temperature of one species.
type SpeciesConfig struct {
	Mass        float64 `yaml:"mass,omitempty"`
	Radius      float64 `yaml:"radius,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:      DefaultScenario,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		SampleEvery:   DefaultSampleEvery,
		Speed:         DefaultSpeed,
		Collisions:    true,
		CounterWindow: stats.CounterWindows[1],
		Particles: ParticleConfig{
			Counts:      map[string]int{},
			Temperature: DefaultTemperature,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Particles.Counts = maps.Clone(c.Particles.Counts)
	cp.Species = maps.Clone(c.Species)
	if cp.Particles.Counts == nil {
		cp.Particles.Counts = map[string]int{}
	}
	if c.Container.LeftWallDoesWork != nil {
		v := *c.Container.LeftWallDoesWork
		cp.Container.LeftWallDoesWork = &v
	}
	if c.Container.Divider != nil {
		v := *c.Container.Divider
		cp.Container.Divider = &v
	}
	return &cp
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks values that the engine would otherwise reject later.
func (c *Config) Validate() error {
	setup, err := engine.DefaultSetup(c.Scenario)
	if err != nil {
		return err
	}
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	case !(c.Duration > 0):
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	case c.SampleEvery < 1:
		return fmt.Errorf("sample_every must be at least 1, got %d", c.SampleEvery)
	case c.HeatCool < -1 || c.HeatCool > 1:
		return fmt.Errorf("heat_cool must lie in [-1, 1], got %g", c.HeatCool)
	case !(c.Particles.Temperature > 0):
		return fmt.Errorf("particle temperature must be positive, got %g", c.Particles.Temperature)
	}
	if _, err := TimeTransform(c.Speed); err != nil {
		return err
	}
	known := make(map[kinetics.Tag]bool, len(setup.Species))
	for _, sp := range setup.Species {
		known[sp.Tag] = true
	}
	for name, n := range c.Particles.Counts {
		tag, err := kinetics.ParseTag(name)
		if err != nil {
			return err
		}
		if !known[tag] {
			return fmt.Errorf("%w: %s in scenario %s", kinetics.ErrUnknownSpecies, name, c.Scenario)
		}
		if n < 0 || n > setup.Particles.MaxParticles {
			return fmt.Errorf("%w: %s=%d", kinetics.ErrInvalidCount, name, n)
		}
	}
	for name := range c.Species {
		tag, err := kinetics.ParseTag(name)
		if err != nil {
			return err
		}
		if !known[tag] {
			return fmt.Errorf("%w: %s in scenario %s", kinetics.ErrUnknownSpecies, name, c.Scenario)
		}
	}
	return nil
}

// TimeTransform maps a speed name to its transform.
func TimeTransform(speed string) (kinetics.TimeTransform, error) {
	switch speed {
	case "", "normal":
		return kinetics.NormalSpeed, nil
	case "slow":
		return kinetics.SlowSpeed, nil
	}
	return kinetics.TimeTransform{}, fmt.Errorf("unknown speed %q (normal, slow)", speed)
}

// Setup turns the config into an engine setup.
func (c *Config) Setup() (engine.Setup, error) {
	s, err := engine.DefaultSetup(c.Scenario)
	if err != nil {
		return engine.Setup{}, err
	}
	s.Seed = c.Seed
	s.PressureSource = c.PressureSource
	if c.CounterWindow > 0 {
		s.CounterWindow = c.CounterWindow
	}
	if c.Container.LeftWallDoesWork != nil {
		s.Container.LeftWallDoesWork = *c.Container.LeftWallDoesWork
	}
	for i, sp := range s.Species {
		o, ok := c.Species[sp.Tag.String()]
		if !ok {
			continue
		}
		if o.Mass > 0 {
			s.Species[i].Mass = o.Mass
		}
		if o.Radius > 0 {
			s.Species[i].Radius = o.Radius
		}
	}
	return s, nil
}

// Apply issues the commands that bring a fresh engine to the configured
// initial state.
func (c *Config) Apply(e *engine.Engine) error {
	if c.Container.Width > 0 {
		if err := e.ResizeContainerImmediately(c.Container.Width); err != nil {
			return err
		}
	}
	if c.Container.LidWidth > 0 {
		e.SetLidWidth(c.Container.LidWidth)
	}
	if c.Container.LidOpen {
		e.ToggleLid(false)
	}
	if c.Container.Divider != nil {
		if err := e.ToggleDivider(*c.Container.Divider); err != nil {
			return err
		}
	}
	e.SetCollisionsEnabled(c.Collisions)
	if err := e.SetInjectionTemperature(c.Particles.Temperature); err != nil {
		return err
	}
	for _, tag := range e.System().Tags() {
		if o, ok := c.Species[tag.String()]; ok && o.Temperature > 0 {
			if err := e.SetSpeciesTemperature(tag, o.Temperature); err != nil {
				return err
			}
		}
		if n, ok := c.Particles.Counts[tag.String()]; ok {
			if err := e.SetParticleCount(tag, n); err != nil {
				return err
			}
		}
	}
	if err := e.HeatCool(c.HeatCool); err != nil {
		return err
	}
	if c.HoldConstant != thermo.HoldNothing {
		e.SetHoldConstantMode(c.HoldConstant)
	}
	return nil
}

// Build creates and initializes an engine from the config.
func (c *Config) Build(opts ...engine.Option) (*engine.Engine, error) {
	setup, err := c.Setup()
	if err != nil {
		return nil, err
	}
	e, err := engine.New(setup, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(e); err != nil {
		return nil, err
	}
	return e, nil
}
