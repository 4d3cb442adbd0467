package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// ParticleState is one particle in a snapshot.
type ParticleState struct {
	Species kinetics.Tag `json:"species"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	VX      float64      `json:"vx"`
	VY      float64      `json:"vy"`
}

// State is a restorable snapshot of an engine. Samplers are not included
// and start empty after Restore.
type State struct {
	Scenario          string                   `json:"scenario"`
	Time              float64                  `json:"time"`
	Mode              thermo.HoldConstant      `json:"mode"`
	LockedTemperature float64                  `json:"locked_temperature,omitempty"`
	LockedPressure    float64                  `json:"locked_pressure,omitempty"`
	Width             float64                  `json:"width"`
	LidOn             bool                     `json:"lid_on"`
	LidWidth          float64                  `json:"lid_width"`
	Divider           bool                     `json:"divider"`
	HeatCool          float64                  `json:"heat_cool"`
	CollisionsEnabled bool                     `json:"collisions_enabled"`
	Injection         map[kinetics.Tag]float64 `json:"injection_temperature"`
	Species           []kinetics.Species       `json:"species"`
	Inside            []ParticleState          `json:"inside"`
	Outside           []ParticleState          `json:"outside"`
}

// State captures the engine.
func (e *Engine) State() State {
	c, sys := e.container, e.system
	s := State{
		Scenario:          e.setup.Scenario,
		Time:              e.time,
		Mode:              e.controller.Mode(),
		Width:             c.Width(),
		LidOn:             c.IsLidOn(),
		LidWidth:          c.LidWidth(),
		Divider:           c.HasDivider(),
		HeatCool:          e.heatCool,
		CollisionsEnabled: e.CollisionsEnabled(),
		Injection:         make(map[kinetics.Tag]float64),
	}
	if s.Mode.LocksState() {
		s.LockedTemperature = e.controller.LockedTemperature()
		s.LockedPressure = e.controller.LockedPressure()
	}
	for _, tag := range sys.Tags() {
		sp, _ := sys.Species(tag)
		s.Species = append(s.Species, sp)
		s.Injection[tag] = sys.InjectionTemperature(tag)
	}
	e.EachParticle(func(p *kinetics.Particle, inside bool) {
		ps := ParticleState{Species: p.Species, X: p.Position.X, Y: p.Position.Y, VX: p.Velocity.X, VY: p.Velocity.Y}
		if inside {
			s.Inside = append(s.Inside, ps)
		} else {
			s.Outside = append(s.Outside, ps)
		}
	})
	return s
}

// Restore resets the engine and replays s through the public commands.
func (e *Engine) Restore(s State) error {
	if s.Scenario != e.setup.Scenario {
		return fmt.Errorf("engine: snapshot of %q cannot restore into %q", s.Scenario, e.setup.Scenario)
	}
	e.Reset()
	sys := e.system

	for _, sp := range s.Species {
		if err := e.SetSpecies(sp); err != nil {
			return fmt.Errorf("engine: restore: %w", err)
		}
	}
	if err := e.ResizeContainerImmediately(s.Width); err != nil {
		return fmt.Errorf("engine: restore: %w", err)
	}
	e.ToggleLid(s.LidOn)
	e.SetLidWidth(s.LidWidth)
	if e.container.HasDivider() != s.Divider {
		if err := e.ToggleDivider(s.Divider); err != nil {
			return fmt.Errorf("engine: restore: %w", err)
		}
	}
	for tag, t := range s.Injection {
		if err := e.SetSpeciesTemperature(tag, t); err != nil {
			return fmt.Errorf("engine: restore: %w", err)
		}
	}
	e.SetCollisionsEnabled(s.CollisionsEnabled)
	if err := e.HeatCool(s.HeatCool); err != nil {
		return fmt.Errorf("engine: restore: %w", err)
	}

	for _, ps := range s.Inside {
		p, err := e.particleFrom(ps)
		if err != nil {
			return err
		}
		if err := sys.Add(p); err != nil {
			return fmt.Errorf("engine: restore: %w", err)
		}
	}
	for _, ps := range s.Outside {
		p, err := e.particleFrom(ps)
		if err != nil {
			return err
		}
		if err := sys.AddOutside(p); err != nil {
			return fmt.Errorf("engine: restore: %w", err)
		}
	}

	if e.SetHoldConstantMode(s.Mode) == s.Mode {
		e.controller.RestoreTargets(s.LockedTemperature, s.LockedPressure)
	}
	e.time = s.Time
	return nil
}

func (e *Engine) particleFrom(ps ParticleState) (*kinetics.Particle, error) {
	sp, ok := e.system.Species(ps.Species)
	if !ok {
		return nil, fmt.Errorf("engine: restore: %w: %s", kinetics.ErrUnknownSpecies, ps.Species)
	}
	p := kinetics.NewParticle(sp)
	p.SetPosition(ps.X, ps.Y)
	p.Velocity = r2.Vec{X: ps.VX, Y: ps.VY}
	return p, nil
}
