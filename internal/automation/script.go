// Package automation runs scripted scenarios: a config plus a timeline of
// commands issued to the engine at fixed simulated times.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/sim"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// Script is a scripted run.
type Script struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset,omitempty"`
	Config      *config.Config `yaml:"config,omitempty"`
	Actions     []Action       `yaml:"actions"`
}

// Action is one command on the timeline. Which of the value fields is read
// depends on Do.
type Action struct {
	At      float64 `yaml:"at"`
	Do      string  `yaml:"do"`
	Species string  `yaml:"species,omitempty"`
	Value   float64 `yaml:"value,omitempty"`
	Count   int     `yaml:"count,omitempty"`
	On      *bool   `yaml:"on,omitempty"`
	Mode    string  `yaml:"mode,omitempty"`
}

const (
	DoCount              = "count"
	DoHeatCool           = "heat_cool"
	DoMode               = "mode"
	DoWidth              = "width"
	DoResize             = "resize"
	DoLid                = "lid"
	DoLidWidth           = "lid_width"
	DoDivider            = "divider"
	DoTemperature        = "temperature"
	DoSpeciesTemperature = "species_temperature"
	DoCollisions         = "collisions"
)

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// BaseConfig resolves the script's starting config. An inline config wins
// over a preset; a preset is looked up in the inline config's scenario or
// in every scenario when no inline config is given.
func (s *Script) BaseConfig() (*config.Config, error) {
	if s.Config != nil && s.Preset == "" {
		return s.Config.Clone(), nil
	}
	if s.Preset == "" {
		return config.DefaultConfig(), nil
	}
	scenarios := []string{}
	if s.Config != nil {
		scenarios = append(scenarios, s.Config.Scenario)
	} else {
		scenarios = append(scenarios, engine.Scenarios...)
	}
	for _, sc := range scenarios {
		if cfg := config.GetPreset(sc, s.Preset); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset %q", s.Preset)
}

func (s *Script) Validate() error {
	var errs []error
	for i, a := range s.Actions {
		if a.At < 0 {
			errs = append(errs, fmt.Errorf("action %d: negative time %g", i+1, a.At))
		}
		if err := a.check(); err != nil {
			errs = append(errs, fmt.Errorf("action %d (%s): %w", i+1, a.Do, err))
		}
	}
	return errors.Join(errs...)
}

func (a Action) check() error {
	switch a.Do {
	case DoCount, DoSpeciesTemperature:
		_, err := kinetics.ParseTag(a.Species)
		return err
	case DoMode:
		_, err := thermo.ParseHoldConstant(a.Mode)
		return err
	case DoLid, DoDivider, DoCollisions:
		if a.On == nil {
			return errors.New("missing on")
		}
	case DoHeatCool, DoWidth, DoResize, DoLidWidth, DoTemperature:
	default:
		return fmt.Errorf("unknown command")
	}
	return nil
}

// Apply issues the action to the engine.
func (a Action) Apply(e *engine.Engine) error {
	switch a.Do {
	case DoCount:
		tag, err := kinetics.ParseTag(a.Species)
		if err != nil {
			return err
		}
		return e.SetParticleCount(tag, a.Count)
	case DoHeatCool:
		return e.HeatCool(a.Value)
	case DoMode:
		mode, err := thermo.ParseHoldConstant(a.Mode)
		if err != nil {
			return err
		}
		e.SetHoldConstantMode(mode)
		return nil
	case DoWidth:
		_, err := e.RequestContainerWidth(a.Value)
		return err
	case DoResize:
		return e.ResizeContainerImmediately(a.Value)
	case DoLid:
		e.ToggleLid(*a.On)
		return nil
	case DoLidWidth:
		e.SetLidWidth(a.Value)
		return nil
	case DoDivider:
		return e.ToggleDivider(*a.On)
	case DoTemperature:
		return e.SetInjectionTemperature(a.Value)
	case DoSpeciesTemperature:
		tag, err := kinetics.ParseTag(a.Species)
		if err != nil {
			return err
		}
		return e.SetSpeciesTemperature(tag, a.Value)
	case DoCollisions:
		e.SetCollisionsEnabled(*a.On)
		return nil
	}
	return fmt.Errorf("unknown command %q", a.Do)
}

// Timeline issues actions once simulated time reaches them. It observes a
// running simulator, so an action takes effect at the end of the first tick
// whose time is at or past At.
type Timeline struct {
	engine  *engine.Engine
	actions []Action
	next    int
	err     error
	stop    context.CancelFunc
	logger  *log.Logger
}

func NewTimeline(e *engine.Engine, actions []Action, logger *log.Logger) *Timeline {
	sorted := append([]Action(nil), actions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Timeline{engine: e, actions: sorted, logger: logger}
}

// Fire issues every pending action due at time t.
func (tl *Timeline) Fire(t float64) error {
	for tl.next < len(tl.actions) && tl.actions[tl.next].At <= t+1e-9 {
		a := tl.actions[tl.next]
		tl.next++
		tl.logger.Debug("action", "at", a.At, "do", a.Do, "time", t)
		if err := a.Apply(tl.engine); err != nil {
			return fmt.Errorf("at %g %s: %w", a.At, a.Do, err)
		}
	}
	return nil
}

func (tl *Timeline) OnStep(o engine.Observables) {
	if tl.err != nil {
		return
	}
	if err := tl.Fire(o.Time); err != nil {
		tl.err = err
		if tl.stop != nil {
			tl.stop()
		}
	}
}

// Pending reports how many actions have not fired.
func (tl *Timeline) Pending() int { return len(tl.actions) - tl.next }

func (tl *Timeline) Err() error { return tl.err }

// RunScript builds the engine for a script and runs it with its timeline.
func RunScript(ctx context.Context, s *Script, logger *log.Logger, metrics ...sim.Metric) (*sim.Result, *engine.Engine, error) {
	cfg, err := s.BaseConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	var opts []engine.Option
	if logger != nil {
		opts = append(opts, engine.WithLogger(logger))
	}
	e, err := cfg.Build(opts...)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tl := NewTimeline(e, s.Actions, logger)
	tl.stop = cancel
	if err := tl.Fire(0); err != nil {
		return nil, e, err
	}

	simulator := sim.New(e)
	for _, m := range metrics {
		simulator.AddMetric(m)
	}
	simulator.AddObserver(tl)

	result, err := simulator.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: cfg.SampleEvery})
	if tl.Err() != nil {
		return result, e, tl.Err()
	}
	return result, e, err
}
