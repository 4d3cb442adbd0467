// Package sim drives an engine for a fixed duration and records samples
// and metrics along the way.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/thermo"
)

type Simulator struct {
	engine    *engine.Engine
	metrics   []Metric
	observers []Observer
	oops      []thermo.Oops
}

func New(e *engine.Engine) *Simulator {
	s := &Simulator{
		engine:    e,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	e.OnOops(func(o thermo.Oops) { s.oops = append(s.oops, o) })
	return s
}

func (s *Simulator) Engine() *engine.Engine { return s.engine }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the engine until cfg.Duration has elapsed. Cancelling ctx stops
// the run between ticks and returns the partial result.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Samples: make([]Sample, 0, steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}
	s.oops = s.oops[:0]
	for _, m := range s.metrics {
		m.Reset()
	}

	obs := s.engine.Observe()
	result.Samples = append(result.Samples, SampleOf(obs))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, obs)
			return result, ctx.Err()
		default:
		}

		if err := s.engine.Step(cfg.Dt); err != nil {
			s.finish(result, obs)
			return result, err
		}
		result.StepsTaken++

		obs = s.engine.Observe()
		for _, m := range s.metrics {
			m.Observe(obs)
		}
		for _, o := range s.observers {
			o.OnStep(obs)
		}
		if result.StepsTaken%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, SampleOf(obs))
		}
	}

	s.finish(result, obs)
	return result, nil
}

func (s *Simulator) finish(result *Result, obs engine.Observables) {
	result.Final = obs
	result.Oops = append(result.Oops, s.oops...)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("sample interval must be at least 1, got %d", cfg.SampleEvery)
	}
	return nil
}
