package sim

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/thermo"
)

func newEngine(t *testing.T, seed int64, heavy int) *engine.Engine {
	t.Helper()
	setup, err := engine.DefaultSetup(engine.Explore)
	if err != nil {
		t.Fatal(err)
	}
	setup.Seed = seed
	e, err := engine.New(setup)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetParticleCount(kinetics.Heavy, heavy); err != nil {
		t.Fatal(err)
	}
	return e
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string               { return "count" }
func (c *countingMetric) Observe(engine.Observables) { c.n++ }
func (c *countingMetric) Value() float64             { return float64(c.n) }
func (c *countingMetric) Reset()                     { c.n = 0 }

func TestSimulatorRun(t *testing.T) {
	s := New(newEngine(t, 1, 50))
	s.AddMetric(&countingMetric{})

	result, err := s.Run(context.Background(), Config{Dt: 0.05, Duration: 1, SampleEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	if len(result.Samples) != 5 {
		t.Errorf("expected 5 samples, got %d", len(result.Samples))
	}
	if result.Metrics["count"] != 20 {
		t.Errorf("metric saw %f steps", result.Metrics["count"])
	}
	last := result.Samples[len(result.Samples)-1]
	if !last.HasTemperature || last.Inside != 50 {
		t.Errorf("unexpected last sample %+v", last)
	}
}

func TestSimulatorRun_InvalidConfig(t *testing.T) {
	s := New(newEngine(t, 1, 0))
	tests := []Config{
		{Dt: 0, Duration: 1, SampleEvery: 1},
		{Dt: 0.1, Duration: 0, SampleEvery: 1},
		{Dt: 0.1, Duration: 1, SampleEvery: 0},
	}
	for _, cfg := range tests {
		if _, err := s.Run(context.Background(), cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestSimulatorRun_Cancelled(t *testing.T) {
	s := New(newEngine(t, 1, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.05, Duration: 10, SampleEvery: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("cancelled run took %d steps", result.StepsTaken)
	}
}

func TestSimulatorRun_CollectsOops(t *testing.T) {
	e := newEngine(t, 1, 0)
	s := New(e)
	e.SetHoldConstantMode(thermo.HoldTemperature)
	if err := e.SetParticleCount(kinetics.Heavy, 5); err != nil {
		t.Fatal(err)
	}
	e.SetHoldConstantMode(thermo.HoldTemperature)
	if err := e.SetParticleCount(kinetics.Heavy, 0); err != nil {
		t.Fatal(err)
	}

	result, err := s.Run(context.Background(), Config{Dt: 0.05, Duration: 0.5, SampleEvery: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Oops) != 1 || result.Oops[0].Kind != thermo.OopsEmptyContainer {
		t.Errorf("expected one empty-container oops during the run, got %v", result.Oops)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*engine.Engine, error) {
		setup, err := engine.DefaultSetup(engine.Ideal)
		if err != nil {
			return nil, err
		}
		setup.Seed = seed
		e, err := engine.New(setup)
		if err != nil {
			return nil, err
		}
		return e, e.SetParticleCount(kinetics.Light, 30)
	}
	ens := NewEnsemble(build, func() []Metric { return []Metric{&countingMetric{}} }, 4, 100)

	results, err := ens.Run(context.Background(), Config{Dt: 0.05, Duration: 0.5, SampleEvery: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 10 || r.Metrics["count"] != 10 {
			t.Errorf("run %d: steps=%d count=%f", i, r.StepsTaken, r.Metrics["count"])
		}
	}
}

func TestRunSeed(t *testing.T) {
	tests := []struct {
		start int64
		want  []int64
	}{
		{100, []int64{100, 101, 102}},
		{-1, []int64{-1, 1, 2}},
		{0, []int64{1, 2, 3}},
		{-3, []int64{-3, -2, -1, 1}},
	}
	for _, tt := range tests {
		for i, want := range tt.want {
			if got := RunSeed(tt.start, i); got != want {
				t.Errorf("RunSeed(%d, %d) = %d, want %d", tt.start, i, got, want)
			}
		}
	}
}

func TestEnsemble_NeverSeedsZero(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int64]bool)
	build := func(seed int64) (*engine.Engine, error) {
		mu.Lock()
		seen[seed] = true
		mu.Unlock()
		setup, err := engine.DefaultSetup(engine.Explore)
		if err != nil {
			return nil, err
		}
		setup.Seed = seed
		return engine.New(setup)
	}

	if _, err := NewEnsemble(build, nil, 3, -1).Run(context.Background(), Config{Dt: 0.05, Duration: 0.1, SampleEvery: 1}); err != nil {
		t.Fatal(err)
	}
	if seen[0] {
		t.Error("a run was seeded with 0")
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct seeds, got %v", seen)
	}
}
