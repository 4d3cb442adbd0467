package config

import (
	"sort"

	"github.com/san-kum/gaslaw/internal/thermo"
)

func boolPtr(b bool) *bool { return &b }

var Presets = map[string]map[string]*Config{
	"explore": {
		"heavy": {
			Scenario: "explore", Dt: 0.05, Duration: 50, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 100}, Temperature: 300},
		},
		"mixture": {
			Scenario: "explore", Dt: 0.05, Duration: 50, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 100, "light": 100}, Temperature: 300},
		},
		"ghost": {
			Scenario: "explore", Dt: 0.05, Duration: 50, Collisions: false,
			Particles: ParticleConfig{Counts: map[string]int{"light": 200}, Temperature: 300},
		},
		"open": {
			Scenario: "explore", Dt: 0.05, Duration: 100, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"light": 300}, Temperature: 800},
			Container: ContainerConfig{LidWidth: 2000},
		},
	},
	"ideal": {
		"boyle": {
			Scenario: "ideal", Dt: 0.05, Duration: 50, Collisions: true, HoldConstant: thermo.HoldTemperature,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 150}, Temperature: 300},
		},
		"charles": {
			Scenario: "ideal", Dt: 0.05, Duration: 50, Collisions: true, HoldConstant: thermo.HoldPressureV, HeatCool: 0.2,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 150}, Temperature: 300},
			Container: ContainerConfig{Width: 7500},
		},
		"gay-lussac": {
			Scenario: "ideal", Dt: 0.05, Duration: 50, Collisions: true, HoldConstant: thermo.HoldVolume, HeatCool: 0.3,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 150}, Temperature: 300},
		},
		"avogadro": {
			Scenario: "ideal", Dt: 0.05, Duration: 50, Collisions: true, HoldConstant: thermo.HoldPressureT,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 100, "light": 50}, Temperature: 300},
		},
	},
	"energy": {
		"equipartition": {
			Scenario: "energy", Dt: 0.05, Duration: 100, Collisions: true, PressureSource: thermo.SourceImpulse,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 100, "light": 100}, Temperature: 300},
		},
		"hot-light": {
			Scenario: "energy", Dt: 0.05, Duration: 100, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"heavy": 100, "light": 100}, Temperature: 300},
			Species:   map[string]SpeciesConfig{"light": {Temperature: 1000}},
		},
	},
	"diffusion": {
		"equal": {
			Scenario: "diffusion", Dt: 0.05, Duration: 100, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"particle1": 100, "particle2": 100}, Temperature: 300},
			Container: ContainerConfig{Divider: boolPtr(true)},
		},
		"light-heavy": {
			Scenario: "diffusion", Dt: 0.05, Duration: 100, Collisions: true,
			Particles: ParticleConfig{Counts: map[string]int{"particle1": 100, "particle2": 100}, Temperature: 300},
			Species:   map[string]SpeciesConfig{"particle2": {Mass: 4, Radius: 62.5}},
			Container: ContainerConfig{Divider: boolPtr(true)},
		},
	},
}

// GetPreset returns a copy of a preset with unset fields filled from the defaults.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.SampleEvery == 0 {
		cfg.SampleEvery = def.SampleEvery
	}
	if cfg.Speed == "" {
		cfg.Speed = def.Speed
	}
	if cfg.CounterWindow == 0 {
		cfg.CounterWindow = def.CounterWindow
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
