package engine

import (
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/stats"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// ContainerView is the geometry a renderer needs.
type ContainerView struct {
	Left         float64 `json:"left"`
	Right        float64 `json:"right"`
	Bottom       float64 `json:"bottom"`
	Top          float64 `json:"top"`
	Width        float64 `json:"width"`
	DesiredWidth float64 `json:"desired_width"`
	Volume       float64 `json:"volume"`
	LidOn        bool    `json:"lid_on"`
	LidWidth     float64 `json:"lid_width"`
	OpeningLeft  float64 `json:"opening_left"`
	OpeningRight float64 `json:"opening_right"`
	Divider      bool    `json:"divider"`
	DividerX     float64 `json:"divider_x,omitempty"`
}

// DiffusionView is the per-chamber accounting of a two-chamber container.
type DiffusionView struct {
	Left         stats.ChamberData               `json:"left"`
	Right        stats.ChamberData               `json:"right"`
	CenterOfMass map[kinetics.Tag]*float64       `json:"center_of_mass"`
	FlowRate     map[kinetics.Tag]stats.FlowRate `json:"flow_rate"`
}

// Observables is a read-only snapshot of everything the engine reports.
type Observables struct {
	Time      float64             `json:"time"`
	Mode      thermo.HoldConstant `json:"mode"`
	Container ContainerView       `json:"container"`

	Counts        map[kinetics.Tag]int `json:"counts"`
	OutsideCounts map[kinetics.Tag]int `json:"outside_counts"`

	// Temperature is nil when the container is empty.
	Temperature   *float64 `json:"temperature,omitempty"`
	Pressure      float64  `json:"pressure"`
	PressureKPa   float64  `json:"pressure_kpa"`
	PressureAtm   float64  `json:"pressure_atm"`
	KineticEnergy float64  `json:"kinetic_energy"`

	AverageSpeed map[kinetics.Tag]*float64  `json:"average_speed"`
	SpeedBins    map[kinetics.Tag][]float64 `json:"speed_bins,omitempty"`
	EnergyBins   map[kinetics.Tag][]float64 `json:"energy_bins,omitempty"`

	WallCollisions int  `json:"wall_collisions"`
	PairCollisions int  `json:"pair_collisions"`
	CollisionCount *int `json:"collision_count,omitempty"`

	Diffusion *DiffusionView `json:"diffusion,omitempty"`
	Oops      *thermo.Oops   `json:"oops,omitempty"`
}

// Observe collects the current observables.
func (e *Engine) Observe() Observables {
	c, sys := e.container, e.system
	o := Observables{
		Time: e.time,
		Mode: e.controller.Mode(),
		Container: ContainerView{
			Left:         c.Left(),
			Right:        c.Right(),
			Bottom:       c.Bottom(),
			Top:          c.Top(),
			Width:        c.Width(),
			DesiredWidth: c.DesiredWidth(),
			Volume:       c.Volume(),
			LidOn:        c.IsLidOn(),
			LidWidth:     c.LidWidth(),
			OpeningLeft:  c.OpeningLeft(),
			OpeningRight: c.OpeningRight(),
			Divider:      c.HasDivider(),
		},
		Counts:         make(map[kinetics.Tag]int),
		OutsideCounts:  make(map[kinetics.Tag]int),
		AverageSpeed:   make(map[kinetics.Tag]*float64),
		SpeedBins:      make(map[kinetics.Tag][]float64),
		EnergyBins:     make(map[kinetics.Tag][]float64),
		WallCollisions: e.detector.WallCollisions(),
		PairCollisions: e.detector.PairCollisions(),
		Oops:           e.lastOops,
	}
	if c.HasDivider() {
		o.Container.DividerX = c.DividerX()
	}

	for _, tag := range sys.Tags() {
		o.Counts[tag] = sys.Count(tag)
		o.OutsideCounts[tag] = sys.Outside(tag).Len()
		o.AverageSpeed[tag] = e.speeds.Value(tag)
		if bins := e.histogram.SpeedBins(tag); bins != nil {
			o.SpeedBins[tag] = bins
		}
		if bins := e.histogram.EnergyBins(tag); bins != nil {
			o.EnergyBins[tag] = bins
		}
	}

	cols := sys.InsideCollections()
	if t, ok := thermo.Temperature(cols...); ok {
		o.Temperature = &t
	}
	o.KineticEnergy = thermo.KineticEnergy(cols...)
	o.Pressure = e.Pressure()
	o.PressureKPa = kinetics.ToKPa(o.Pressure)
	o.PressureAtm = kinetics.ToAtm(o.Pressure)

	if n, ok := e.counter.Last(); ok {
		o.CollisionCount = &n
	}

	if e.diffusion != nil {
		d := &DiffusionView{
			Left:         e.diffusion.Left(),
			Right:        e.diffusion.Right(),
			CenterOfMass: make(map[kinetics.Tag]*float64),
			FlowRate:     make(map[kinetics.Tag]stats.FlowRate),
		}
		for _, tag := range sys.Tags() {
			d.CenterOfMass[tag] = e.diffusion.CenterOfMass(tag)
			d.FlowRate[tag] = e.diffusion.FlowRate(tag)
		}
		o.Diffusion = d
	}
	return o
}

// EachParticle calls fn for every tracked particle.
func (e *Engine) EachParticle(fn func(p *kinetics.Particle, inside bool)) {
	for _, tag := range e.system.Tags() {
		for _, p := range e.system.Inside(tag).Particles() {
			fn(p, true)
		}
		for _, p := range e.system.Outside(tag).Particles() {
			fn(p, false)
		}
	}
}
