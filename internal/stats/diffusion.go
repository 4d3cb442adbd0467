package stats

import (
	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

// ChamberData describes one side of a two-chamber container.
type ChamberData struct {
	Counts map[kinetics.Tag]int `json:"counts"`
	// Temperature is nil when the chamber is empty.
	Temperature *float64 `json:"temperature,omitempty"`
}

// Total is the number of particles of all species in the chamber.
func (c ChamberData) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// FlowRate is the number of particles per ps crossing the divider line.
type FlowRate struct {
	LeftToRight float64 `json:"left_to_right"`
	RightToLeft float64 `json:"right_to_left"`
}

// DiffusionData splits the population at the divider line.
type DiffusionData struct {
	period  float64
	elapsed float64
	// window is the time covered by the current crossing tallies.
	window float64

	left, right ChamberData

	centerOfMass map[kinetics.Tag]float64

	crossings map[kinetics.Tag]*[2]int
	flow      map[kinetics.Tag]FlowRate
}

func NewDiffusionData(period float64) *DiffusionData {
	kinetics.Assert(period > 0, "sample period %g", period)
	return &DiffusionData{
		period:       period,
		centerOfMass: make(map[kinetics.Tag]float64),
		crossings:    make(map[kinetics.Tag]*[2]int),
		flow:         make(map[kinetics.Tag]FlowRate),
	}
}

// Step recomputes chamber data from scratch and tallies divider crossings.
// A particle belongs to the left chamber when its center is left of the
// divider line, whether or not the divider is in place.
func (d *DiffusionData) Step(dt float64, c *container.Container, tags []kinetics.Tag, cols []*kinetics.Collection) {
	x := c.DividerX()
	d.left = ChamberData{Counts: make(map[kinetics.Tag]int, len(tags))}
	d.right = ChamberData{Counts: make(map[kinetics.Tag]int, len(tags))}
	var leftKE, rightKE float64
	clear(d.centerOfMass)

	for i, col := range cols {
		tag := tags[i]
		d.left.Counts[tag], d.right.Counts[tag] = 0, 0
		cross, ok := d.crossings[tag]
		if !ok {
			cross = &[2]int{}
			d.crossings[tag] = cross
		}
		var mass, moment float64
		for _, p := range col.Particles() {
			if p.Position.X < x {
				d.left.Counts[tag]++
				leftKE += p.KineticEnergy()
			} else {
				d.right.Counts[tag]++
				rightKE += p.KineticEnergy()
			}
			switch {
			case p.PreviousPosition.X < x && p.Position.X >= x:
				cross[0]++
			case p.PreviousPosition.X >= x && p.Position.X < x:
				cross[1]++
			}
			mass += p.Mass
			moment += p.Mass * p.Position.X
		}
		if mass > 0 {
			d.centerOfMass[tag] = moment / mass
		}
	}
	d.left.Temperature = chamberTemperature(leftKE, d.left.Total())
	d.right.Temperature = chamberTemperature(rightKE, d.right.Total())

	d.elapsed += dt
	d.window += dt
	if d.elapsed >= d.period {
		for tag, cross := range d.crossings {
			d.flow[tag] = FlowRate{
				LeftToRight: float64(cross[0]) / d.window,
				RightToLeft: float64(cross[1]) / d.window,
			}
			*cross = [2]int{}
		}
		d.elapsed -= d.period
		d.window = 0
	}
}

func chamberTemperature(ke float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	t := kinetics.TemperatureOf(ke / float64(n))
	return &t
}

func (d *DiffusionData) Left() ChamberData  { return d.left }
func (d *DiffusionData) Right() ChamberData { return d.right }

// CenterOfMass is the mass-weighted mean x of tag, or nil when it has no particles.
func (d *DiffusionData) CenterOfMass(tag kinetics.Tag) *float64 {
	v, ok := d.centerOfMass[tag]
	if !ok {
		return nil
	}
	return &v
}

// FlowRate is the last published divider crossing rate of tag.
func (d *DiffusionData) FlowRate(tag kinetics.Tag) FlowRate { return d.flow[tag] }

func (d *DiffusionData) Reset() {
	d.left, d.right = ChamberData{}, ChamberData{}
	clear(d.centerOfMass)
	clear(d.crossings)
	clear(d.flow)
	d.elapsed, d.window = 0, 0
}
