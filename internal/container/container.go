// Package container models the rectangular box that holds the gas.
//
// The right wall is fixed at the container origin; the left wall moves when
// the width changes. A single-chamber container has a lid that can be slid
// open or blown off. A two-chamber container has a removable vertical
// divider and no opening.
package container

import (
	"fmt"
	"math"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

// Kind distinguishes the two container shapes.
type Kind int

const (
	SingleChamber Kind = iota
	TwoChamber
)

func (k Kind) String() string {
	if k == TwoChamber {
		return "two-chamber"
	}
	return "single-chamber"
}

// Params is the fixed geometry of a container. X, Y locate the bottom-right
// corner of the interior.
type Params struct {
	Kind              Kind    `yaml:"-" json:"kind"`
	X                 float64 `yaml:"x" json:"x"`
	Y                 float64 `yaml:"y" json:"y"`
	Height            float64 `yaml:"height" json:"height"`
	Depth             float64 `yaml:"depth" json:"depth"`
	MinWidth          float64 `yaml:"min_width" json:"min_width"`
	MaxWidth          float64 `yaml:"max_width" json:"max_width"`
	DefaultWidth      float64 `yaml:"default_width" json:"default_width"`
	WallThickness     float64 `yaml:"wall_thickness" json:"wall_thickness"`
	OpeningLeftInset  float64 `yaml:"opening_left_inset" json:"opening_left_inset"`
	OpeningRightInset float64 `yaml:"opening_right_inset" json:"opening_right_inset"`
	MinLidWidth       float64 `yaml:"min_lid_width" json:"min_lid_width"`
	WallSpeedLimit    float64 `yaml:"wall_speed_limit" json:"wall_speed_limit"`
	LeftWallDoesWork  bool    `yaml:"left_wall_does_work" json:"left_wall_does_work"`
	DividerThickness  float64 `yaml:"divider_thickness" json:"divider_thickness"`
}

// DefaultParams is the single-chamber container of the Explore, Ideal and
// Energy scenarios.
func DefaultParams() Params {
	return Params{
		Kind:              SingleChamber,
		Height:            8750,
		Depth:             10000,
		MinWidth:          5000,
		MaxWidth:          15000,
		DefaultWidth:      10000,
		WallThickness:     100,
		OpeningLeftInset:  300,
		OpeningRightInset: 1000,
		MinLidWidth:       500,
		WallSpeedLimit:    400,
		LeftWallDoesWork:  true,
	}
}

// DiffusionParams is the fixed-width two-chamber container.
func DiffusionParams() Params {
	return Params{
		Kind:             TwoChamber,
		Height:           8750,
		Depth:            10000,
		MinWidth:         16000,
		MaxWidth:         16000,
		DefaultWidth:     16000,
		WallThickness:    100,
		DividerThickness: 100,
	}
}

// Validate checks the geometry for contradictions.
func (p Params) Validate() error {
	switch {
	case !(p.Height > 0) || !(p.Depth > 0):
		return fmt.Errorf("container: height and depth must be positive (height=%g depth=%g)", p.Height, p.Depth)
	case !(p.MinWidth > 0) || p.MinWidth > p.MaxWidth:
		return fmt.Errorf("container: invalid width range [%g, %g]", p.MinWidth, p.MaxWidth)
	case p.DefaultWidth < p.MinWidth || p.DefaultWidth > p.MaxWidth:
		return fmt.Errorf("container: default width %g outside [%g, %g]", p.DefaultWidth, p.MinWidth, p.MaxWidth)
	case p.Kind == SingleChamber && p.MinWidth-p.OpeningRightInset < p.MinLidWidth:
		return fmt.Errorf("container: min width %g cannot fit lid of %g", p.MinWidth, p.MinLidWidth)
	case p.Kind == SingleChamber && p.MinWidth-p.OpeningRightInset-p.OpeningLeftInset < 0:
		return fmt.Errorf("container: opening insets exceed min width")
	}
	return nil
}

// Container is the mutable state of the box.
type Container struct {
	params Params

	width        float64
	desiredWidth float64

	lidOn    bool
	lidWidth float64

	dividerOn bool

	previousLeft     float64
	leftWallVelocity float64
}

// New creates a container at its default state.
func New(p Params) (*Container, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &Container{params: p}
	c.Reset()
	return c, nil
}

// Reset restores default width, a closed lid and, for two chambers, the divider.
func (c *Container) Reset() {
	c.width = c.params.DefaultWidth
	c.desiredWidth = c.width
	c.lidOn = true
	c.lidWidth = c.MaxLidWidth()
	c.dividerOn = c.params.Kind == TwoChamber
	c.previousLeft = c.Left()
	c.leftWallVelocity = 0
}

func (c *Container) Params() Params { return c.params }
func (c *Container) Kind() Kind     { return c.params.Kind }

func (c *Container) Width() float64        { return c.width }
func (c *Container) DesiredWidth() float64 { return c.desiredWidth }
func (c *Container) Height() float64       { return c.params.Height }

func (c *Container) Right() float64  { return c.params.X }
func (c *Container) Left() float64   { return c.params.X - c.width }
func (c *Container) Bottom() float64 { return c.params.Y }
func (c *Container) Top() float64    { return c.params.Y + c.params.Height }

// Bounds is the current interior.
func (c *Container) Bounds() kinetics.Bounds {
	return kinetics.Bounds{MinX: c.Left(), MinY: c.Bottom(), MaxX: c.Right(), MaxY: c.Top()}
}

// MaxBounds is the interior at maximum width.
func (c *Container) MaxBounds() kinetics.Bounds {
	return kinetics.Bounds{MinX: c.Right() - c.params.MaxWidth, MinY: c.Bottom(), MaxX: c.Right(), MaxY: c.Top()}
}

// Volume is width·height·depth in pm³.
func (c *Container) Volume() float64 {
	return c.width * c.params.Height * c.params.Depth
}

// WidthForVolume inverts Volume.
func (c *Container) WidthForVolume(v float64) float64 {
	return v / (c.params.Height * c.params.Depth)
}

// InRange reports whether w lies inside the configured width range.
func (c *Container) InRange(w float64) bool {
	return w >= c.params.MinWidth && w <= c.params.MaxWidth
}

// ClampWidth forces w into the width range.
func (c *Container) ClampWidth(w float64) float64 {
	return math.Max(c.params.MinWidth, math.Min(c.params.MaxWidth, w))
}

// SetWidth changes the width at once. An out-of-range width is rejected and
// leaves the container untouched.
func (c *Container) SetWidth(w float64) error {
	if math.IsNaN(w) || !c.InRange(w) {
		return kinetics.Violation("SetWidth", w, kinetics.ErrWidthOutOfRange)
	}
	c.applyWidth(w)
	return nil
}

// ResizeImmediately sets both the width and the target width, so no
// animated catch-up follows.
func (c *Container) ResizeImmediately(w float64) error {
	if err := c.SetWidth(w); err != nil {
		return err
	}
	c.desiredWidth = w
	c.previousLeft = c.Left()
	c.leftWallVelocity = 0
	return nil
}

// RequestWidth sets the target width, clamped into range. Step moves the
// container toward it.
func (c *Container) RequestWidth(w float64) float64 {
	c.desiredWidth = c.ClampWidth(w)
	return c.desiredWidth
}

// IsResizing reports whether the width has not yet reached its target.
func (c *Container) IsResizing() bool { return c.width != c.desiredWidth }

func (c *Container) LeftWallDoesWork() bool { return c.params.LeftWallDoesWork }

// SetLeftWallDoesWork switches whether resizing exchanges energy with particles.
func (c *Container) SetLeftWallDoesWork(on bool) {
	c.params.LeftWallDoesWork = on
	if !on {
		c.leftWallVelocity = 0
	}
}

// LeftWallVelocity is the x velocity of the left wall during the last
// step, zero unless the wall does work.
func (c *Container) LeftWallVelocity() float64 { return c.leftWallVelocity }

// Step advances the width toward its target. Shrinking is capped at
// WallSpeedLimit while the left wall does work; growing is immediate.
func (c *Container) Step(dt float64) {
	c.previousLeft = c.Left()
	if c.width != c.desiredWidth {
		next := c.desiredWidth
		if limit := c.params.WallSpeedLimit * dt; next < c.width && c.params.LeftWallDoesWork && limit > 0 && c.width-next > limit {
			next = c.width - limit
		}
		c.applyWidth(c.ClampWidth(next))
	}
	if c.params.LeftWallDoesWork && dt > 0 {
		c.leftWallVelocity = (c.Left() - c.previousLeft) / dt
	} else {
		c.leftWallVelocity = 0
	}
}

// applyWidth keeps the opening as wide as before where the lid allows it.
func (c *Container) applyWidth(w float64) {
	opening := 0.0
	if c.lidOn {
		opening = c.OpeningWidth()
	}
	c.width = w
	if c.lidOn {
		c.lidWidth = c.clampLid(c.MaxLidWidth() - opening)
	}
}

func (c *Container) clampLid(w float64) float64 {
	return math.Max(c.MinLidWidth(), math.Min(c.MaxLidWidth(), w))
}
