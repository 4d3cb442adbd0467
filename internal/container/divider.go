package container

import "github.com/san-kum/gaslaw/internal/kinetics"

func (c *Container) HasDivider() bool { return c.dividerOn }

// SetDivider inserts or removes the divider. Particles are not moved.
func (c *Container) SetDivider(on bool) error {
	if c.params.Kind != TwoChamber {
		return kinetics.ErrNoDivider
	}
	c.dividerOn = on
	return nil
}

// DividerX is the x coordinate of the divider's center line.
func (c *Container) DividerX() float64 { return c.Left() + c.width/2 }

func (c *Container) DividerLeft() float64  { return c.DividerX() - c.params.DividerThickness/2 }
func (c *Container) DividerRight() float64 { return c.DividerX() + c.params.DividerThickness/2 }

// LeftChamber is the interior left of the divider.
func (c *Container) LeftChamber() kinetics.Bounds {
	return kinetics.Bounds{MinX: c.Left(), MinY: c.Bottom(), MaxX: c.DividerLeft(), MaxY: c.Top()}
}

// RightChamber is the interior right of the divider.
func (c *Container) RightChamber() kinetics.Bounds {
	return kinetics.Bounds{MinX: c.DividerRight(), MinY: c.Bottom(), MaxX: c.Right(), MaxY: c.Top()}
}
