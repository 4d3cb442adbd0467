package container

import "github.com/san-kum/gaslaw/internal/kinetics"

// MinLidWidth is the narrowest the lid may be slid to.
func (c *Container) MinLidWidth() float64 {
	if c.params.Kind == TwoChamber {
		return c.MaxLidWidth()
	}
	return c.params.MinLidWidth
}

// MaxLidWidth is the lid width that fully closes the top at the current width.
func (c *Container) MaxLidWidth() float64 {
	if c.params.Kind == TwoChamber {
		return c.width
	}
	return c.width - c.params.OpeningRightInset
}

func (c *Container) LidWidth() float64 { return c.lidWidth }
func (c *Container) IsLidOn() bool     { return c.lidOn }

// SetLidWidth slides the lid. The width is clamped into
// [MinLidWidth, MaxLidWidth]; it has no effect while the lid is off.
func (c *Container) SetLidWidth(w float64) {
	if !c.lidOn {
		return
	}
	c.lidWidth = c.clampLid(w)
}

// BlowLidOff removes the lid. The width does not change.
func (c *Container) BlowLidOff() {
	if c.params.Kind == TwoChamber {
		return
	}
	c.lidOn = false
}

// ReturnLid puts the lid back fully closed.
func (c *Container) ReturnLid() {
	c.lidOn = true
	c.lidWidth = c.MaxLidWidth()
}

// OpeningRight is the right edge of the opening, a fixed inset from the right wall.
func (c *Container) OpeningRight() float64 {
	if c.params.Kind == TwoChamber {
		return c.Right()
	}
	return c.Right() - c.params.OpeningRightInset
}

// OpeningLeft is the left edge of the opening: the end of the lid when the
// lid is on, otherwise a fixed inset from the left wall.
func (c *Container) OpeningLeft() float64 {
	if c.params.Kind == TwoChamber {
		return c.Right()
	}
	if c.lidOn {
		return c.Left() + c.lidWidth
	}
	return c.Left() + c.params.OpeningLeftInset
}

// OpeningWidth is the width of the gap in the top wall.
func (c *Container) OpeningWidth() float64 {
	w := c.OpeningRight() - c.OpeningLeft()
	kinetics.Assert(w >= -1e-9, "negative opening width %g", w)
	if w < 0 {
		return 0
	}
	return w
}

// IsOpen reports whether particles can leave through the top.
func (c *Container) IsOpen() bool { return c.OpeningWidth() > 0 }
