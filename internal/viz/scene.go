package viz

import (
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

// sceneMargin is the world-space border around the container, in pm.
const sceneMargin = 1500

// DrawScene draws the container and every particle of e onto c.
// Particles outside the container are drawn when they are in view.
func DrawScene(c *Canvas, e *engine.Engine) {
	c.Clear()
	cont := e.Container()
	view := cont.MaxBounds().Dilate(sceneMargin)
	v := c.Viewport(view.MinX, view.MinY, view.MaxX, view.MaxY+sceneMargin)

	left, right, bottom, top := cont.Left(), cont.Right(), cont.Bottom(), cont.Top()
	v.Line(left, bottom, right, bottom, InkWall)
	v.Line(left, bottom, left, top, InkWall)
	v.Line(right, bottom, right, top, InkWall)
	if cont.IsOpen() {
		v.Line(cont.OpeningRight(), top, right, top, InkWall)
		if cont.IsLidOn() && cont.OpeningLeft() > left {
			v.Line(left, top, cont.OpeningLeft(), top, InkLid)
		}
	} else {
		v.Line(left, top, right, top, InkLid)
	}
	if cont.HasDivider() {
		x := cont.DividerX()
		v.Line(x, bottom, x, top, InkWall)
	}

	inks := map[kinetics.Tag]Ink{}
	for i, tag := range e.System().Tags() {
		inks[tag] = InkFirst + Ink(i%2)
	}
	e.EachParticle(func(p *kinetics.Particle, _ bool) {
		if view.Contains(p.Position.X, p.Position.Y) {
			v.Point(p.Position.X, p.Position.Y, inks[p.Species])
		}
	})
}
