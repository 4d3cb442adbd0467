// Package export renders engine state and run history to image files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

var speciesFill = []string{"#4fa3ff", "#ff5f5f"}

// SceneToSVG draws the container and every particle of e at true scale.
// width is the image width in pixels; the height follows the aspect ratio.
func SceneToSVG(e *engine.Engine, width int) string {
	cont := e.Container()
	view := cont.MaxBounds().Dilate(1500)
	view.MaxY += 1500
	scale := float64(width) / view.Width()
	height := view.Height() * scale

	px := func(x float64) float64 { return (x - view.MinX) * scale }
	py := func(y float64) float64 { return (view.MaxY - y) * scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%.0f" viewBox="0 0 %d %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	line := func(x0, y0, x1, y1 float64, stroke string) {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, px(x0), py(y0), px(x1), py(y1), stroke))
	}
	left, right, bottom, top := cont.Left(), cont.Right(), cont.Bottom(), cont.Top()
	sb.WriteString(`<g id="container">` + "\n")
	line(left, bottom, right, bottom, "#8888aa")
	line(left, bottom, left, top, "#8888aa")
	line(right, bottom, right, top, "#8888aa")
	if cont.IsOpen() {
		line(cont.OpeningRight(), top, right, top, "#8888aa")
		if cont.IsLidOn() && cont.OpeningLeft() > left {
			line(left, top, cont.OpeningLeft(), top, "#ffcc00")
		}
	} else {
		line(left, top, right, top, "#ffcc00")
	}
	if cont.HasDivider() {
		line(cont.DividerX(), bottom, cont.DividerX(), top, "#8888aa")
	}
	sb.WriteString("</g>\n")

	fill := map[kinetics.Tag]string{}
	for i, tag := range e.System().Tags() {
		fill[tag] = speciesFill[i%len(speciesFill)]
		sb.WriteString(fmt.Sprintf(`<g id="%s" fill="%s">`+"\n", tag, fill[tag]))
		write := func(p *kinetics.Particle) {
			if !view.Contains(p.Position.X, p.Position.Y) {
				return
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f"/>
`, px(p.Position.X), py(p.Position.Y), p.Radius*scale))
		}
		for _, p := range e.System().Inside(tag).Particles() {
			write(p)
		}
		for _, p := range e.System().Outside(tag).Particles() {
			write(p)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
