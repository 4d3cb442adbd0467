// Package tui prints plain-text frames of a running engine, for terminals
// where the full-screen view is unwanted.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var glyphs = []rune{'o', '.'}

// LiveRenderer is a sim.Observer that redraws at most frameRate times per
// second. A frameRate of zero draws every step.
type LiveRenderer struct {
	out       io.Writer
	engine    *engine.Engine
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	// Clear sends an ANSI clear before each frame.
	Clear bool
}

func NewLiveRenderer(out io.Writer, e *engine.Engine, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		engine:    e,
		frameRate: frameRate,
		canvas:    canvas,
		Clear:     true,
	}
}

func (r *LiveRenderer) OnStep(o engine.Observables) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}
	r.draw()
	r.render(o)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) hline(x1, x2, y int, c rune) {
	for x := x1; x <= x2; x++ {
		r.set(x, y, c)
	}
}

func (r *LiveRenderer) vline(x, y1, y2 int, c rune) {
	for y := y1; y <= y2; y++ {
		r.set(x, y, c)
	}
}

// cell maps world coordinates onto the grid; row 0 is the top. The
// container's maximum extent fills the grid minus a one-cell border at the
// sides and bottom and a two-row band above the lid.
func (r *LiveRenderer) cell(b kinetics.Bounds, x, y float64) (int, int) {
	cx := 1 + int((x-b.MinX)/b.Width()*float64(width-3)+0.5)
	cy := 2 + int((b.MaxY-y)/b.Height()*float64(height-4)+0.5)
	return cx, cy
}

func (r *LiveRenderer) draw() {
	r.clear()
	cont := r.engine.Container()
	b := cont.MaxBounds()

	l, top := r.cell(b, cont.Left(), cont.Top())
	right, bottom := r.cell(b, cont.Right(), cont.Bottom())
	r.hline(l, right, bottom, '-')
	r.vline(l, top, bottom, '|')
	r.vline(right, top, bottom, '|')
	if cont.IsOpen() {
		ol, _ := r.cell(b, cont.OpeningLeft(), cont.Top())
		or, _ := r.cell(b, cont.OpeningRight(), cont.Top())
		r.hline(or, right, top, '-')
		if cont.IsLidOn() && ol > l {
			r.hline(l, ol, top, '=')
		}
	} else {
		r.hline(l, right, top, '=')
	}
	if cont.HasDivider() {
		dx, _ := r.cell(b, cont.DividerX(), cont.Top())
		r.vline(dx, top, bottom, '|')
	}

	glyph := map[kinetics.Tag]rune{}
	for i, tag := range r.engine.System().Tags() {
		glyph[tag] = glyphs[i%len(glyphs)]
	}
	r.engine.EachParticle(func(p *kinetics.Particle, _ bool) {
		x, y := r.cell(b, p.Position.X, p.Position.Y)
		r.set(x, y, glyph[p.Species])
	})
}

func (r *LiveRenderer) render(o engine.Observables) {
	var b strings.Builder
	if r.Clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(fmt.Sprintf("  %s  t=%.2fps  hold=%s\n", r.engine.Setup().Scenario, o.Time, o.Mode))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	temp := "-"
	if o.Temperature != nil {
		temp = fmt.Sprintf("%.1fK", *o.Temperature)
	}
	line := fmt.Sprintf("  T=%s  P=%.2fkPa  W=%.0fpm", temp, o.PressureKPa, o.Container.Width)
	for _, tag := range r.engine.System().Tags() {
		line += fmt.Sprintf("  %s=%d", tag, o.Counts[tag])
	}
	b.WriteString(line + "\n")
	if o.Oops != nil {
		b.WriteString("  ! " + o.Oops.Message() + "\n")
	}

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
