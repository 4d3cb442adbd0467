package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/thermo"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 300
	particleBatch   = 10
	widthStep       = 500
	lidStep         = 500
	heatStep        = 0.25
)

var holdModes = []thermo.HoldConstant{
	thermo.HoldNothing,
	thermo.HoldVolume,
	thermo.HoldTemperature,
	thermo.HoldPressureV,
	thermo.HoldPressureT,
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of one engine.
type Model struct {
	engine        *engine.Engine
	reapply       func(*engine.Engine) error
	dt            float64
	stepsPerFrame int
	title         string
	canvas        *Canvas
	running       bool
	showHelp      bool
	energyView    bool
	modeCursor    int
	pressure      []float64
	temperature   []float64
	message       string
	recorder      *Recorder
	gifPath       string
}

// NewModel creates a live view that advances e by dt stepsPerFrame times
// per frame.
func NewModel(e *engine.Engine, dt float64, stepsPerFrame int, title string) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	m := Model{
		engine:        e,
		dt:            dt,
		stepsPerFrame: stepsPerFrame,
		title:         title,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		pressure:      make([]float64, 0, historyCapacity),
		temperature:   make([]float64, 0, historyCapacity),
		gifPath:       "gaslaw.gif",
	}
	for i, mode := range holdModes {
		if mode == e.HoldConstantMode() {
			m.modeCursor = i
		}
	}
	return m
}

// WithReset makes R rebuild the initial state with fn after resetting
// the engine.
func (m Model) WithReset(fn func(*engine.Engine) error) Model {
	m.reapply = fn
	return m
}

// WithGIFPath sets where G recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) Engine() *engine.Engine { return m.engine }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.stopRecording()
			return m, tea.Quit
		}
		m.handleKey(msg.String())
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recorder != nil {
			DrawScene(m.canvas, m.engine)
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) {
	e := m.engine
	cont := e.Container()
	var err error
	m.message = ""

	switch key {
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "m":
		m.modeCursor = (m.modeCursor + 1) % len(holdModes)
		want := holdModes[m.modeCursor]
		if got := e.SetHoldConstantMode(want); got != want {
			m.message = fmt.Sprintf("could not hold %s", want)
		}
	case "h":
		err = e.HeatCool(math.Min(1, e.HeatCoolFactor()+heatStep))
	case "c":
		err = e.HeatCool(math.Max(-1, e.HeatCoolFactor()-heatStep))
	case "0":
		err = e.HeatCool(0)
	case "left":
		_, err = e.RequestContainerWidth(cont.ClampWidth(cont.DesiredWidth() - widthStep))
	case "right":
		_, err = e.RequestContainerWidth(cont.ClampWidth(cont.DesiredWidth() + widthStep))
	case "l":
		e.ToggleLid(!cont.IsLidOn())
	case "<", ",":
		e.SetLidWidth(cont.LidWidth() - lidStep)
	case ">", ".":
		e.SetLidWidth(cont.LidWidth() + lidStep)
	case "d":
		err = e.ToggleDivider(!cont.HasDivider())
	case "1", "2", "3", "4":
		err = m.changeCount(key)
	case "x":
		e.SetCollisionsEnabled(!e.CollisionsEnabled())
	case "tab":
		m.energyView = !m.energyView
	case "t":
		NextTheme()
	case "g":
		if m.recorder != nil {
			m.stopRecording()
		} else {
			m.recorder = NewRecorder()
			m.message = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	if err != nil {
		m.message = err.Error()
	}
}

// changeCount handles 1/2 (add first/second species) and 3/4 (remove).
func (m *Model) changeCount(key string) error {
	tags := m.engine.System().Tags()
	idx := int(key[0]-'1') % 2
	if idx >= len(tags) {
		return nil
	}
	tag := tags[idx]
	n := m.engine.System().Count(tag)
	if key == "1" || key == "2" {
		n += particleBatch
	} else {
		n = max(0, n-particleBatch)
	}
	return m.engine.SetParticleCount(tag, n)
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.message = err.Error()
	} else {
		m.message = "saved " + m.gifPath
	}
	m.recorder = nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.engine.Step(m.dt); err != nil {
			m.message = err.Error()
			m.running = false
			return
		}
	}
	o := m.engine.Observe()
	m.pressure = pushHistory(m.pressure, o.PressureKPa)
	if o.Temperature != nil {
		m.temperature = pushHistory(m.temperature, *o.Temperature)
	}
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	m.engine.Reset()
	if m.reapply != nil {
		if err := m.reapply(m.engine); err != nil {
			m.message = err.Error()
		}
	}
	m.pressure = m.pressure[:0]
	m.temperature = m.temperature[:0]
	m.modeCursor = 0
	for i, mode := range holdModes {
		if mode == m.engine.HoldConstantMode() {
			m.modeCursor = i
		}
	}
}

func (m Model) View() string {
	DrawScene(m.canvas, m.engine)
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(m.panel()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) panel() string {
	e := m.engine
	o := e.Observe()
	var s strings.Builder

	s.WriteString(headerStyle().Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recorder != nil {
		status += " ● REC"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	if o.Oops != nil {
		s.WriteString(OopsBanner(o.Oops.Message()) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f ps", o.Time))
	row("Hold", o.Mode.String())
	if o.Temperature != nil {
		row("Temperature", fmt.Sprintf("%.1f K", *o.Temperature))
	} else {
		row("Temperature", "-")
	}
	row("Pressure", fmt.Sprintf("%.2f kPa  %.3f atm", o.PressureKPa, o.PressureAtm))
	row("Width", fmt.Sprintf("%.0f pm", o.Container.Width))
	for _, tag := range e.System().Tags() {
		line := fmt.Sprintf("%d", o.Counts[tag])
		if out := o.OutsideCounts[tag]; out > 0 {
			line += fmt.Sprintf(" (+%d out)", out)
		}
		if v := o.AverageSpeed[tag]; v != nil {
			line += fmt.Sprintf("  %.0f pm/ps", *v)
		}
		row(tag.String(), line)
	}
	if o.CollisionCount != nil {
		row("Collisions", fmt.Sprintf("%d", *o.CollisionCount))
	}
	if o.Diffusion != nil {
		row("Left", fmt.Sprintf("%d", o.Diffusion.Left.Total()))
		row("Right", fmt.Sprintf("%d", o.Diffusion.Right.Total()))
	}
	row("Heat/Cool", Slider(e.HeatCoolFactor(), -1, 1, 21))
	lid := "off"
	if o.Container.LidOn {
		lid = fmt.Sprintf("%.0f pm", o.Container.LidWidth)
	}
	row("Lid", lid)
	row("Collide", fmt.Sprintf("%t", e.CollisionsEnabled()))

	if len(m.pressure) > 1 {
		chart := asciigraph.Plot(m.pressure, asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("Pressure (kPa)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if hist := m.histogram(o); hist != "" {
		s.WriteString(graphStyle.Render(hist) + "\n")
	}
	if m.message != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset M:Mode H/C:Heat ←→:Width\nL:Lid D:Divider 1-4:Count ?:Help Q:Quit"))
	return s.String()
}

func (m Model) histogram(o engine.Observables) string {
	bins, caption := o.SpeedBins, "Speed distribution"
	if m.energyView {
		bins, caption = o.EnergyBins, "Energy distribution"
	}
	var series [][]float64
	var colors []asciigraph.AnsiColor
	palette := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}
	for i, tag := range m.engine.System().Tags() {
		if b := bins[tag]; len(b) > 0 && o.Counts[tag] > 0 {
			series = append(series, b)
			colors = append(colors, palette[i%2])
		}
	}
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(5),
		asciigraph.Width(36),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption))
}

var helpOverlay = `
╔══════════════════════════════════════╗
║            KEYBOARD SHORTCUTS        ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset                    ║
║  M        - Cycle hold-constant mode ║
║  H / C    - Heat / cool, 0 stops     ║
║  ← / →    - Narrower / wider box     ║
║  L        - Toggle lid, < > slide it ║
║  D        - Toggle divider           ║
║  1 / 2    - Add first / second kind  ║
║  3 / 4    - Remove first / second    ║
║  X        - Toggle collisions        ║
║  Tab      - Speed / energy histogram ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
