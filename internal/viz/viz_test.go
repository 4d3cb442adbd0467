package viz

import (
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/thermo"
)

func TestCanvas_SetAndLit(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.DotsX() != 8 || c.DotsY() != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", c.DotsX(), c.DotsY())
	}
	c.Set(3, 5, InkFirst)
	c.Set(-1, 0, InkFirst)
	c.Set(100, 100, InkFirst)

	if !c.Lit(3, 5) {
		t.Error("dot (3,5) should be lit")
	}
	if c.Lit(2, 5) || c.Lit(3, 4) {
		t.Error("neighbors should stay dark")
	}
	if c.Inks[1][1] != InkFirst {
		t.Errorf("expected first ink in cell (1,1), got %d", c.Inks[1][1])
	}
	if got := c.Grid[1][1]; got != blank|0x10 {
		t.Errorf("expected braille dot 5, got %U", got)
	}

	c.Clear()
	if c.Lit(3, 5) || c.Inks[1][1] != InkNone {
		t.Error("clear should reset dots and inks")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19, InkWall)
	for i := 0; i < 20; i++ {
		if !c.Lit(i, i) {
			t.Fatalf("diagonal dot %d not lit", i)
		}
	}
	if lines := strings.Count(c.String(), "\n"); lines != 5 {
		t.Errorf("expected 5 rows, got %d", lines)
	}
	if lines := strings.Count(c.Render(CurrentTheme), "\n"); lines != 5 {
		t.Errorf("expected 5 rendered rows, got %d", lines)
	}
}

func TestViewport_Corners(t *testing.T) {
	c := NewCanvas(10, 5)
	v := c.Viewport(-100, 0, 100, 50)
	tests := []struct {
		x, y   float64
		px, py int
	}{
		{-100, 50, 0, 0},
		{100, 0, 19, 19},
		{0, 25, 10, 10},
	}
	for _, tt := range tests {
		px, py := v.Dot(tt.x, tt.y)
		if px != tt.px || py != tt.py {
			t.Errorf("Dot(%g,%g) = (%d,%d), want (%d,%d)", tt.x, tt.y, px, py, tt.px, tt.py)
		}
	}
}

func TestDrawScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Counts["heavy"] = 20
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(60, 22)
	DrawScene(c, e)

	first := 0
	for _, row := range c.Inks {
		for _, ink := range row {
			if ink == InkFirst {
				first++
			}
		}
	}
	if first == 0 {
		t.Error("expected heavy particles on the canvas")
	}

	cont := e.Container()
	view := cont.MaxBounds().Dilate(sceneMargin)
	px, py := c.Viewport(view.MinX, view.MinY, view.MaxX, view.MaxY+sceneMargin).Dot(cont.Right(), cont.Bottom())
	if !c.Lit(px, py) {
		t.Error("bottom-right corner of the container should be drawn")
	}
}

func key(s string) tea.Msg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles.Counts["heavy"] = 20
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(e, 0.05, 2, "explore").WithReset(cfg.Apply)
}

func TestModel_Keys(t *testing.T) {
	m := newTestModel(t)
	e := m.Engine()

	m = press(m, "h", "h")
	if e.HeatCoolFactor() != 0.5 {
		t.Errorf("expected heat 0.5, got %g", e.HeatCoolFactor())
	}
	m = press(m, "c", "c", "c", "c", "c", "c", "c")
	if e.HeatCoolFactor() != -1 {
		t.Errorf("cooling should clamp at -1, got %g", e.HeatCoolFactor())
	}
	m = press(m, "0", "1", "2", "2", "3")
	if e.HeatCoolFactor() != 0 {
		t.Error("0 should stop heating")
	}
	if n := e.System().Count(kinetics.Heavy); n != 20 {
		t.Errorf("expected 20 heavy after +10 -10, got %d", n)
	}
	if n := e.System().Count(kinetics.Light); n != 20 {
		t.Errorf("expected 20 light, got %d", n)
	}

	m = press(m, "left", "left")
	if w := e.Container().DesiredWidth(); w != 9000 {
		t.Errorf("expected desired width 9000, got %g", w)
	}
	m = press(m, "l", "x")
	if e.Container().IsLidOn() || e.CollisionsEnabled() {
		t.Error("lid and collisions should be off")
	}
	m = press(m, "d")
	if !strings.Contains(m.message, "divider") {
		t.Errorf("expected divider error, got %q", m.message)
	}
	m = press(m, "m")
	if e.HoldConstantMode() != thermo.HoldVolume {
		t.Errorf("expected volume mode, got %s", e.HoldConstantMode())
	}
	m = press(m, "right")
	if m.message == "" {
		t.Error("resizing with volume held should report an error")
	}
}

func TestModel_TickAndPause(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if got := m.Engine().Time(); got < 0.0999 || got > 0.1001 {
		t.Errorf("expected time 0.1 after one frame, got %g", got)
	}

	m = press(m, " ")
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if got := m.Engine().Time(); got > 0.1001 {
		t.Errorf("paused model advanced to %g", got)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "1", "m", "m")
	next, _ := m.Update(TickMsg(time.Now()))
	m = press(next.(Model), "r")

	e := m.Engine()
	if e.Time() != 0 {
		t.Errorf("expected time 0 after reset, got %g", e.Time())
	}
	if n := e.System().Count(kinetics.Heavy); n != 20 {
		t.Errorf("reset should reapply the config, got %d heavy", n)
	}
	if e.HoldConstantMode() != thermo.HoldNothing {
		t.Errorf("expected mode nothing after reset, got %s", e.HoldConstantMode())
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 30; i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	view := m.View()
	for _, want := range []string{"EXPLORE", "Temperature", "Pressure", "heavy", "Pressure (kPa)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m = press(m, "?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestModel_OopsBanner(t *testing.T) {
	cfg := config.DefaultConfig()
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(e, 0.05, 1, "explore")
	m = press(m, "m", "m")
	if e.LastOops() == nil || e.LastOops().Kind != thermo.OopsEmptyContainer {
		t.Fatalf("expected empty-container oops, got %v", e.LastOops())
	}
	if !strings.Contains(m.View(), e.LastOops().Message()[:10]) {
		t.Error("oops message should be shown")
	}
}

func TestRecorder(t *testing.T) {
	m := newTestModel(t)
	c := NewCanvas(20, 8)
	r := NewRecorder()
	for i := 0; i < 3; i++ {
		if err := m.Engine().Step(0.05); err != nil {
			t.Fatal(err)
		}
		DrawScene(c, m.Engine())
		r.Capture(c)
	}
	path := filepath.Join(t.TempDir(), "run.gif")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 40*dotSize || b.Dy() != 32*dotSize {
		t.Errorf("unexpected frame size %v", b)
	}
}

func TestApp_LaunchesPreset(t *testing.T) {
	var m tea.Model = *NewApp(1)
	for _, k := range []string{"enter", "down", "enter"} {
		m, _ = m.Update(key(k))
	}
	app := m.(App)
	if app.state != stateSim {
		t.Fatalf("expected live view, got state %d (%s)", app.state, app.message)
	}
	if !strings.Contains(app.View(), "EXPLORE / ") {
		t.Error("live view should be titled with scenario and preset")
	}
	total := 0
	for _, n := range app.live.Engine().Observe().Counts {
		total += n
	}
	if total == 0 {
		t.Error("preset particles were not added")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("lab")
	for range Themes {
		NextTheme()
	}
	if CurrentTheme.Name != "lab" {
		t.Errorf("cycling every theme should return to lab, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "lab" {
		t.Error("unknown theme should fall back to lab")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
