package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
)

func buildEngine(t *testing.T, scenario string, counts map[string]int) *engine.Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	cfg.Particles.Counts = counts
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestLiveRenderer_Frame(t *testing.T) {
	e := buildEngine(t, engine.Explore, map[string]int{"heavy": 20, "light": 5})
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, e, 0)
	r.Clear = false
	r.OnStep(e.Observe())

	out := buf.String()
	for _, want := range []string{"explore", "hold=nothing", "heavy=20", "light=5", "T=", "P="} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, clearScreen) {
		t.Error("clear disabled but escape written")
	}
	rows := strings.Split(out, "\n")
	glyphs := 0
	for _, row := range rows[2 : 2+height] {
		glyphs += strings.Count(row, "o")
	}
	if glyphs == 0 {
		t.Error("expected heavy glyphs inside the frame")
	}
	if !strings.Contains(out, "===") {
		t.Error("expected the lid")
	}
}

func TestLiveRenderer_Divider(t *testing.T) {
	e := buildEngine(t, engine.Diffusion, map[string]int{})
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, e, 0)
	r.Clear = false
	r.OnStep(e.Observe())

	rows := strings.Split(buf.String(), "\n")
	mid := rows[2+height/2]
	if strings.Count(mid, "|") != 3 {
		t.Errorf("expected two walls and a divider, got %q", mid)
	}
}

func TestLiveRenderer_Throttle(t *testing.T) {
	e := buildEngine(t, engine.Explore, map[string]int{})
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, e, 1)
	r.OnStep(e.Observe())
	r.OnStep(e.Observe())

	if n := strings.Count(buf.String(), clearScreen); n != 1 {
		t.Errorf("expected 1 frame within a second, got %d", n)
	}
}
