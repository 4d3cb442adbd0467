package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/gaslaw/internal/config"
	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/sim"
	"github.com/san-kum/gaslaw/internal/stats"
)

func TestSceneToSVG(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Counts = map[string]int{"heavy": 12, "light": 7}
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	svg := SceneToSVG(e, 600)

	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, `width="600"`) {
		t.Errorf("bad header: %.120s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 19 {
		t.Errorf("expected 19 circles, got %d", n)
	}
	for _, want := range []string{`id="container"`, `id="heavy"`, `id="light"`, "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
}

func TestSceneToSVG_Divider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = engine.Diffusion
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	svg := SceneToSVG(e, 400)
	// floor, two walls, lid and the divider
	if n := strings.Count(svg, "<line"); n != 5 {
		t.Errorf("expected 5 lines, got %d", n)
	}
}

func TestHistogramChart(t *testing.T) {
	bins := map[kinetics.Tag][]float64{
		kinetics.Heavy: {0.1, 0.4, 0.3, 0.2},
		kinetics.Light: {0, 0.2, 0.5, 0.3},
	}
	tags := []kinetics.Tag{kinetics.Heavy, kinetics.Light}

	var png bytes.Buffer
	if err := HistogramChart(&png, "png", "speeds", "pm/ps", stats.DefaultSpeedBinWidth, tags, bins); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}

	var svg bytes.Buffer
	if err := HistogramChart(&svg, "svg", "speeds", "pm/ps", stats.DefaultSpeedBinWidth, tags, bins); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("expected SVG output")
	}

	err := HistogramChart(&svg, "png", "", "", 1, tags, map[kinetics.Tag][]float64{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if err := HistogramChart(&svg, "jpeg", "", "", 1, tags, bins); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestHistoryChart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles.Counts["heavy"] = 30
	cfg.HeatCool = 0.5
	e, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	result, err := sim.New(e).Run(context.Background(), sim.Config{Dt: 0.05, Duration: 2, SampleEvery: 4})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := HistoryChart(&buf, "png", "heating", result.Samples); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}

	if err := HistoryChart(&buf, "png", "", result.Samples[:1]); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange([]float64{5, 5})
	if r.Max <= r.Min {
		t.Errorf("flat data must still give a non-empty range, got [%g, %g]", r.Min, r.Max)
	}
	r = paddedRange([]float64{0, 10}, []float64{-10})
	if r.Min >= -10 || r.Max <= 10 {
		t.Errorf("range [%g, %g] does not cover the data", r.Min, r.Max)
	}
}
