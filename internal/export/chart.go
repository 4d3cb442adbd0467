package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/sim"
)

var ErrNoData = errors.New("export: not enough data to chart")

var seriesColors = []drawing.Color{
	{R: 79, G: 163, B: 255, A: 255},
	{R: 255, G: 95, B: 95, A: 255},
}

func provider(format string) (chart.RendererProvider, error) {
	switch format {
	case "", "png":
		return chart.PNG, nil
	case "svg":
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("unknown chart format %q (png, svg)", format)
}

// paddedRange spans vals with a little headroom, never a zero-width range.
func paddedRange(vals ...[]float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	first := true
	for _, v := range vals {
		if len(v) == 0 {
			continue
		}
		if first {
			lo, hi, first = floats.Min(v), floats.Max(v), false
			continue
		}
		lo, hi = min(lo, floats.Min(v)), max(hi, floats.Max(v))
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = max(1, hi*0.05)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// HistogramChart draws per-species bin fractions as stepped outlines.
func HistogramChart(w io.Writer, format, title, xName string, binWidth float64, tags []kinetics.Tag, bins map[kinetics.Tag][]float64) error {
	rp, err := provider(format)
	if err != nil {
		return err
	}
	var series []chart.Series
	var all [][]float64
	for i, tag := range tags {
		b := bins[tag]
		if len(b) == 0 {
			continue
		}
		xs := make([]float64, 0, 2*len(b))
		ys := make([]float64, 0, 2*len(b))
		for j, v := range b {
			xs = append(xs, float64(j)*binWidth, float64(j+1)*binWidth)
			ys = append(ys, v, v)
		}
		all = append(all, b)
		series = append(series, chart.ContinuousSeries{
			Name:    tag.String(),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: seriesColors[i%len(seriesColors)], StrokeWidth: 3.0},
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}
	yr := paddedRange(all...)
	yr.Min = 0

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis:  chart.XAxis{Name: xName, Style: chart.Style{FontSize: 10.0}},
		YAxis: chart.YAxis{
			Name:  "fraction",
			Style: chart.Style{FontSize: 10.0},
			Range: yr,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(rp, w)
}

// HistoryChart draws temperature (left axis) and pressure (right axis)
// against time.
func HistoryChart(w io.Writer, format, title string, samples []sim.Sample) error {
	rp, err := provider(format)
	if err != nil {
		return err
	}
	var ts, temps, tts, pressures []float64
	for _, s := range samples {
		ts = append(ts, s.Time)
		pressures = append(pressures, s.PressureKPa)
		if s.HasTemperature {
			tts = append(tts, s.Time)
			temps = append(temps, s.Temperature)
		}
	}
	if len(ts) < 2 {
		return ErrNoData
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "pressure (kPa)",
			XValues: ts,
			YValues: pressures,
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: seriesColors[1], StrokeWidth: 2.0},
		},
	}
	temperatureRange := &chart.ContinuousRange{Min: 0, Max: 1}
	if len(tts) >= 2 {
		series = append(series, chart.ContinuousSeries{
			Name:    "temperature (K)",
			XValues: tts,
			YValues: temps,
			Style:   chart.Style{StrokeColor: seriesColors[0], StrokeWidth: 2.0},
		})
		temperatureRange = paddedRange(temps)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		XAxis:  chart.XAxis{Name: "time (ps)", Style: chart.Style{FontSize: 10.0}},
		YAxis: chart.YAxis{
			Name:  "K",
			Style: chart.Style{FontSize: 10.0},
			Range: temperatureRange,
		},
		YAxisSecondary: chart.YAxis{
			Name:  "kPa",
			Style: chart.Style{FontSize: 10.0},
			Range: paddedRange(pressures),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(rp, w)
}
