package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/san-kum/gaslaw/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Samples  []sim.Sample       `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(path, scenario string, dt, duration float64, samples []sim.Sample, metrics map[string]float64) error {
	data := ExportData{
		Scenario: scenario,
		Dt:       dt,
		Duration: duration,
		Steps:    len(samples),
		Samples:  samples,
		Metrics:  metrics,
	}
	return writeJSON(path, data)
}

// ExportHistogram writes one row per bin with a column per series.
func ExportHistogram(path string, binWidth float64, names []string, series [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"bin_start"}, names...)); err != nil {
		return err
	}
	bins := 0
	for _, s := range series {
		bins = max(bins, len(s))
	}
	for i := 0; i < bins; i++ {
		row := []string{strconv.FormatFloat(float64(i)*binWidth, 'f', 3, 64)}
		for _, s := range series {
			v := ""
			if i < len(s) {
				v = strconv.FormatFloat(s[i], 'f', 4, 64)
			}
			row = append(row, v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadJSON loads a file written by ExportJSON.
func ReadJSON(path string) (*ExportData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ExportCSV writes samples in the samples.csv layout.
func ExportCSV(path string, samples []sim.Sample) error {
	return writeSamples(path, samples)
}
