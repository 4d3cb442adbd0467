// Package storage keeps finished runs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/sim"
	"github.com/san-kum/gaslaw/internal/thermo"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	stateFile    = "state.json"
)

var samplesHeader = []string{"time", "temperature", "pressure_kpa", "kinetic_energy", "width", "inside", "outside", "mode", "wall_collisions"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Oops      []thermo.Oops      `json:"oops,omitempty"`
}

// Save writes a run directory and returns its id. state may be nil.
func (s *Store) Save(meta RunMetadata, result *sim.Result, state *engine.State) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	meta.Oops = result.Oops
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	if state != nil {
		if err := writeJSON(filepath.Join(runDir, stateFile), state); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(samplesHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		temp := ""
		if smp.HasTemperature {
			temp = strconv.FormatFloat(smp.Temperature, 'f', 6, 64)
		}
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			temp,
			strconv.FormatFloat(smp.PressureKPa, 'f', 6, 64),
			strconv.FormatFloat(smp.KineticEnergy, 'f', 3, 64),
			strconv.FormatFloat(smp.Width, 'f', 3, 64),
			strconv.Itoa(smp.Inside),
			strconv.Itoa(smp.Outside),
			smp.Mode.String(),
			strconv.Itoa(smp.WallCollisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads samples.csv back. Rows that fail to parse are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(samplesHeader) {
			continue
		}
		smp, err := parseSample(rec)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(rec []string) (sim.Sample, error) {
	var smp sim.Sample
	var err error
	floats := []*float64{&smp.Time, nil, &smp.PressureKPa, &smp.KineticEnergy, &smp.Width}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.ParseFloat(rec[i], 64); err != nil {
			return smp, err
		}
	}
	if rec[1] != "" {
		if smp.Temperature, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return smp, err
		}
		smp.HasTemperature = true
	}
	if smp.Inside, err = strconv.Atoi(rec[5]); err != nil {
		return smp, err
	}
	if smp.Outside, err = strconv.Atoi(rec[6]); err != nil {
		return smp, err
	}
	if smp.Mode, err = thermo.ParseHoldConstant(rec[7]); err != nil {
		return smp, err
	}
	if smp.WallCollisions, err = strconv.Atoi(rec[8]); err != nil {
		return smp, err
	}
	return smp, nil
}

// LoadState reads the final engine snapshot of a run.
func (s *Store) LoadState(runID string) (*engine.State, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, stateFile))
	if err != nil {
		return nil, err
	}
	var st engine.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &st, nil
}

// SaveState writes a standalone snapshot file.
func SaveState(path string, st engine.State) error {
	return writeJSON(path, st)
}

// ReadState reads a standalone snapshot file.
func ReadState(path string) (*engine.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var st engine.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", path, err)
	}
	return &st, nil
}
