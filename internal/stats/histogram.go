// Package stats accumulates per-tick particle measurements into the
// averaged values shown to users.
package stats

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

const (
	DefaultBinCount       = 19
	DefaultSpeedBinWidth  = 100.0 // pm/ps
	DefaultEnergyBinWidth = 1e6   // AMU·pm²/ps²
	DefaultSamplePeriod   = 1.0   // ps
)

// HistogramConfig fixes the bin layout and averaging period.
type HistogramConfig struct {
	BinCount       int     `yaml:"bin_count" json:"bin_count"`
	SpeedBinWidth  float64 `yaml:"speed_bin_width" json:"speed_bin_width"`
	EnergyBinWidth float64 `yaml:"energy_bin_width" json:"energy_bin_width"`
	SamplePeriod   float64 `yaml:"sample_period" json:"sample_period"`
}

func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		BinCount:       DefaultBinCount,
		SpeedBinWidth:  DefaultSpeedBinWidth,
		EnergyBinWidth: DefaultEnergyBinWidth,
		SamplePeriod:   DefaultSamplePeriod,
	}
}

type binSums struct {
	speed, energy []float64
}

// HistogramSampler counts particles per speed and kinetic-energy bin on
// every tick and publishes the per-tick average once per sample period.
type HistogramSampler struct {
	cfg HistogramConfig

	sums    map[kinetics.Tag]*binSums
	ticks   int
	elapsed float64

	speed  map[kinetics.Tag][]float64
	energy map[kinetics.Tag][]float64

	scratchSpeed, scratchEnergy []float64
}

func NewHistogramSampler(cfg HistogramConfig) *HistogramSampler {
	kinetics.Assert(cfg.BinCount > 0 && cfg.SpeedBinWidth > 0 && cfg.EnergyBinWidth > 0 && cfg.SamplePeriod > 0,
		"invalid histogram config %+v", cfg)
	return &HistogramSampler{
		cfg:           cfg,
		sums:          make(map[kinetics.Tag]*binSums),
		speed:         make(map[kinetics.Tag][]float64),
		energy:        make(map[kinetics.Tag][]float64),
		scratchSpeed:  make([]float64, cfg.BinCount),
		scratchEnergy: make([]float64, cfg.BinCount),
	}
}

func (h *HistogramSampler) Config() HistogramConfig { return h.cfg }

// Step bins every particle of each collection, then publishes when the
// sample period has elapsed.
func (h *HistogramSampler) Step(dt float64, tags []kinetics.Tag, cols []*kinetics.Collection) {
	kinetics.Assert(len(tags) == len(cols), "%d tags for %d collections", len(tags), len(cols))
	for i, col := range cols {
		clear(h.scratchSpeed)
		clear(h.scratchEnergy)
		for _, p := range col.Particles() {
			if b := int(p.Speed() / h.cfg.SpeedBinWidth); b < h.cfg.BinCount {
				h.scratchSpeed[b]++
			}
			if b := int(p.KineticEnergy() / h.cfg.EnergyBinWidth); b < h.cfg.BinCount {
				h.scratchEnergy[b]++
			}
		}
		h.Accumulate(tags[i], h.scratchSpeed, h.scratchEnergy)
	}
	h.ticks++
	h.elapsed += dt
	if h.elapsed >= h.cfg.SamplePeriod {
		h.publish()
		h.elapsed -= h.cfg.SamplePeriod
	}
}

// Accumulate adds one tick of counts for tag. Both slices must have
// BinCount entries.
func (h *HistogramSampler) Accumulate(tag kinetics.Tag, speed, energy []float64) {
	kinetics.Assert(len(speed) == h.cfg.BinCount && len(energy) == h.cfg.BinCount,
		"bin lengths %d/%d, want %d", len(speed), len(energy), h.cfg.BinCount)
	s, ok := h.sums[tag]
	if !ok {
		s = &binSums{speed: make([]float64, h.cfg.BinCount), energy: make([]float64, h.cfg.BinCount)}
		h.sums[tag] = s
	}
	floats.Add(s.speed, speed)
	floats.Add(s.energy, energy)
}

func (h *HistogramSampler) publish() {
	if h.ticks == 0 {
		return
	}
	inv := 1 / float64(h.ticks)
	for tag, s := range h.sums {
		h.speed[tag] = floats.ScaleTo(make([]float64, len(s.speed)), inv, s.speed)
		h.energy[tag] = floats.ScaleTo(make([]float64, len(s.energy)), inv, s.energy)
		clear(s.speed)
		clear(s.energy)
	}
	h.ticks = 0
}

// SpeedBins is the last published speed histogram of tag, or nil.
func (h *HistogramSampler) SpeedBins(tag kinetics.Tag) []float64 { return h.speed[tag] }

// EnergyBins is the last published kinetic-energy histogram of tag, or nil.
func (h *HistogramSampler) EnergyBins(tag kinetics.Tag) []float64 { return h.energy[tag] }

// Reset drops the partial period and the published histograms.
func (h *HistogramSampler) Reset() {
	clear(h.sums)
	clear(h.speed)
	clear(h.energy)
	h.ticks, h.elapsed = 0, 0
}
