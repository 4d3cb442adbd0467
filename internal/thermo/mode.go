package thermo

import (
	"fmt"
	"strings"
)

// HoldConstant names the quantity the controller keeps fixed.
type HoldConstant int

const (
	HoldNothing HoldConstant = iota
	HoldVolume
	HoldTemperature
	// HoldPressureV keeps pressure by changing volume.
	HoldPressureV
	// HoldPressureT keeps pressure by changing temperature.
	HoldPressureT
)

var modeNames = map[HoldConstant]string{
	HoldNothing:     "nothing",
	HoldVolume:      "volume",
	HoldTemperature: "temperature",
	HoldPressureV:   "pressureV",
	HoldPressureT:   "pressureT",
}

func (h HoldConstant) String() string {
	if s, ok := modeNames[h]; ok {
		return s
	}
	return fmt.Sprintf("HoldConstant(%d)", int(h))
}

// Valid reports whether h is one of the five modes.
func (h HoldConstant) Valid() bool {
	_, ok := modeNames[h]
	return ok
}

// LocksState reports whether the mode pins temperature or pressure.
func (h HoldConstant) LocksState() bool {
	return h == HoldTemperature || h == HoldPressureV || h == HoldPressureT
}

// ParseHoldConstant is case-insensitive.
func ParseHoldConstant(name string) (HoldConstant, error) {
	for h, s := range modeNames {
		if strings.EqualFold(s, strings.TrimSpace(name)) {
			return h, nil
		}
	}
	return HoldNothing, fmt.Errorf("thermo: unknown hold-constant mode %q", name)
}

func (h HoldConstant) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HoldConstant) UnmarshalText(b []byte) error {
	v, err := ParseHoldConstant(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Conditions is the part of the gas state that decides whether a mode can
// be entered.
type Conditions struct {
	Particles int
	Open      bool
}

// Transition decides the mode that results from requesting to while in
// from. A non-nil Oops explains why the request fell back to HoldNothing.
func Transition(from, to HoldConstant, cond Conditions) (HoldConstant, *Oops) {
	if !to.Valid() {
		return HoldNothing, nil
	}
	if to.LocksState() {
		if cond.Particles == 0 {
			return HoldNothing, &Oops{Kind: OopsEmptyContainer}
		}
		if cond.Open {
			return HoldNothing, &Oops{Kind: OopsOpenContainer}
		}
	}
	return to, nil
}
