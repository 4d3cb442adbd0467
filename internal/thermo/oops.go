package thermo

import "fmt"

// OopsKind classifies an unreachable target.
type OopsKind int

const (
	OopsEmptyContainer OopsKind = iota
	OopsPressureOutOfRange
	OopsTemperatureCeiling
	OopsOpenContainer
)

var oopsNames = [...]string{
	OopsEmptyContainer:     "empty-container",
	OopsPressureOutOfRange: "pressure-out-of-range",
	OopsTemperatureCeiling: "temperature-ceiling",
	OopsOpenContainer:      "open-container",
}

func (k OopsKind) String() string {
	if k < 0 || int(k) >= len(oopsNames) {
		return fmt.Sprintf("oops(%d)", int(k))
	}
	return oopsNames[k]
}

func (k OopsKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *OopsKind) UnmarshalText(b []byte) error {
	for i, name := range oopsNames {
		if name == string(b) {
			*k = OopsKind(i)
			return nil
		}
	}
	return fmt.Errorf("thermo: unknown oops %q", b)
}

// Pressure out-of-range details.
const (
	DetailLargeVolume = "volume too large"
	DetailSmallVolume = "volume too small"
)

// Oops is emitted when the controller cannot honor a mode.
type Oops struct {
	Kind   OopsKind `json:"kind"`
	Detail string   `json:"detail,omitempty"`
	// Mode is the mode that was abandoned.
	Mode HoldConstant `json:"mode"`
}

func (o Oops) String() string {
	if o.Detail != "" {
		return fmt.Sprintf("%s (%s) while holding %s", o.Kind, o.Detail, o.Mode)
	}
	return fmt.Sprintf("%s while holding %s", o.Kind, o.Mode)
}

// Message is the sentence a user sees.
func (o Oops) Message() string {
	switch o.Kind {
	case OopsEmptyContainer:
		return "Temperature cannot be held constant when the container is empty."
	case OopsPressureOutOfRange:
		if o.Detail == DetailSmallVolume {
			return "Pressure cannot be held constant. Volume would be too small."
		}
		return "Pressure cannot be held constant. Volume would be too large."
	case OopsTemperatureCeiling:
		return "Temperature is too high. Setting to maximum."
	case OopsOpenContainer:
		return "Temperature and pressure cannot be held constant when the container is open."
	}
	return o.String()
}
