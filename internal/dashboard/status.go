package dashboard

import "fmt"

// LEDStatus is the On/Off indicator derived from a reading.
type LEDStatus bool

const (
	LEDOff LEDStatus = false
	LEDOn  LEDStatus = true
)

// String returns "On" or "Off".
func (s LEDStatus) String() string {
	if s {
		return "On"
	}
	return "Off"
}

// MarshalText lets the status serialize as its label.
func (s LEDStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts "On" or "Off".
func (s *LEDStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "On":
		*s = LEDOn
	case "Off":
		*s = LEDOff
	default:
		return fmt.Errorf("led status: expected On or Off, got %q", text)
	}
	return nil
}

// Status reports On when value reaches the threshold (inclusive).
func Status(value, threshold float64) LEDStatus {
	return LEDStatus(value >= threshold)
}
