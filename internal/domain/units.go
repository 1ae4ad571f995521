package domain

import (
	"fmt"
	"strings"
)

// Unit is the length unit a distance is expressed in.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"

	// DefaultUnit is used when neither the caller nor the settings name one.
	DefaultUnit = Kilometers

	milesPerKilometer = 0.621371
)

// ParseUnit accepts the short and long spelling of every supported unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedUnit, s)
}

func (u Unit) Valid() bool {
	return u == Kilometers || u == Miles
}

// Convert expresses a kilometer distance in unit u.
func Convert(km float64, u Unit) (float64, error) {
	switch u {
	case Kilometers:
		return km, nil
	case Miles:
		return km * milesPerKilometer, nil
	}

	return 0, fmt.Errorf("convert distance: %w: %q", ErrUnsupportedUnit, string(u))
}
