package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrUnsupportedUnit      = errors.New("unsupported unit")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	ErrNoPoints     = errors.New("no points provided")
	ErrInvalidPoint = errors.New("invalid point")

	ErrAddressNotFound     = errors.New("address not found")
	ErrInvalidAPIKey       = errors.New("invalid api key")
	ErrUnsupportedProvider = errors.New("unsupported geocoding provider")
)

// InvalidCoordinateError reports an out-of-domain operand.
type InvalidCoordinateError struct {
	Point       Operand
	Coordinates Coordinates
	Reason      string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: %s point (%s): %s", e.Point, e.Coordinates, e.Reason)
}

func (e *InvalidCoordinateError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}
