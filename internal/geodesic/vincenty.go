package geodesic

import (
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"math"
)

const (
	// MaxIterations caps the λ fixed-point iteration.
	MaxIterations = 1000
	// ConvergenceThreshold is the |Δλ| below which the iteration stops.
	ConvergenceThreshold = 1e-12
)

var ErrConvergenceFailure = errors.New("vincenty: failed to converge")

// ConvergenceError is returned when λ did not settle within MaxIterations,
// which happens for nearly antipodal points.
type ConvergenceError struct {
	Iterations int
	LastDelta  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("vincenty: failed to converge after %d iterations (|Δλ|=%g)", e.Iterations, e.LastDelta)
}

func (e *ConvergenceError) Is(target error) bool {
	return target == ErrConvergenceFailure
}

// VincentySolver computes geodesic distance on an oblate ellipsoid using
// Vincenty's inverse formula.
type VincentySolver struct {
	Model EarthModel
}

// NewVincentySolver returns a solver on the model's ellipsoid.
func NewVincentySolver(model EarthModel) *VincentySolver {
	return &VincentySolver{Model: model}
}

// Solution is the outcome of one inverse computation.
type Solution struct {
	Meters     float64
	Iterations int
}

// Kilometers returns the geodesic distance between p and q, or a
// *ConvergenceError for nearly antipodal points.
func (v *VincentySolver) Kilometers(p, q domain.Coordinates) (float64, error) {
	s, err := v.Inverse(p, q)
	if err != nil {
		return 0, err
	}

	return s.Meters / 1000, nil
}

// Inverse solves the inverse geodesic problem between p and q.
func (v *VincentySolver) Inverse(p, q domain.Coordinates) (Solution, error) {
	// sinσ is zero for coincident points and would divide by zero below.
	if p == q {
		return Solution{}, nil
	}

	a := v.Model.SemiMajorAxis
	f := v.Model.Flattening
	b := v.Model.SemiMinorAxis()

	u1 := math.Atan((1 - f) * math.Tan(toRad(p.Lat)))
	u2 := math.Atan((1 - f) * math.Tan(toRad(q.Lat)))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	l := toRad(q.Lon) - toRad(p.Lon)
	lambda := l

	var (
		sinSigma, cosSigma, sigma float64
		cosSqAlpha, cos2SigmaM    float64
		delta                     float64
		converged                 bool
		iter                      int
	)

	for iter = 1; iter <= MaxIterations; iter++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		x := cosU2 * sinLambda
		y := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(x*x + y*y)
		if sinSigma == 0 {
			// Distinct inputs naming the same place, e.g. the pole at two longitudes.
			return Solution{Iterations: iter}, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		// Equatorial line: cos²α = 0.
		cos2SigmaM = 0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		delta = math.Abs(lambda - prev)
		if delta < ConvergenceThreshold {
			converged = true
			break
		}
	}

	if !converged {
		return Solution{Iterations: MaxIterations}, &ConvergenceError{Iterations: MaxIterations, LastDelta: delta}
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return Solution{
		Meters:     b * bigA * (sigma - deltaSigma),
		Iterations: iter,
	}, nil
}
