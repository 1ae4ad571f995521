package services

import (
	"context"
	"errors"
	"fmt"
	"geodistance-service/internal/domain"
	"geodistance-service/internal/geodesic"
	"geodistance-service/internal/platform/obs"
	"geodistance-service/internal/ports"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var solverDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "geodist",
		Name:      "solver_duration_seconds",
		Help:      "Time spent computing a distance on a cache miss",
		Buckets:   []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001, .005},
	},
	[]string{"algorithm", "outcome"},
)

func init() {
	prometheus.MustRegister(solverDuration)
}

// DefaultSolvers returns the solvers for every supported algorithm on the given model.
func DefaultSolvers(model geodesic.EarthModel) map[domain.Algorithm]ports.DistanceSolver {
	return map[domain.Algorithm]ports.DistanceSolver{
		domain.Haversine: geodesic.NewHaversineSolver(model),
		domain.Vincenty:  geodesic.NewVincentySolver(model),
	}
}

// DistanceService validates inputs, dispatches to a solver and memoizes results.
// It is safe for concurrent use.
type DistanceService struct {
	cache    ports.DistanceCache
	settings ports.Settings
	solvers  map[domain.Algorithm]ports.DistanceSolver
}

// NewDistanceService wires the façade. A nil settings uses DefaultUnit;
// a nil solvers map uses DefaultSolvers(geodesic.WGS84).
func NewDistanceService(
	cache ports.DistanceCache,
	settings ports.Settings,
	solvers map[domain.Algorithm]ports.DistanceSolver,
) *DistanceService {
	if solvers == nil {
		solvers = DefaultSolvers(geodesic.WGS84)
	}
	return &DistanceService{cache: cache, settings: settings, solvers: solvers}
}

func (s *DistanceService) defaultUnit() domain.Unit {
	if s.settings == nil {
		return domain.DefaultUnit
	}
	if u := s.settings.DefaultUnit(); u.Valid() {
		return u
	}
	return domain.DefaultUnit
}

// Compute returns the distance between a and b in unit using alg.
//
// An empty unit resolves to the settings' default at call time. Repeated
// calls with the same points, unit and algorithm return the same instance
// while it stays cached. Failed computations are never cached.
func (s *DistanceService) Compute(
	ctx context.Context,
	a, b domain.Coordinates,
	unit domain.Unit,
	alg domain.Algorithm,
) (_ *domain.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.Compute")(&err)

	if a, err = domain.Validate(domain.FirstPoint, a); err != nil {
		return nil, err
	}
	if b, err = domain.Validate(domain.SecondPoint, b); err != nil {
		return nil, err
	}

	if unit == "" {
		unit = s.defaultUnit()
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("compute distance: %w: %q", domain.ErrUnsupportedUnit, string(unit))
	}

	solver, ok := s.solvers[alg]
	if !ok {
		return nil, fmt.Errorf("compute distance: %w: %q", domain.ErrUnsupportedAlgorithm, string(alg))
	}

	key := domain.CacheKey{A: a, B: b, Unit: unit, Algorithm: alg}
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	start := time.Now()
	km, err := solver.Kilometers(a, b)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	solverDuration.WithLabelValues(string(alg), outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("compute distance: %s from %s to %s: %w", alg, a, b, err)
	}

	value, err := domain.Convert(km, unit)
	if err != nil {
		return nil, err
	}

	return s.cache.Put(key, &domain.DistanceResult{Value: value, Unit: unit, Algorithm: alg}), nil
}

// Distance is Compute reduced to its scalar value.
func (s *DistanceService) Distance(
	ctx context.Context,
	a, b domain.Coordinates,
	unit domain.Unit,
	alg domain.Algorithm,
) (float64, error) {
	r, err := s.Compute(ctx, a, b, unit, alg)
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// ComputeWithFallback behaves like Compute but retries with the fallback
// algorithm when alg fails to converge. approximate reports whether the
// returned result came from the fallback. An empty fallback disables the retry.
func (s *DistanceService) ComputeWithFallback(
	ctx context.Context,
	a, b domain.Coordinates,
	unit domain.Unit,
	alg, fallback domain.Algorithm,
) (_ *domain.DistanceResult, approximate bool, err error) {
	r, err := s.Compute(ctx, a, b, unit, alg)
	if err == nil {
		return r, false, nil
	}
	if fallback == "" || fallback == alg || !errors.Is(err, geodesic.ErrConvergenceFailure) {
		return nil, false, err
	}

	obs.FromContext(ctx).Warn("distance did not converge, using fallback",
		zap.String("algorithm", string(alg)),
		zap.String("fallback", string(fallback)),
		zap.Stringer("from", a),
		zap.Stringer("to", b),
	)

	r, err = s.Compute(ctx, a, b, unit, fallback)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}
