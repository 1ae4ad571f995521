package domain

// Distance between two coordinates expressed in Unit.
// Results are shared by pointer between callers asking for the same key
// and must be treated as read-only.
type DistanceResult struct {
	Value     float64
	Unit      Unit
	Algorithm Algorithm
}

// Identifies a memoized distance. Point order is significant.
type CacheKey struct {
	A         Coordinates
	B         Coordinates
	Unit      Unit
	Algorithm Algorithm
}
