package order

// RouteLeg is the traversal between two consecutive stops, as computed by the
// routing collaborator.
type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Route holds the routing collaborator's output for an order: an opaque
// encoded geometry plus per-transition legs. The engine never interprets the
// geometry; staleness is tolerated and self-heals on the next recalculation.
type Route struct {
	Geometry string
	Legs     []RouteLeg
}

// IsZero reports whether no route has been computed yet.
func (r Route) IsZero() bool {
	return r.Geometry == "" && len(r.Legs) == 0
}
