package types

// Region is the name of an area of the map.
type Region string

// RegionNone is returned for positions outside every named region (hallways).
const RegionNone Region = ""

// LocationOracle answers map questions for the engine.
// Implementations must be pure functions of position for a fixed map.
type LocationOracle interface {
	// RegionAt returns the region containing the point, or false when the point is in transit.
	RegionAt(x, y float64) (Region, bool)
	// IsWalkable reports whether an actor may stand on the point.
	IsWalkable(x, y float64) bool
}
