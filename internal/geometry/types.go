package geometry

import (
	"fmt"
	"math"
)

// Point represents a 3D coordinate in the hull frame where:
// - X-axis is longitudinal, origin at the stern, increasing toward the bow
// - Y-axis is transverse, positive to starboard
// - Z-axis is vertical, positive upward
type Point struct {
	X float64 `json:"x"` // m
	Y float64 `json:"y"` // m
	Z float64 `json:"z"` // m
}

// Lerp returns the point a fraction t of the way from a to b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}

// IsFinite reports whether all coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// DistanceYZ is the distance between two points in the transverse plane.
func DistanceYZ(a, b Point) float64 {
	return math.Hypot(b.Y-a.Y, b.Z-a.Z)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Profile is one transverse cross-section of the hull at a station.
//
// Points run from the port gunwale (negative Y) down through the keel and up
// to the starboard gunwale. The polygon is closed by the deck edge from the
// last point back to the first, so a correctly ordered profile has positive
// area in the (Y, Z) plane.
type Profile struct {
	Station float64 `json:"station"` // m from the stern
	Points  []Point `json:"points"`

	// Levels optionally tags each point with a named level such as
	// "keel", "chine" or "gunwale". When set it is parallel to Points.
	Levels []string `json:"levels,omitempty"`
}

// HasLevels reports whether the profile carries level tags.
func (p Profile) HasLevels() bool {
	return len(p.Levels) > 0
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	cp := Profile{Station: p.Station, Points: append([]Point(nil), p.Points...)}
	if p.Levels != nil {
		cp.Levels = append([]string(nil), p.Levels...)
	}
	return cp
}

// LevelKeys returns one key per point identifying the k-th occurrence of
// its level tag, e.g. "chine#0" on port and "chine#1" on starboard.
// It returns nil when the profile has no level tags.
func (p Profile) LevelKeys() []string {
	if !p.HasLevels() {
		return nil
	}
	seen := make(map[string]int, len(p.Levels))
	keys := make([]string, len(p.Levels))
	for i, tag := range p.Levels {
		keys[i] = fmt.Sprintf("%s#%d", tag, seen[tag])
		seen[tag]++
	}
	return keys
}

// KeelIndex returns the index of the lowest point, the first one on ties.
func (p Profile) KeelIndex() int {
	idx := 0
	for i, pt := range p.Points {
		if pt.Z < p.Points[idx].Z {
			idx = i
		}
	}
	return idx
}

// Bounds returns the transverse and vertical extent of the profile.
func (p Profile) Bounds() (minY, maxY, minZ, maxZ float64) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	minZ, maxZ = p.Points[0].Z, p.Points[0].Z
	for _, pt := range p.Points {
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
		minZ = math.Min(minZ, pt.Z)
		maxZ = math.Max(maxZ, pt.Z)
	}
	return minY, maxY, minZ, maxZ
}

// PolygonArea computes the signed area and centroid of a closed polygon in
// the (Y, Z) plane using the shoelace formula. Counter-clockwise polygons
// (port to keel to starboard) have positive area. Fewer than 3 vertices or
// a zero area yield a zero result.
func PolygonArea(pts []Point) (area, cy, cz float64) {
	n := len(pts)
	if n < 3 {
		return 0, 0, 0
	}

	var sumY, sumZ float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := pts[i].Y*pts[j].Z - pts[j].Y*pts[i].Z
		area += cross
		sumY += (pts[i].Y + pts[j].Y) * cross
		sumZ += (pts[i].Z + pts[j].Z) * cross
	}

	area /= 2
	if area != 0 {
		cy = sumY / (6 * area)
		cz = sumZ / (6 * area)
	}
	return area, cy, cz
}

// MatchPolicy selects how points are paired between adjacent profiles when
// interpolating along the hull. It is chosen once per hull.
type MatchPolicy int

const (
	// ByIndex pairs the i-th point of one profile with the i-th point of
	// the next, resampling the longer profile when counts differ.
	ByIndex MatchPolicy = iota
	// ByLevelTag pairs points carrying the same level tag occurrence.
	ByLevelTag
)

func (m MatchPolicy) String() string {
	switch m {
	case ByIndex:
		return "by-index"
	case ByLevelTag:
		return "by-level-tag"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(m))
	}
}

// EndSide identifies one end of the hull.
type EndSide int

const (
	Stern EndSide = iota
	Bow
)

func (s EndSide) String() string {
	if s == Bow {
		return "bow"
	}
	return "stern"
}

// EndKind is the closure variant of an End.
type EndKind int

const (
	// Transom ends the hull flat at its extreme profile.
	Transom EndKind = iota
	// Apex closes the hull toward a single point.
	Apex
	// Levels closes each named level toward its own point.
	Levels
)

func (k EndKind) String() string {
	switch k {
	case Apex:
		return "apex"
	case Levels:
		return "levels"
	default:
		return "transom"
	}
}

// End describes how the hull closes beyond its first or last profile.
// The zero value is a transom. Set Apex for a single closure point or
// Levels for a multi-level closure, never both.
type End struct {
	Apex   *Point           `json:"apex,omitempty"`
	Levels map[string]Point `json:"levels,omitempty"`
}

// Kind returns the closure variant.
func (e End) Kind() EndKind {
	switch {
	case e.Apex != nil:
		return Apex
	case len(e.Levels) > 0:
		return Levels
	default:
		return Transom
	}
}

// Points returns the closure points in no particular order.
func (e End) Points() []Point {
	switch e.Kind() {
	case Apex:
		return []Point{*e.Apex}
	case Levels:
		pts := make([]Point, 0, len(e.Levels))
		for _, p := range e.Levels {
			pts = append(pts, p)
		}
		return pts
	default:
		return nil
	}
}

// Metadata carries descriptive information about a hull. Coordinates in a
// Hull are always meters regardless of the source file units.
type Metadata struct {
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	SourceUnits  string  `json:"units,omitempty"`
	WaterDensity float64 `json:"water_density,omitempty"` // kg/m³, 0 when unspecified
}
