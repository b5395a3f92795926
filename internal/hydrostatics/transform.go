// Package hydrostatics computes submerged geometry of a hull: heel
// rotation, waterline intersection, cross-section area and centroid, and
// the volume and center of buoyancy integrated along the hull.
//
// All functions are pure. Coordinates follow the hull frame of package
// geometry; heeled results are expressed in the earth frame, where the
// waterline is the horizontal plane Z = waterlineZ.
package hydrostatics

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// HeelTransform rotates points about the longitudinal axis by angleDeg
// degrees. Positive angles put the starboard side down. X is unchanged.
func HeelTransform(points []geometry.Point, angleDeg float64) []geometry.Point {
	rad := angleDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)

	out := make([]geometry.Point, len(points))
	for i, p := range points {
		out[i] = geometry.Point{
			X: p.X,
			Y: p.Y*c + p.Z*s,
			Z: -p.Y*s + p.Z*c,
		}
	}
	return out
}

// HeelPoint rotates a single point, see HeelTransform.
func HeelPoint(p geometry.Point, angleDeg float64) geometry.Point {
	return HeelTransform([]geometry.Point{p}, angleDeg)[0]
}

// WaterlineIntersection returns every point where the heeled profile
// polygon crosses the waterline, in traversal order. The polygon includes
// the deck edge from the last point back to the first, so a heeled profile
// whose deck edge is immersed is handled like any other edge.
func WaterlineIntersection(p geometry.Profile, waterlineZ, heelDeg float64) []geometry.Point {
	pts := HeelTransform(p.Points, heelDeg)

	var crossings []geometry.Point
	n := len(pts)
	for i := 0; i < n; i++ {
		curr, next := pts[i], pts[(i+1)%n]
		if (curr.Z < waterlineZ) != (next.Z < waterlineZ) {
			crossings = append(crossings, crossing(curr, next, waterlineZ))
		}
	}
	return crossings
}

// SubmergedPolygon clips the heeled profile polygon to the half-plane below
// the waterline. The result keeps traversal order: points strictly below
// the waterline plus the crossing points, closed implicitly along the
// waterline. A profile entirely above the waterline yields no points and
// one entirely below yields the full heeled polygon.
func SubmergedPolygon(p geometry.Profile, waterlineZ, heelDeg float64) []geometry.Point {
	pts := HeelTransform(p.Points, heelDeg)

	var result []geometry.Point
	n := len(pts)
	for i := 0; i < n; i++ {
		curr, next := pts[i], pts[(i+1)%n]

		currBelow := curr.Z < waterlineZ
		nextBelow := next.Z < waterlineZ

		if currBelow {
			result = append(result, curr)
		}
		if currBelow != nextBelow {
			result = append(result, crossing(curr, next, waterlineZ))
		}
	}
	return result
}

// crossing interpolates the point on segment a-b at height z.
func crossing(a, b geometry.Point, z float64) geometry.Point {
	t := (z - a.Z) / (b.Z - a.Z)
	pt := geometry.Lerp(a, b, t)
	pt.Z = z
	return pt
}

// heeledVerticalExtent returns the lowest and highest Z of pts after heel.
func heeledVerticalExtent(pts []geometry.Point, heelDeg float64) (minZ, maxZ float64) {
	rotated := HeelTransform(pts, heelDeg)
	minZ, maxZ = rotated[0].Z, rotated[0].Z
	for _, p := range rotated {
		minZ = math.Min(minZ, p.Z)
		maxZ = math.Max(maxZ, p.Z)
	}
	return minZ, maxZ
}
