// Package interpolate reconstructs hull geometry that is not present in the
// input: points along a profile, profiles between stations and tapered
// profiles toward the bow and stern closures.
package interpolate

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// Side selects one half of a profile, split at the keel.
type Side int

const (
	Port Side = iota
	Starboard
)

func (s Side) String() string {
	if s == Starboard {
		return "starboard"
	}
	return "port"
}

// QueryKind selects how a transverse query is resolved.
type QueryKind int

const (
	// ByHeight finds the point at a given Z on one side of the profile.
	ByHeight QueryKind = iota
	// ByArcLength finds the point at a fraction of the polyline length.
	ByArcLength
)

// TransverseQuery locates a point along a profile polyline.
type TransverseQuery struct {
	Kind  QueryKind
	Side  Side    // used by ByHeight
	Value float64 // Z for ByHeight, fraction in [0, 1] for ByArcLength
}

// AtHeight builds a query for the point at height z on the given side.
func AtHeight(side Side, z float64) TransverseQuery {
	return TransverseQuery{Kind: ByHeight, Side: side, Value: z}
}

// AtArcFraction builds a query for the point a fraction f of the way along
// the polyline, measured from the first (port) point.
func AtArcFraction(f float64) TransverseQuery {
	return TransverseQuery{Kind: ByArcLength, Value: f}
}

// Transverse linearly interpolates a point on the polyline formed by pts.
func Transverse(pts []geometry.Point, q TransverseQuery) (geometry.Point, error) {
	if len(pts) < 2 {
		return geometry.Point{}, calcerr.Geometryf("polyline needs at least 2 points, got %d", len(pts))
	}
	switch q.Kind {
	case ByHeight:
		return atHeight(pts, q.Side, q.Value)
	case ByArcLength:
		return atArcFraction(pts, q.Value)
	default:
		return geometry.Point{}, calcerr.Configurationf("unknown transverse query kind %d", q.Kind)
	}
}

// atHeight scans from the keel outward along one side for the segment
// bracketing z.
func atHeight(pts []geometry.Point, side Side, z float64) (geometry.Point, error) {
	keel := geometry.Profile{Points: pts}.KeelIndex()

	step := 1
	if side == Port {
		step = -1
	}

	lo, hi := pts[keel].Z, pts[keel].Z
	for i := keel; i+step >= 0 && i+step < len(pts); i += step {
		a, b := pts[i], pts[i+step]
		lo = math.Min(lo, b.Z)
		hi = math.Max(hi, b.Z)

		if (a.Z <= z && z <= b.Z) || (b.Z <= z && z <= a.Z) {
			if a.Z == b.Z {
				return a, nil
			}
			t := (z - a.Z) / (b.Z - a.Z)
			return geometry.Lerp(a, b, t), nil
		}
	}

	return geometry.Point{}, calcerr.Geometryf("height z=%.4f is outside the %s side extent [%.4f, %.4f]", z, side, lo, hi)
}

// ArcFractions returns the cumulative polyline length at each point as a
// fraction of the total length.
func ArcFractions(pts []geometry.Point) []float64 {
	fr := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		fr[i] = fr[i-1] + geometry.DistanceYZ(pts[i-1], pts[i])
	}
	total := fr[len(fr)-1]
	if total == 0 {
		return fr
	}
	for i := range fr {
		fr[i] /= total
	}
	fr[len(fr)-1] = 1
	return fr
}

const fractionTolerance = 1e-12

func atArcFraction(pts []geometry.Point, f float64) (geometry.Point, error) {
	if f < -fractionTolerance || f > 1+fractionTolerance || math.IsNaN(f) {
		return geometry.Point{}, calcerr.Geometryf("arc fraction %.6f is outside [0, 1]", f)
	}
	f = math.Min(math.Max(f, 0), 1)

	fr := ArcFractions(pts)
	if fr[len(fr)-1] == 0 {
		return geometry.Point{}, calcerr.Geometryf("polyline has zero length")
	}

	for i := 0; i < len(pts)-1; i++ {
		if f <= fr[i+1] {
			span := fr[i+1] - fr[i]
			if span == 0 {
				return pts[i], nil
			}
			return geometry.Lerp(pts[i], pts[i+1], (f-fr[i])/span), nil
		}
	}
	return pts[len(pts)-1], nil
}

// ResampleAt returns a copy of p with one point at each arc-length fraction.
// Level tags are dropped since resampled points no longer sit on a level.
func ResampleAt(p geometry.Profile, fractions []float64) (geometry.Profile, error) {
	out := geometry.Profile{Station: p.Station, Points: make([]geometry.Point, len(fractions))}
	for i, f := range fractions {
		pt, err := Transverse(p.Points, AtArcFraction(f))
		if err != nil {
			return geometry.Profile{}, calcerr.AtStation(err, p.Station)
		}
		pt.X = p.Station
		out.Points[i] = pt
	}
	return out, nil
}

// Resample returns p resampled to n points evenly spaced by arc length.
func Resample(p geometry.Profile, n int) (geometry.Profile, error) {
	if n < 2 {
		return geometry.Profile{}, calcerr.Configurationf("cannot resample to %d points", n)
	}
	fractions := make([]float64, n)
	for i := range fractions {
		fractions[i] = float64(i) / float64(n-1)
	}
	return ResampleAt(p, fractions)
}
