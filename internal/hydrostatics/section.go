package hydrostatics

import (
	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// areaTolerance absorbs round-off when clipping nearly empty sections.
const areaTolerance = 1e-12

// Section holds the submerged area of one profile and its centroid in the
// heeled frame.
type Section struct {
	Area      float64 // m²
	CentroidY float64 // m
	CentroidZ float64 // m
}

// PolygonSection computes area and centroid of a polygon in the (Y, Z)
// plane. Polygons with fewer than 3 vertices have zero area and a zero
// centroid. Winding is not corrected: a clockwise polygon has negative area.
func PolygonSection(poly []geometry.Point) Section {
	area, cy, cz := geometry.PolygonArea(poly)
	return Section{Area: area, CentroidY: cy, CentroidZ: cz}
}

// CalculateCrossSection returns the submerged section of p at the given
// waterline and heel. A negative area means the profile is wound the wrong
// way and is reported as a geometry error.
func CalculateCrossSection(p geometry.Profile, waterlineZ, heelDeg float64) (Section, error) {
	sec := PolygonSection(SubmergedPolygon(p, waterlineZ, heelDeg))
	if sec.Area < -areaTolerance {
		err := calcerr.Geometryf("submerged area is negative (%.6g m²): profile winding is inconsistent", sec.Area)
		return Section{}, calcerr.AtHeel(calcerr.AtStation(err, p.Station), heelDeg)
	}
	if sec.Area < areaTolerance {
		return Section{}, nil
	}
	return sec, nil
}

// CalculateCrossSectionArea returns the submerged area of p.
func CalculateCrossSectionArea(p geometry.Profile, waterlineZ, heelDeg float64) (float64, error) {
	sec, err := CalculateCrossSection(p, waterlineZ, heelDeg)
	if err != nil {
		return 0, err
	}
	return sec.Area, nil
}
