package mass

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

// HullLabel is the label of the component returned by HullComponent.
const HullLabel = "hull"

// HullComponent places hullMass at the centroid of the hull shell. The
// shell is the open profile polyline (gunwale to keel to gunwale, without
// the deck edge) swept along the hull, so the mass follows the skin area
// rather than the enclosed volume.
func HullComponent(h *geometry.Hull, hullMass float64, numSections int) (Component, error) {
	if hullMass <= 0 || math.IsNaN(hullMass) || math.IsInf(hullMass, 0) {
		return Component{}, calcerr.Configurationf("hull mass must be positive, got %v", hullMass)
	}

	sampler := interpolate.NewSampler(h)
	stations, err := sampler.Stations(numSections)
	if err != nil {
		return Component{}, err
	}

	n := len(stations)
	length := make([]float64, n)
	momentX := make([]float64, n)
	momentY := make([]float64, n)
	momentZ := make([]float64, n)

	for i, x := range stations {
		p, err := sampler.ProfileAt(x)
		if err != nil {
			return Component{}, err
		}
		l, cy, cz := perimeter(p.Points)
		length[i] = l
		momentX[i] = x * l
		momentY[i] = cy * l
		momentZ[i] = cz * l
	}

	area, err := hydrostatics.Integrate(stations, length, hydrostatics.Auto)
	if err != nil {
		return Component{}, err
	}
	if area <= 0 {
		return Component{}, calcerr.Geometryf("hull shell has no surface area")
	}

	var c geometry.Point
	for _, m := range []struct {
		f   []float64
		dst *float64
	}{{momentX, &c.X}, {momentY, &c.Y}, {momentZ, &c.Z}} {
		v, err := hydrostatics.Integrate(stations, m.f, hydrostatics.Auto)
		if err != nil {
			return Component{}, err
		}
		*m.dst = v / area
	}

	return Component{Label: HullLabel, Mass: hullMass, Position: c}, nil
}

// perimeter returns the length of the open polyline and the centroid of
// its segments in the transverse plane.
func perimeter(pts []geometry.Point) (length, cy, cz float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := geometry.DistanceYZ(a, b)
		length += d
		cy += d * (a.Y + b.Y) / 2
		cz += d * (a.Z + b.Z) / 2
	}
	if length == 0 {
		return 0, 0, 0
	}
	return length, cy / length, cz / length
}
