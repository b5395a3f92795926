package hydrostatics

import (
	"sort"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

// Waterplane holds the properties of the upright waterplane.
type Waterplane struct {
	Area      float64 // m²
	CentroidX float64 // longitudinal center of flotation (m)
	CentroidY float64 // m

	// InertiaT is the transverse second moment of area about the
	// longitudinal axis through the centroid (m⁴).
	InertiaT float64
	// InertiaL is the longitudinal second moment of area about the
	// transverse axis through the centroid (m⁴).
	InertiaL float64
}

// WaterplaneProperties integrates the upright waterplane of h at the given
// waterline over numSections stations.
func WaterplaneProperties(h *geometry.Hull, waterlineZ float64, numSections int, opts ...Option) (Waterplane, error) {
	o := buildOptions(opts)
	if numSections < 2 {
		return Waterplane{}, calcerr.Configurationf("number of sections must be at least 2, got %d", numSections)
	}
	if err := checkWaterline(h, waterlineZ, 0); err != nil {
		return Waterplane{}, err
	}
	method, err := o.method.resolve(numSections)
	if err != nil {
		return Waterplane{}, err
	}

	sampler := o.sampler
	if sampler == nil {
		sampler = interpolate.NewSampler(h)
	}
	stations, err := sampler.Stations(numSections)
	if err != nil {
		return Waterplane{}, err
	}

	n := len(stations)
	breadth := make([]float64, n)
	firstX := make([]float64, n)
	secondX := make([]float64, n)
	firstY := make([]float64, n)
	secondY := make([]float64, n)

	for i, x := range stations {
		p, err := sampler.ProfileAt(x)
		if err != nil {
			return Waterplane{}, err
		}
		b, m1, m2 := stripMoments(WaterlineIntersection(p, waterlineZ, 0))
		breadth[i] = b
		firstX[i] = x * b
		secondX[i] = x * x * b
		firstY[i] = m1
		secondY[i] = m2
	}

	area := integrateOver(stations, breadth, method)
	if area <= areaTolerance {
		return Waterplane{}, calcerr.Configurationf("waterline z=%.4f has no waterplane area", waterlineZ)
	}

	wp := Waterplane{Area: area}
	wp.CentroidX = integrateOver(stations, firstX, method) / area
	wp.CentroidY = integrateOver(stations, firstY, method) / area
	wp.InertiaT = integrateOver(stations, secondY, method) - area*wp.CentroidY*wp.CentroidY
	wp.InertiaL = integrateOver(stations, secondX, method) - area*wp.CentroidX*wp.CentroidX
	return wp, nil
}

// stripMoments returns the wetted breadth of one station's waterline and
// its first and second moments about Y = 0. Crossings are paired after
// sorting by Y, so re-entrant sections contribute each wetted strip once.
func stripMoments(crossings []geometry.Point) (breadth, first, second float64) {
	ys := make([]float64, len(crossings))
	for i, c := range crossings {
		ys[i] = c.Y
	}
	sort.Float64s(ys)

	for i := 0; i+1 < len(ys); i += 2 {
		y1, y2 := ys[i], ys[i+1]
		breadth += y2 - y1
		first += (y2*y2 - y1*y1) / 2
		second += (y2*y2*y2 - y1*y1*y1) / 3
	}
	return breadth, first, second
}
