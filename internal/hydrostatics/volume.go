package hydrostatics

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

// volumeTolerance is the smallest volume treated as non-zero (m³).
const volumeTolerance = 1e-12

// StationSection is the submerged section at one sampled station.
type StationSection struct {
	Station float64
	Section
}

// VolumeResult holds the submerged volume and center of buoyancy of a hull
// at one waterline and heel angle.
type VolumeResult struct {
	Volume float64 // m³

	// CenterOfBuoyancy is expressed in the heeled (earth) frame.
	CenterOfBuoyancy geometry.Point

	Waterline float64 // m
	Heel      float64 // degrees
	Method    Method  // rule actually used

	Sections []StationSection
}

// BodyCB returns the center of buoyancy in the hull frame.
func (r VolumeResult) BodyCB() geometry.Point {
	return HeelPoint(r.CenterOfBuoyancy, -r.Heel)
}

// CalculateVolume integrates the submerged cross sections of h at
// numSections evenly spaced stations and returns the volume and center of
// buoyancy.
func CalculateVolume(h *geometry.Hull, waterlineZ, heelDeg float64, numSections int, opts ...Option) (VolumeResult, error) {
	res, err := calculateVolume(h, waterlineZ, heelDeg, numSections, buildOptions(opts))
	if err != nil {
		return VolumeResult{}, calcerr.AtHeel(err, heelDeg)
	}
	return res, nil
}

func calculateVolume(h *geometry.Hull, waterlineZ, heelDeg float64, numSections int, o options) (VolumeResult, error) {
	if numSections < 2 {
		return VolumeResult{}, calcerr.Configurationf("number of sections must be at least 2, got %d", numSections)
	}
	if math.IsNaN(waterlineZ) || math.IsInf(waterlineZ, 0) || math.IsNaN(heelDeg) || math.IsInf(heelDeg, 0) {
		return VolumeResult{}, calcerr.Configurationf("waterline %v and heel %v must be finite", waterlineZ, heelDeg)
	}
	if err := checkWaterline(h, waterlineZ, heelDeg); err != nil {
		return VolumeResult{}, err
	}

	method, err := o.method.resolve(numSections)
	if err != nil {
		return VolumeResult{}, err
	}

	sampler := o.sampler
	if sampler == nil {
		sampler = interpolate.NewSampler(h)
	}
	stations, err := sampler.Stations(numSections)
	if err != nil {
		return VolumeResult{}, err
	}

	n := len(stations)
	area := make([]float64, n)
	momentX := make([]float64, n)
	momentY := make([]float64, n)
	momentZ := make([]float64, n)
	sections := make([]StationSection, n)

	for i, x := range stations {
		p, err := sampler.ProfileAt(x)
		if err != nil {
			return VolumeResult{}, err
		}
		sec, err := CalculateCrossSection(p, waterlineZ, heelDeg)
		if err != nil {
			return VolumeResult{}, err
		}

		sections[i] = StationSection{Station: x, Section: sec}
		area[i] = sec.Area
		momentX[i] = x * sec.Area
		momentY[i] = sec.CentroidY * sec.Area
		momentZ[i] = sec.CentroidZ * sec.Area
	}

	volume := integrateOver(stations, area, method)
	if volume < -volumeTolerance {
		return VolumeResult{}, calcerr.Geometryf("submerged volume is negative (%.6g m³): profile ordering is inconsistent", volume)
	}
	if volume <= volumeTolerance {
		return VolumeResult{}, calcerr.Configurationf("waterline z=%.4f leaves no submerged volume", waterlineZ)
	}

	cb := geometry.Point{
		X: integrateOver(stations, momentX, method) / volume,
		Y: integrateOver(stations, momentY, method) / volume,
		Z: integrateOver(stations, momentZ, method) / volume,
	}

	return VolumeResult{
		Volume:           volume,
		CenterOfBuoyancy: cb,
		Waterline:        waterlineZ,
		Heel:             heelDeg,
		Method:           method,
		Sections:         sections,
	}, nil
}

// checkWaterline rejects a waterline that does not cut the heeled hull.
func checkWaterline(h *geometry.Hull, waterlineZ, heelDeg float64) error {
	minZ, maxZ := heeledVerticalExtent(h.AllPoints(), heelDeg)
	if waterlineZ <= minZ || waterlineZ > maxZ {
		return calcerr.Configurationf("waterline z=%.4f is outside the hull's vertical extent (%.4f, %.4f]", waterlineZ, minZ, maxZ)
	}
	return nil
}
