package hydrostatics

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

const (
	maxEquilibriumIterations = 100
	equilibriumRelTolerance  = 1e-9
)

// Displacement returns the mass of water displaced by volume (kg).
func Displacement(volume, density float64) float64 {
	return volume * density
}

// EquilibriumWaterline finds the upright waterline at which the hull
// displaces mass kilograms of water of the given density, by bisection
// between the keel and the highest point of the hull.
func EquilibriumWaterline(h *geometry.Hull, mass, density float64, numSections int, opts ...Option) (float64, error) {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return 0, calcerr.Configurationf("mass must be positive, got %v", mass)
	}
	if density <= 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return 0, calcerr.Configurationf("water density must be positive, got %v", density)
	}

	o := buildOptions(opts)
	if o.sampler == nil {
		o.sampler = interpolate.NewSampler(h)
	}
	target := mass / density

	volumeAt := func(z float64) (float64, error) {
		res, err := calculateVolume(h, z, 0, numSections, o)
		if err != nil {
			return 0, err
		}
		return res.Volume, nil
	}

	// Errors at the top of the hull are parameter errors; lower down a
	// configuration error only means nothing is submerged yet.
	lo, hi := h.VerticalExtent()
	maxVolume, err := volumeAt(hi)
	if err != nil {
		return 0, err
	}
	if maxVolume < target {
		return 0, calcerr.Convergencef("hull cannot float %.2f kg: fully immersed it displaces %.2f kg",
			mass, Displacement(maxVolume, density))
	}

	for iter := 0; iter < maxEquilibriumIterations; iter++ {
		mid := (lo + hi) / 2
		v, err := volumeAt(mid)
		if err != nil {
			if !calcerr.Is(err, calcerr.Configuration) {
				return 0, err
			}
			v = 0
		}

		if math.Abs(v-target) <= equilibriumRelTolerance*target {
			return mid, nil
		}
		if v < target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12 {
			return (lo + hi) / 2, nil
		}
	}

	return 0, calcerr.Convergencef("equilibrium waterline did not converge in %d iterations (bracket [%.6f, %.6f])",
		maxEquilibriumIterations, lo, hi)
}
