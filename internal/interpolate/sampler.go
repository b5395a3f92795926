package interpolate

import (
	"strconv"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/floats"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// extentTolerance allows stations computed by floating point spans to sit a
// hair outside the hull extent.
const extentTolerance = 1e-9

// Sampler evaluates the continuous hull surface at arbitrary stations.
//
// Profiles are memoized per station. The cache never changes a result, it
// only avoids repeating interpolation when the same stations are sampled
// for many heel angles or waterlines. A Sampler is safe for concurrent use.
type Sampler struct {
	hull     *geometry.Hull
	profiles []geometry.Profile
	memo     *cache.Cache
}

// NewSampler creates a sampler for h.
func NewSampler(h *geometry.Hull) *Sampler {
	return &Sampler{
		hull:     h,
		profiles: h.Profiles(),
		memo:     cache.New(cache.NoExpiration, 0),
	}
}

// Hull returns the sampled hull.
func (s *Sampler) Hull() *geometry.Hull {
	return s.hull
}

// ProfileAt returns the hull profile at station x: the real profile when x
// is one of the hull's stations, a longitudinal interpolation between real
// profiles, or a tapered profile between an end profile and its closure.
func (s *Sampler) ProfileAt(x float64) (geometry.Profile, error) {
	key := strconv.FormatFloat(x, 'g', -1, 64)
	if v, ok := s.memo.Get(key); ok {
		return v.(geometry.Profile).Clone(), nil
	}

	p, err := s.profileAt(x)
	if err != nil {
		return geometry.Profile{}, err
	}
	s.memo.Set(key, p, cache.NoExpiration)
	return p.Clone(), nil
}

func (s *Sampler) profileAt(x float64) (geometry.Profile, error) {
	minX, maxX := s.hull.Extent()
	if x < minX-extentTolerance || x > maxX+extentTolerance {
		return geometry.Profile{}, calcerr.AtStation(
			calcerr.Geometryf("station is outside the hull extent [%.4f, %.4f]", minX, maxX), x)
	}

	first := s.profiles[0]
	last := s.profiles[len(s.profiles)-1]
	switch {
	case x < first.Station-stationMatch:
		return Taper(first, s.hull.End(geometry.Stern), x)
	case x > last.Station+stationMatch:
		return Taper(last, s.hull.End(geometry.Bow), x)
	default:
		return Longitudinal(s.profiles, x, s.hull.Policy())
	}
}

// Stations returns n evenly spaced stations spanning the hull extent,
// closures included.
func (s *Sampler) Stations(n int) ([]float64, error) {
	if n < 2 {
		return nil, calcerr.Configurationf("number of sections must be at least 2, got %d", n)
	}
	minX, maxX := s.hull.Extent()
	return floats.Span(make([]float64, n), minX, maxX), nil
}

// Profiles samples the hull at n evenly spaced stations.
func (s *Sampler) Profiles(n int) ([]geometry.Profile, error) {
	stations, err := s.Stations(n)
	if err != nil {
		return nil, err
	}
	out := make([]geometry.Profile, len(stations))
	for i, x := range stations {
		p, err := s.ProfileAt(x)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
