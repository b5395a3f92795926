package interpolate

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// stationMatch is the distance under which a target station is treated as
// an existing profile's station.
const stationMatch = 1e-9

// Longitudinal returns the profile at station, interpolated between the two
// profiles that bracket it. profiles must be sorted by station. A station
// equal to an existing profile's station reproduces that profile.
func Longitudinal(profiles []geometry.Profile, station float64, policy geometry.MatchPolicy) (geometry.Profile, error) {
	if len(profiles) == 0 {
		return geometry.Profile{}, calcerr.Geometryf("no profiles to interpolate")
	}

	for i, p := range profiles {
		if math.Abs(p.Station-station) <= stationMatch {
			return p.Clone(), nil
		}
		if i > 0 && p.Station <= profiles[i-1].Station {
			return geometry.Profile{}, calcerr.AtStation(calcerr.Geometryf("profiles are not sorted by station"), p.Station)
		}
	}

	for i := 0; i < len(profiles)-1; i++ {
		a, b := profiles[i], profiles[i+1]
		if a.Station < station && station < b.Station {
			return Between(a, b, station, policy)
		}
	}

	first, last := profiles[0].Station, profiles[len(profiles)-1].Station
	return geometry.Profile{}, calcerr.AtStation(
		calcerr.Geometryf("station is outside the profile range [%.4f, %.4f]", first, last), station)
}

// Between interpolates a profile at station from the adjacent profiles a and
// b, pairing points according to policy.
func Between(a, b geometry.Profile, station float64, policy geometry.MatchPolicy) (geometry.Profile, error) {
	span := b.Station - a.Station
	if span == 0 {
		return geometry.Profile{}, calcerr.AtStation(calcerr.Geometryf("adjacent profiles share a station"), a.Station)
	}
	t := (station - a.Station) / span

	pa, pb, err := matchPoints(a, b, policy)
	if err != nil {
		return geometry.Profile{}, calcerr.AtStation(err, station)
	}

	out := geometry.Profile{Station: station, Points: make([]geometry.Point, len(pa))}
	for i := range pa {
		pt := geometry.Lerp(pa[i], pb[i], t)
		pt.X = station
		out.Points[i] = pt
	}
	if policy == geometry.ByLevelTag {
		out.Levels = append([]string(nil), a.Levels...)
	}
	return out, nil
}

// matchPoints returns two equally long point slices where pa[i] pairs
// with pb[i].
func matchPoints(a, b geometry.Profile, policy geometry.MatchPolicy) (pa, pb []geometry.Point, err error) {
	switch policy {
	case geometry.ByLevelTag:
		return matchByLevel(a, b)
	case geometry.ByIndex:
		return matchByIndex(a, b)
	default:
		return nil, nil, calcerr.Configurationf("unknown match policy %v", policy)
	}
}

func matchByLevel(a, b geometry.Profile) ([]geometry.Point, []geometry.Point, error) {
	keysA, keysB := a.LevelKeys(), b.LevelKeys()
	if keysA == nil || keysB == nil {
		return nil, nil, calcerr.Geometryf("level matching requires level tags on stations %.4f and %.4f", a.Station, b.Station)
	}

	index := make(map[string]int, len(keysB))
	for j, k := range keysB {
		index[k] = j
	}

	pa := make([]geometry.Point, len(keysA))
	pb := make([]geometry.Point, len(keysA))
	for i, k := range keysA {
		j, ok := index[k]
		if !ok {
			return nil, nil, calcerr.Geometryf("level %q has no match at station %.4f", a.Levels[i], b.Station)
		}
		pa[i] = a.Points[i]
		pb[i] = b.Points[j]
	}
	return pa, pb, nil
}

func matchByIndex(a, b geometry.Profile) ([]geometry.Point, []geometry.Point, error) {
	switch {
	case len(a.Points) == len(b.Points):
		return a.Points, b.Points, nil
	case len(a.Points) > len(b.Points):
		ra, err := ResampleAt(a, ArcFractions(b.Points))
		if err != nil {
			return nil, nil, err
		}
		return ra.Points, b.Points, nil
	default:
		rb, err := ResampleAt(b, ArcFractions(a.Points))
		if err != nil {
			return nil, nil, err
		}
		return a.Points, rb.Points, nil
	}
}
