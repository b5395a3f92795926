package interpolate

import (
	"math"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// Taper returns the synthetic profile at station between the hull's end
// profile and its closure.
//
// With an apex closure every point moves linearly toward the apex, which
// closes the hull as a cone. With a level closure each tagged point moves
// toward its own level point, mirrored onto the point's side, reaching it
// at the level point's X and staying there beyond.
func Taper(end geometry.Profile, closure geometry.End, station float64) (geometry.Profile, error) {
	switch closure.Kind() {
	case geometry.Apex:
		return taperToApex(end, *closure.Apex, station)
	case geometry.Levels:
		return taperToLevels(end, closure.Levels, station)
	default:
		return geometry.Profile{}, calcerr.AtStation(
			calcerr.Geometryf("hull ends with a transom at station %.4f", end.Station), station)
	}
}

func taperToApex(end geometry.Profile, apex geometry.Point, station float64) (geometry.Profile, error) {
	t := (station - end.Station) / (apex.X - end.Station)
	if t < 0 || t > 1 || math.IsNaN(t) {
		return geometry.Profile{}, calcerr.AtStation(
			calcerr.Geometryf("station is not between the end profile at %.4f and the apex at %.4f", end.Station, apex.X), station)
	}

	out := geometry.Profile{Station: station, Points: make([]geometry.Point, len(end.Points))}
	for i, p := range end.Points {
		pt := geometry.Lerp(p, apex, t)
		pt.X = station
		out.Points[i] = pt
	}
	if end.HasLevels() {
		out.Levels = append([]string(nil), end.Levels...)
	}
	return out, nil
}

func taperToLevels(end geometry.Profile, levels map[string]geometry.Point, station float64) (geometry.Profile, error) {
	if !end.HasLevels() {
		return geometry.Profile{}, calcerr.AtStation(
			calcerr.Geometryf("level closure requires level tags on the end profile at %.4f", end.Station), station)
	}

	reach := end.Station
	for _, p := range levels {
		if math.Abs(p.X-end.Station) > math.Abs(reach-end.Station) {
			reach = p.X
		}
	}
	lo, hi := math.Min(end.Station, reach), math.Max(end.Station, reach)
	if station < lo || station > hi {
		return geometry.Profile{}, calcerr.AtStation(
			calcerr.Geometryf("station is outside the closure range [%.4f, %.4f]", lo, hi), station)
	}

	out := geometry.Profile{
		Station: station,
		Points:  make([]geometry.Point, len(end.Points)),
		Levels:  append([]string(nil), end.Levels...),
	}
	for i, p := range end.Points {
		target, ok := levels[end.Levels[i]]
		if !ok {
			return geometry.Profile{}, calcerr.AtStation(
				calcerr.Geometryf("closure has no point for level %q", end.Levels[i]), station)
		}
		target.Y = math.Copysign(math.Abs(target.Y), p.Y)

		t := (station - end.Station) / (target.X - end.Station)
		t = math.Min(math.Max(t, 0), 1)

		pt := geometry.Lerp(p, target, t)
		pt.X = station
		out.Points[i] = pt
	}
	return out, nil
}

// EndProfiles generates count synthetic profiles evenly spaced between the
// hull's end profile (exclusive) and its farthest closure point (inclusive).
// A transom end yields no profiles.
func EndProfiles(h *geometry.Hull, side geometry.EndSide, count int) ([]geometry.Profile, error) {
	closure := h.End(side)
	if closure.Kind() == geometry.Transom || count <= 0 {
		return nil, nil
	}

	end := h.EndProfile(side)
	endX := h.EndX(side)

	out := make([]geometry.Profile, 0, count)
	for i := 1; i <= count; i++ {
		station := end.Station + (endX-end.Station)*float64(i)/float64(count)
		p, err := Taper(end, closure, station)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
