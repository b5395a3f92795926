package geometry

import (
	"math"
	"strings"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
)

// MinProfilePoints is the fewest points a profile may have.
const MinProfilePoints = 3

// stationTolerance is the allowed mismatch between a point's X and its
// profile station.
const stationTolerance = 1e-9

// Validate checks the structural invariants of a single profile: enough
// finite points, all lying on the profile's station, consistent level tags,
// and a port-to-starboard traversal (positive area).
func (p Profile) Validate() error {
	if err := p.validate(); err != nil {
		return calcerr.AtStation(err, p.Station)
	}
	return nil
}

func (p Profile) validate() error {
	if !isFinite(p.Station) {
		return calcerr.Geometryf("station is not a finite number")
	}
	if len(p.Points) < MinProfilePoints {
		return calcerr.Geometryf("profile must have at least %d points, got %d", MinProfilePoints, len(p.Points))
	}

	tol := stationTolerance * math.Max(1, math.Abs(p.Station))
	for i, pt := range p.Points {
		if !pt.IsFinite() {
			return calcerr.Geometryf("point %d has non-finite coordinates %s", i+1, pt)
		}
		if math.Abs(pt.X-p.Station) > tol {
			return calcerr.Geometryf("point %d has x=%.6f but the profile station is %.6f", i+1, pt.X, p.Station)
		}
	}

	if p.HasLevels() {
		if len(p.Levels) != len(p.Points) {
			return calcerr.Geometryf("profile has %d level tags for %d points", len(p.Levels), len(p.Points))
		}
		for i, tag := range p.Levels {
			if strings.TrimSpace(tag) == "" {
				return calcerr.Geometryf("point %d has an empty level tag", i+1)
			}
		}
	}

	area, _, _ := PolygonArea(p.Points)
	if area <= 0 {
		return calcerr.Geometryf("profile area is %.6g m²: points must run from port through the keel to starboard", area)
	}
	return nil
}

// validateHull checks every profile and the hull-level invariants and
// returns the point matching policy for the hull.
func validateHull(profiles []Profile, stern, bow End) (MatchPolicy, error) {
	if len(profiles) < 2 {
		return ByIndex, calcerr.Geometryf("hull must have at least 2 profiles, got %d", len(profiles))
	}

	tagged := 0
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return ByIndex, err
		}
		if i > 0 && p.Station <= profiles[i-1].Station {
			return ByIndex, calcerr.AtStation(
				calcerr.Geometryf("duplicate station %.6f", p.Station), p.Station)
		}
		if p.HasLevels() {
			tagged++
		}
	}

	policy := ByIndex
	switch tagged {
	case 0:
	case len(profiles):
		policy = ByLevelTag
		if err := validateLevelSequences(profiles); err != nil {
			return policy, err
		}
	default:
		return policy, calcerr.Geometryf("%d of %d profiles carry level tags: tag every profile or none", tagged, len(profiles))
	}

	if err := validateEnd(stern, Stern, profiles[0], policy); err != nil {
		return policy, err
	}
	if err := validateEnd(bow, Bow, profiles[len(profiles)-1], policy); err != nil {
		return policy, err
	}
	return policy, nil
}

// validateLevelSequences requires every profile to carry the same ordered
// level keys. A different order would pair points across the centerline
// and twist the interpolated sections.
func validateLevelSequences(profiles []Profile) error {
	ref := profiles[0].LevelKeys()
	for _, p := range profiles[1:] {
		keys := p.LevelKeys()
		if len(keys) != len(ref) {
			return calcerr.AtStation(calcerr.Geometryf(
				"level tags %v do not match %v at station %.3f", p.Levels, profiles[0].Levels, profiles[0].Station), p.Station)
		}
		for i := range keys {
			if keys[i] != ref[i] {
				return calcerr.AtStation(calcerr.Geometryf(
					"level tag %q at point %d does not match %q at station %.3f",
					p.Levels[i], i+1, profiles[0].Levels[i], profiles[0].Station), p.Station)
			}
		}
	}
	return nil
}

func validateEnd(e End, side EndSide, adjacent Profile, policy MatchPolicy) error {
	if e.Apex != nil && len(e.Levels) > 0 {
		return calcerr.Geometryf("%s closure has both an apex and level points", side)
	}

	for _, p := range e.Points() {
		if !p.IsFinite() {
			return calcerr.Geometryf("%s closure point %s is not finite", side, p)
		}
		beyond := p.X > adjacent.Station
		if side == Stern {
			beyond = p.X < adjacent.Station
		}
		if !beyond {
			return calcerr.Geometryf("%s closure point %s must lie beyond the %s profile at station %.3f",
				side, p, side, adjacent.Station)
		}
	}

	if e.Kind() != Levels {
		return nil
	}
	if policy != ByLevelTag {
		return calcerr.Geometryf("%s closure uses level points but the profiles carry no level tags", side)
	}
	for _, tag := range adjacent.Levels {
		if _, ok := e.Levels[tag]; !ok {
			return calcerr.Geometryf("%s closure has no point for level %q", side, tag)
		}
	}
	return nil
}
