// Package hullio reads and writes hull geometry, centers of gravity and
// stability curves.
//
// Hull files come in two formats, JSON and CSV. Both may declare their
// length units and the origin of the longitudinal axis; loaders convert
// everything to the canonical frame (meters, X from the stern toward the
// bow) before a geometry.Hull is built, so invalid structure is rejected
// at load time.
package hullio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// Options control how hull files are interpreted.
type Options struct {
	// Units applies to files that do not declare their own units.
	Units Units
}

// LoadHull reads a hull file, choosing the format by extension.
func LoadHull(path string, opts Options) (*geometry.Hull, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hull: %w", err)
	}
	defer f.Close()

	var h *geometry.Hull
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		h, err = ReadJSON(f, opts)
	case ".csv":
		h, err = ReadCSV(f, opts)
	default:
		return nil, calcerr.Configurationf("hull file %s: unsupported format %q (use .json or .csv)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("hull %s: %w", path, err)
	}
	return h, nil
}

// rawPoint is a point as read from a file, before unit and axis
// conversion. X is optional on profile points.
type rawPoint struct {
	X     *float64
	Y, Z  float64
	Level string
}

type rawProfile struct {
	Station float64
	Points  []rawPoint
}

type rawEnd struct {
	Apex   *geometry.Point
	Levels map[string]geometry.Point
}

// rawHull is the format-independent content of a hull file.
type rawHull struct {
	Name             string
	Description      string
	Units            string
	CoordinateSystem string
	WaterDensity     float64

	Profiles []rawProfile
	Stern    *rawEnd
	Bow      *rawEnd
}

// stationMatch is the tolerance, relative to the station, for a profile
// point's X to count as lying on the station.
const stationMatch = 1e-6

// build converts raw file content to the canonical frame and validates it.
func (r *rawHull) build(opts Options) (*geometry.Hull, error) {
	units := opts.Units
	if strings.TrimSpace(r.Units) != "" {
		u, err := ParseUnits(r.Units)
		if err != nil {
			return nil, err
		}
		units = u
	}
	if units == "" {
		units = Meters
	}
	cs, err := ParseCoordinateSystem(r.CoordinateSystem)
	if err != nil {
		return nil, err
	}
	if r.WaterDensity < 0 || math.IsNaN(r.WaterDensity) {
		return nil, calcerr.Configurationf("water density must be positive, got %v", r.WaterDensity)
	}
	if len(r.Profiles) == 0 {
		return nil, calcerr.Geometryf("hull has no profiles")
	}

	scale := units.ToMeters()
	toX := func(x float64) float64 { return x * scale }
	if cs == BowOrigin {
		ref := r.maxX() * scale
		toX = func(x float64) float64 { return ref - x*scale }
	}

	profiles := make([]geometry.Profile, len(r.Profiles))
	for i, rp := range r.Profiles {
		station := toX(rp.Station)
		p := geometry.Profile{
			Station: station,
			Points:  make([]geometry.Point, len(rp.Points)),
		}
		tagged := 0
		for _, pt := range rp.Points {
			if pt.Level != "" {
				tagged++
			}
		}
		if tagged > 0 {
			p.Levels = make([]string, len(rp.Points))
		}
		for j, pt := range rp.Points {
			if pt.X != nil && math.Abs(*pt.X-rp.Station) > stationMatch*math.Max(1, math.Abs(rp.Station)) {
				err := calcerr.Geometryf("point %d has x=%v but the profile station is %v", j+1, *pt.X, rp.Station)
				return nil, calcerr.AtStation(err, station)
			}
			if tagged > 0 && pt.Level == "" {
				err := calcerr.Geometryf("point %d has no level tag but other points of the profile do", j+1)
				return nil, calcerr.AtStation(err, station)
			}
			p.Points[j] = geometry.Point{X: station, Y: pt.Y * scale, Z: pt.Z * scale}
			if tagged > 0 {
				p.Levels[j] = pt.Level
			}
		}
		profiles[i] = p
	}

	convert := func(pt geometry.Point) geometry.Point {
		return geometry.Point{X: toX(pt.X), Y: pt.Y * scale, Z: pt.Z * scale}
	}
	hullOpts := []geometry.HullOption{geometry.WithMetadata(geometry.Metadata{
		Name:         r.Name,
		Description:  r.Description,
		SourceUnits:  string(units),
		WaterDensity: r.WaterDensity,
	})}
	if r.Stern != nil {
		hullOpts = append(hullOpts, geometry.WithStern(r.Stern.convert(convert)))
	}
	if r.Bow != nil {
		hullOpts = append(hullOpts, geometry.WithBow(r.Bow.convert(convert)))
	}

	return geometry.NewHull(profiles, hullOpts...)
}

func (e *rawEnd) convert(fn func(geometry.Point) geometry.Point) geometry.End {
	var out geometry.End
	if e.Apex != nil {
		p := fn(*e.Apex)
		out.Apex = &p
	}
	if len(e.Levels) > 0 {
		out.Levels = make(map[string]geometry.Point, len(e.Levels))
		for tag, p := range e.Levels {
			out.Levels[tag] = fn(p)
		}
	}
	return out
}

// maxX is the largest longitudinal coordinate in the file, the reference
// length for bow-origin files.
func (r *rawHull) maxX() float64 {
	xs := make([]float64, 0, len(r.Profiles)+2)
	for _, p := range r.Profiles {
		xs = append(xs, p.Station)
	}
	for _, e := range []*rawEnd{r.Stern, r.Bow} {
		if e == nil {
			continue
		}
		if e.Apex != nil {
			xs = append(xs, e.Apex.X)
		}
		for _, p := range e.Levels {
			xs = append(xs, p.X)
		}
	}
	return floats.Max(xs)
}
