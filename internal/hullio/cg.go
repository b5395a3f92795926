package hullio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
)

type cgFile struct {
	Units      string          `json:"units,omitempty"`
	Components []cgComponent   `json:"components,omitempty"`
	Position   *geometry.Point `json:"position,omitempty"`
	TotalMass  float64         `json:"total_mass,omitempty"`
	HullMass   float64         `json:"hull_mass,omitempty"`
}

type cgComponent struct {
	Label string  `json:"label"`
	Mass  float64 `json:"mass"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// CGSource is what a CG file needs from the caller: the hull for a
// hull_mass entry and the station count used to find the shell centroid.
type CGSource struct {
	Hull        *geometry.Hull
	NumSections int
	Units       Units
}

// LoadCG reads a center-of-gravity JSON file.
func LoadCG(path string, src CGSource) (mass.CenterOfGravity, error) {
	f, err := os.Open(path)
	if err != nil {
		return mass.CenterOfGravity{}, fmt.Errorf("cg: %w", err)
	}
	defer f.Close()

	cg, err := ReadCG(f, src)
	if err != nil {
		return mass.CenterOfGravity{}, fmt.Errorf("cg %s: %w", path, err)
	}
	return cg, nil
}

// ReadCG reads a center-of-gravity document. It holds either a list of
// mass components or a direct position with its total mass, plus an
// optional hull_mass placed at the hull shell centroid.
func ReadCG(r io.Reader, src CGSource) (mass.CenterOfGravity, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc cgFile
	if err := dec.Decode(&doc); err != nil {
		return mass.CenterOfGravity{}, calcerr.Wrap(calcerr.Configuration, err, "invalid CG JSON")
	}

	units := src.Units
	if doc.Units != "" {
		u, err := ParseUnits(doc.Units)
		if err != nil {
			return mass.CenterOfGravity{}, err
		}
		units = u
	}
	if units == "" {
		units = Meters
	}
	scale := units.ToMeters()

	var comps []mass.Component
	switch {
	case len(doc.Components) > 0 && doc.Position != nil:
		return mass.CenterOfGravity{}, calcerr.Configurationf("CG file gives both components and a position")
	case len(doc.Components) > 0:
		for _, c := range doc.Components {
			comps = append(comps, mass.Component{
				Label:    c.Label,
				Mass:     c.Mass,
				Position: geometry.Point{X: c.X * scale, Y: c.Y * scale, Z: c.Z * scale},
			})
		}
	case doc.Position != nil:
		pos := geometry.Point{X: doc.Position.X * scale, Y: doc.Position.Y * scale, Z: doc.Position.Z * scale}
		if doc.HullMass == 0 {
			return mass.Direct(pos, doc.TotalMass)
		}
		comps = append(comps, mass.Component{Label: "payload", Mass: doc.TotalMass, Position: pos})
	case doc.HullMass == 0:
		return mass.CenterOfGravity{}, calcerr.Configurationf("CG file needs components, a position or a hull mass")
	}

	if doc.HullMass != 0 {
		if src.Hull == nil {
			return mass.CenterOfGravity{}, calcerr.Configurationf("hull_mass needs a hull")
		}
		shell, err := mass.HullComponent(src.Hull, doc.HullMass, src.NumSections)
		if err != nil {
			return mass.CenterOfGravity{}, err
		}
		comps = append(comps, shell)
	}

	return mass.Compose(comps...)
}
