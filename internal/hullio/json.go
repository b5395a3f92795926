package hullio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

type jsonHull struct {
	Metadata jsonMetadata  `json:"metadata"`
	Profiles []jsonProfile `json:"profiles"`
	Stern    *jsonEnd      `json:"stern,omitempty"`
	Bow      *jsonEnd      `json:"bow,omitempty"`
}

type jsonMetadata struct {
	Name             string  `json:"name,omitempty"`
	Description      string  `json:"description,omitempty"`
	Units            string  `json:"units,omitempty"`
	CoordinateSystem string  `json:"coordinate_system,omitempty"`
	WaterDensity     float64 `json:"water_density,omitempty"`
}

type jsonProfile struct {
	Station *float64    `json:"station"`
	Points  []jsonPoint `json:"points"`
}

type jsonPoint struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Level string   `json:"level,omitempty"`
}

type jsonEnd struct {
	Apex   *geometry.Point           `json:"apex,omitempty"`
	Levels map[string]geometry.Point `json:"levels,omitempty"`
}

// ReadJSON reads a JSON hull file.
func ReadJSON(r io.Reader, opts Options) (*geometry.Hull, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc jsonHull
	if err := dec.Decode(&doc); err != nil {
		return nil, calcerr.Wrap(calcerr.Geometry, err, "invalid hull JSON")
	}

	raw := rawHull{
		Name:             doc.Metadata.Name,
		Description:      doc.Metadata.Description,
		Units:            doc.Metadata.Units,
		CoordinateSystem: doc.Metadata.CoordinateSystem,
		WaterDensity:     doc.Metadata.WaterDensity,
		Profiles:         make([]rawProfile, len(doc.Profiles)),
	}
	for i, p := range doc.Profiles {
		if p.Station == nil {
			return nil, calcerr.Geometryf("profile %d has no station", i+1)
		}
		rp := rawProfile{Station: *p.Station, Points: make([]rawPoint, len(p.Points))}
		for j, pt := range p.Points {
			if pt.Y == nil || pt.Z == nil {
				return nil, calcerr.AtStation(calcerr.Geometryf("point %d needs both y and z", j+1), *p.Station)
			}
			rp.Points[j] = rawPoint{X: pt.X, Y: *pt.Y, Z: *pt.Z, Level: pt.Level}
		}
		raw.Profiles[i] = rp
	}
	raw.Stern = doc.Stern.raw()
	raw.Bow = doc.Bow.raw()

	return raw.build(opts)
}

func (e *jsonEnd) raw() *rawEnd {
	if e == nil {
		return nil
	}
	return &rawEnd{Apex: e.Apex, Levels: e.Levels}
}

// WriteJSON writes h as a JSON hull file in meters with a stern origin.
func WriteJSON(w io.Writer, h *geometry.Hull) error {
	meta := h.Metadata()
	doc := jsonHull{
		Metadata: jsonMetadata{
			Name:             meta.Name,
			Description:      meta.Description,
			Units:            string(Meters),
			CoordinateSystem: string(SternOrigin),
			WaterDensity:     meta.WaterDensity,
		},
	}

	for _, p := range h.Profiles() {
		station := p.Station
		jp := jsonProfile{Station: &station, Points: make([]jsonPoint, len(p.Points))}
		for i, pt := range p.Points {
			y, z := pt.Y, pt.Z
			jp.Points[i] = jsonPoint{Y: &y, Z: &z}
			if p.HasLevels() {
				jp.Points[i].Level = p.Levels[i]
			}
		}
		doc.Profiles = append(doc.Profiles, jp)
	}
	doc.Stern = endJSON(h.End(geometry.Stern))
	doc.Bow = endJSON(h.End(geometry.Bow))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write hull JSON: %w", err)
	}
	return nil
}

func endJSON(e geometry.End) *jsonEnd {
	switch e.Kind() {
	case geometry.Apex:
		p := *e.Apex
		return &jsonEnd{Apex: &p}
	case geometry.Levels:
		levels := make(map[string]geometry.Point, len(e.Levels))
		for tag, p := range e.Levels {
			levels[tag] = p
		}
		return &jsonEnd{Levels: levels}
	default:
		return nil
	}
}
