package hullio

import (
	"strings"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
)

// Units is a length unit accepted in hull files.
type Units string

const (
	Meters      Units = "m"
	Centimeters Units = "cm"
	Millimeters Units = "mm"
	Feet        Units = "ft"
	Inches      Units = "in"
)

var unitFactors = map[Units]float64{
	Meters:      1,
	Centimeters: 0.01,
	Millimeters: 0.001,
	Feet:        0.3048,
	Inches:      0.0254,
}

var unitAliases = map[string]Units{
	"meter": Meters, "meters": Meters, "metre": Meters, "metres": Meters,
	"centimeter": Centimeters, "centimeters": Centimeters,
	"millimeter": Millimeters, "millimeters": Millimeters,
	"foot": Feet, "feet": Feet,
	"inch": Inches, "inches": Inches,
}

// ParseUnits parses a unit name. An empty name means meters.
func ParseUnits(s string) (Units, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Meters, nil
	}
	if _, ok := unitFactors[Units(key)]; ok {
		return Units(key), nil
	}
	if u, ok := unitAliases[key]; ok {
		return u, nil
	}
	return "", calcerr.Configurationf("unknown units %q (use m, cm, mm, ft or in)", s)
}

// ToMeters returns the factor converting a length in u to meters.
func (u Units) ToMeters() float64 {
	if f, ok := unitFactors[u]; ok {
		return f
	}
	return 1
}

// CoordinateSystem names the origin of the longitudinal axis in a file.
type CoordinateSystem string

const (
	// SternOrigin measures X from the stern toward the bow.
	SternOrigin CoordinateSystem = "stern_origin"
	// BowOrigin measures X from the bow toward the stern.
	BowOrigin CoordinateSystem = "bow_origin"
)

// ParseCoordinateSystem parses a coordinate system name. An empty name
// means SternOrigin.
func ParseCoordinateSystem(s string) (CoordinateSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stern_origin", "stern":
		return SternOrigin, nil
	case "bow_origin", "bow":
		return BowOrigin, nil
	default:
		return "", calcerr.Configurationf("unknown coordinate system %q (use stern_origin or bow_origin)", s)
	}
}
