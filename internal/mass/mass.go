// Package mass composes the center of gravity of a loaded hull from its
// mass components.
package mass

import (
	"fmt"
	"math"
	"strings"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
)

// Component is a point mass carried by the hull.
type Component struct {
	Label    string         `json:"label"`
	Mass     float64        `json:"mass"` // kg
	Position geometry.Point `json:"position"`
}

// CenterOfGravity is the combined mass and its center.
type CenterOfGravity struct {
	Position   geometry.Point `json:"position"`
	TotalMass  float64        `json:"total_mass"` // kg
	Components []Component    `json:"components,omitempty"`
}

// String renders the CG for log lines and tables.
func (cg CenterOfGravity) String() string {
	return fmt.Sprintf("%.2f kg at %s", cg.TotalMass, cg.Position)
}

// Compose returns the mass-weighted center of the components.
func Compose(components ...Component) (CenterOfGravity, error) {
	if len(components) == 0 {
		return CenterOfGravity{}, calcerr.Configurationf("no mass components given")
	}

	var total, mx, my, mz float64
	for i, c := range components {
		label := c.Label
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if c.Mass < 0 || math.IsNaN(c.Mass) || math.IsInf(c.Mass, 0) {
			return CenterOfGravity{}, calcerr.Configurationf("component %s has invalid mass %v", label, c.Mass)
		}
		if !c.Position.IsFinite() {
			return CenterOfGravity{}, calcerr.Configurationf("component %s has a non-finite position %s", label, c.Position)
		}
		total += c.Mass
		mx += c.Mass * c.Position.X
		my += c.Mass * c.Position.Y
		mz += c.Mass * c.Position.Z
	}

	if total <= 0 {
		return CenterOfGravity{}, calcerr.Configurationf("total mass must be positive, got %v", total)
	}

	comps := make([]Component, len(components))
	copy(comps, components)
	return CenterOfGravity{
		Position:   geometry.Point{X: mx / total, Y: my / total, Z: mz / total},
		TotalMass:  total,
		Components: comps,
	}, nil
}

// Direct builds a CG from a known position and total mass.
func Direct(position geometry.Point, totalMass float64) (CenterOfGravity, error) {
	if totalMass <= 0 || math.IsNaN(totalMass) || math.IsInf(totalMass, 0) {
		return CenterOfGravity{}, calcerr.Configurationf("total mass must be positive, got %v", totalMass)
	}
	if !position.IsFinite() {
		return CenterOfGravity{}, calcerr.Configurationf("CG position %s is not finite", position)
	}
	return CenterOfGravity{Position: position, TotalMass: totalMass}, nil
}
