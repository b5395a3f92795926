// Package geometry defines the hull data model: points, transverse profiles,
// end closures and the validated, immutable Hull container.
package geometry

import (
	"math"
	"sort"
)

// Hull is an ordered collection of profiles sorted by station, with optional
// stern and bow closures. A Hull is immutable once built by NewHull.
type Hull struct {
	profiles []Profile
	stern    End
	bow      End
	policy   MatchPolicy
	meta     Metadata
}

// HullOption configures optional parts of a hull at construction.
type HullOption func(*Hull)

// WithStern sets the stern closure.
func WithStern(e End) HullOption {
	return func(h *Hull) { h.stern = e }
}

// WithBow sets the bow closure.
func WithBow(e End) HullOption {
	return func(h *Hull) { h.bow = e }
}

// WithMetadata attaches descriptive metadata.
func WithMetadata(m Metadata) HullOption {
	return func(h *Hull) { h.meta = m }
}

// NewHull validates the profiles and closures and returns an immutable
// hull. The profiles are copied and sorted by station.
func NewHull(profiles []Profile, opts ...HullOption) (*Hull, error) {
	h := &Hull{profiles: make([]Profile, len(profiles))}
	for i, p := range profiles {
		h.profiles[i] = p.Clone()
	}
	sort.SliceStable(h.profiles, func(i, j int) bool {
		return h.profiles[i].Station < h.profiles[j].Station
	})
	for _, opt := range opts {
		opt(h)
	}

	policy, err := validateHull(h.profiles, h.stern, h.bow)
	if err != nil {
		return nil, err
	}
	h.policy = policy
	return h, nil
}

// WithProfile returns a new validated hull with p added.
func (h *Hull) WithProfile(p Profile) (*Hull, error) {
	profiles := append(h.Profiles(), p)
	return NewHull(profiles, WithStern(h.stern), WithBow(h.bow), WithMetadata(h.meta))
}

// Profiles returns a copy of the profiles in station order.
func (h *Hull) Profiles() []Profile {
	out := make([]Profile, len(h.profiles))
	for i, p := range h.profiles {
		out[i] = p.Clone()
	}
	return out
}

// NumProfiles returns the number of real profiles.
func (h *Hull) NumProfiles() int {
	return len(h.profiles)
}

// Profile returns a copy of the i-th profile in station order.
func (h *Hull) Profile(i int) Profile {
	return h.profiles[i].Clone()
}

// Stations returns the station of each real profile.
func (h *Hull) Stations() []float64 {
	out := make([]float64, len(h.profiles))
	for i, p := range h.profiles {
		out[i] = p.Station
	}
	return out
}

// End returns the closure at the given side.
func (h *Hull) End(side EndSide) End {
	if side == Bow {
		return h.bow
	}
	return h.stern
}

// EndProfile returns the real profile adjacent to the given side.
func (h *Hull) EndProfile(side EndSide) Profile {
	if side == Bow {
		return h.profiles[len(h.profiles)-1].Clone()
	}
	return h.profiles[0].Clone()
}

// Policy returns the point matching policy chosen at validation.
func (h *Hull) Policy() MatchPolicy {
	return h.policy
}

// Metadata returns the hull metadata.
func (h *Hull) Metadata() Metadata {
	return h.meta
}

// EndX returns the longitudinal position the hull closes at on the given
// side: the extreme closure point, or the end profile's station for a
// transom.
func (h *Hull) EndX(side EndSide) float64 {
	x := h.EndProfile(side).Station
	for _, p := range h.End(side).Points() {
		if side == Bow {
			x = math.Max(x, p.X)
		} else {
			x = math.Min(x, p.X)
		}
	}
	return x
}

// Extent returns the longitudinal extent of the hull including closures.
func (h *Hull) Extent() (minX, maxX float64) {
	return h.EndX(Stern), h.EndX(Bow)
}

// Length returns the overall length including closures.
func (h *Hull) Length() float64 {
	minX, maxX := h.Extent()
	return maxX - minX
}

// AllPoints returns every profile and closure point.
func (h *Hull) AllPoints() []Point {
	var pts []Point
	for _, p := range h.profiles {
		pts = append(pts, p.Points...)
	}
	pts = append(pts, h.stern.Points()...)
	pts = append(pts, h.bow.Points()...)
	return pts
}

// VerticalExtent returns the lowest and highest Z of the hull.
func (h *Hull) VerticalExtent() (minZ, maxZ float64) {
	pts := h.AllPoints()
	minZ, maxZ = pts[0].Z, pts[0].Z
	for _, p := range pts {
		minZ = math.Min(minZ, p.Z)
		maxZ = math.Max(maxZ, p.Z)
	}
	return minZ, maxZ
}

// MaxBeam returns the largest profile breadth.
func (h *Hull) MaxBeam() float64 {
	var beam float64
	for _, p := range h.profiles {
		minY, maxY, _, _ := p.Bounds()
		beam = math.Max(beam, maxY-minY)
	}
	return beam
}
