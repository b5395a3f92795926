package hydrostatics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

func boxProfile(station, halfBeam, zMin, zMax float64) geometry.Profile {
	return geometry.Profile{
		Station: station,
		Points: []geometry.Point{
			{X: station, Y: -halfBeam, Z: zMax},
			{X: station, Y: -halfBeam, Z: zMin},
			{X: station, Y: halfBeam, Z: zMin},
			{X: station, Y: halfBeam, Z: zMax},
		},
	}
}

// boxHull builds a rectangular prism of the given length, beam and vertical
// extent with count evenly spaced profiles.
func boxHull(t *testing.T, length, beam, zMin, zMax float64, count int) *geometry.Hull {
	t.Helper()
	profiles := make([]geometry.Profile, count)
	for i := range profiles {
		x := length * float64(i) / float64(count-1)
		profiles[i] = boxProfile(x, beam/2, zMin, zMax)
	}
	h, err := geometry.NewHull(profiles)
	require.NoError(t, err)
	return h
}

func vProfile(station, halfBeam, depth float64) geometry.Profile {
	return geometry.Profile{
		Station: station,
		Points: []geometry.Point{
			{X: station, Y: -halfBeam, Z: 0.2},
			{X: station, Y: -halfBeam * 0.8, Z: 0},
			{X: station, Y: 0, Z: -depth},
			{X: station, Y: halfBeam * 0.8, Z: 0},
			{X: station, Y: halfBeam, Z: 0.2},
		},
	}
}

// kayakHull is a symmetric double-ended V-bottom hull closing to apex
// points at both ends.
func kayakHull(t *testing.T) *geometry.Hull {
	t.Helper()
	stern := geometry.Point{X: 0, Y: 0, Z: 0.15}
	bow := geometry.Point{X: 5, Y: 0, Z: 0.2}
	h, err := geometry.NewHull(
		[]geometry.Profile{
			vProfile(0.5, 0.2, 0.1),
			vProfile(1.5, 0.3, 0.15),
			vProfile(2.5, 0.32, 0.16),
			vProfile(3.5, 0.3, 0.15),
			vProfile(4.5, 0.18, 0.1),
		},
		geometry.WithStern(geometry.End{Apex: &stern}),
		geometry.WithBow(geometry.End{Apex: &bow}),
	)
	require.NoError(t, err)
	return h
}

func TestHeelTransform(t *testing.T) {
	pts := []geometry.Point{{X: 1, Y: 1, Z: 0}, {X: 2, Y: 0, Z: 1}}

	same := HeelTransform(pts, 0)
	assert.Equal(t, pts, same)

	quarter := HeelTransform(pts, 90)
	// Starboard goes down, the deck swings to starboard.
	assert.InDelta(t, 0, quarter[0].Y, 1e-12)
	assert.InDelta(t, -1, quarter[0].Z, 1e-12)
	assert.InDelta(t, 1, quarter[1].Y, 1e-12)
	assert.InDelta(t, 0, quarter[1].Z, 1e-12)
	assert.Equal(t, 1.0, quarter[0].X)

	back := HeelTransform(HeelTransform(pts, 37), -37)
	for i := range pts {
		assert.InDelta(t, pts[i].Y, back[i].Y, 1e-12)
		assert.InDelta(t, pts[i].Z, back[i].Z, 1e-12)
	}
}

func TestWaterlineIntersectionBox(t *testing.T) {
	p := boxProfile(1, 0.3, -0.3, 0.3)

	got := WaterlineIntersection(p, -0.1, 0)

	require.Len(t, got, 2)
	assert.InDelta(t, -0.3, got[0].Y, 1e-12)
	assert.InDelta(t, 0.3, got[1].Y, 1e-12)
	for _, c := range got {
		assert.Equal(t, -0.1, c.Z)
		assert.Equal(t, 1.0, c.X)
	}

	assert.Empty(t, WaterlineIntersection(p, 0.5, 0))
	assert.Empty(t, WaterlineIntersection(p, -0.5, 0))
}

func twinHullProfile(station float64) geometry.Profile {
	return geometry.Profile{
		Station: station,
		Points: []geometry.Point{
			{X: station, Y: -0.5, Z: 0.2},
			{X: station, Y: -0.5, Z: -0.2},
			{X: station, Y: -0.2, Z: -0.2},
			{X: station, Y: -0.2, Z: 0},
			{X: station, Y: 0.2, Z: 0},
			{X: station, Y: 0.2, Z: -0.2},
			{X: station, Y: 0.5, Z: -0.2},
			{X: station, Y: 0.5, Z: 0.2},
		},
	}
}

func TestWaterlineIntersectionReentrant(t *testing.T) {
	p := twinHullProfile(0)

	got := WaterlineIntersection(p, -0.1, 0)

	require.Len(t, got, 4)
	ys := []float64{got[0].Y, got[1].Y, got[2].Y, got[3].Y}
	assert.InDeltaSlice(t, []float64{-0.5, -0.2, 0.2, 0.5}, ys, 1e-12)

	area, err := CalculateCrossSectionArea(p, -0.1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.06, area, 1e-12)
}

func TestCrossSection(t *testing.T) {
	p := boxProfile(0, 0.3, -0.3, 0.3)

	tests := []struct {
		name      string
		waterline float64
		heel      float64
		wantArea  float64
		wantZ     float64
	}{
		{"partly submerged", -0.1, 0, 0.12, -0.2},
		{"above waterline", -0.4, 0, 0, 0},
		{"fully submerged", 0.4, 0, 0.36, 0},
		{"heeled through center", 0, 30, 0.18, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, err := CalculateCrossSection(p, tt.waterline, tt.heel)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantArea, sec.Area, 1e-12)
			if !math.IsNaN(tt.wantZ) {
				assert.InDelta(t, tt.wantZ, sec.CentroidZ, 1e-12)
			}
		})
	}
}

func TestCrossSectionHeeledCentroidMovesToLowSide(t *testing.T) {
	p := boxProfile(0, 0.3, -0.3, 0.3)

	sec, err := CalculateCrossSection(p, -0.1, 10)
	require.NoError(t, err)

	body := HeelPoint(geometry.Point{Y: sec.CentroidY, Z: sec.CentroidZ}, -10)
	assert.Greater(t, body.Y, 0.0)
}

func TestCrossSectionRejectsReversedWinding(t *testing.T) {
	p := boxProfile(2.5, 0.3, -0.3, 0.3)
	p.Points[0], p.Points[3] = p.Points[3], p.Points[0]
	p.Points[1], p.Points[2] = p.Points[2], p.Points[1]

	_, err := CalculateCrossSection(p, -0.1, 0)
	require.Error(t, err)
	assert.True(t, calcerr.Is(err, calcerr.Geometry))

	station, ok := calcerr.StationOf(err)
	require.True(t, ok)
	assert.Equal(t, 2.5, station)
}

func TestPolygonSectionDegenerate(t *testing.T) {
	assert.Equal(t, Section{}, PolygonSection(nil))
	assert.Equal(t, Section{}, PolygonSection([]geometry.Point{{Y: 1}, {Z: 1}}))
}

func TestCalculateVolumeBoxScenario(t *testing.T) {
	h := boxHull(t, 5.0, 0.6, -0.3, 0.3, 5)

	res, err := CalculateVolume(h, -0.1, 0, 21)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, res.Volume, 0.6*0.01)
	assert.InDelta(t, 2.5, res.CenterOfBuoyancy.X, 1e-9)
	assert.InDelta(t, 0, res.CenterOfBuoyancy.Y, 1e-12)
	assert.InDelta(t, -0.2, res.CenterOfBuoyancy.Z, 1e-9)
	assert.Equal(t, Simpson, res.Method)
	assert.Len(t, res.Sections, 21)
}

func TestCalculateVolumeAnalyticalBox(t *testing.T) {
	const length, beam = 4.0, 0.7
	h := boxHull(t, length, beam, 0, 0.4, 3)

	for _, draft := range []float64{0.05, 0.1, 0.2, 0.35} {
		for _, n := range []int{2, 10, 11} {
			res, err := CalculateVolume(h, draft, 0, n)
			require.NoError(t, err)
			want := length * beam * draft
			assert.InDelta(t, want, res.Volume, want*0.01, "draft %.2f, %d sections", draft, n)
		}
	}
}

func TestCalculateVolumeSymmetry(t *testing.T) {
	h := kayakHull(t)

	res, err := CalculateVolume(h, 0.05, 0, 41)
	require.NoError(t, err)

	assert.Greater(t, res.Volume, 0.0)
	assert.InDelta(t, 0, res.CenterOfBuoyancy.Y, 1e-9)
}

func TestCalculateVolumeMonotonic(t *testing.T) {
	h := kayakHull(t)

	for _, heel := range []float64{0, 15} {
		prev := 0.0
		for wl := -0.1; wl <= 0.12; wl += 0.02 {
			res, err := CalculateVolume(h, wl, heel, 31)
			require.NoError(t, err, "waterline %.2f heel %.0f", wl, heel)
			assert.GreaterOrEqual(t, res.Volume, prev, "waterline %.2f heel %.0f", wl, heel)
			prev = res.Volume
		}
	}
}

func TestCalculateVolumeBodyCB(t *testing.T) {
	h := kayakHull(t)

	res, err := CalculateVolume(h, 0.05, 20, 31)
	require.NoError(t, err)

	body := res.BodyCB()
	again := HeelPoint(body, 20)
	assert.InDelta(t, res.CenterOfBuoyancy.Y, again.Y, 1e-12)
	assert.InDelta(t, res.CenterOfBuoyancy.Z, again.Z, 1e-12)
	assert.Greater(t, body.Y, 0.0)
}

func TestCalculateVolumeSamplerReuse(t *testing.T) {
	h := kayakHull(t)
	s := interpolate.NewSampler(h)

	plain, err := CalculateVolume(h, 0.05, 10, 21)
	require.NoError(t, err)
	cached, err := CalculateVolume(h, 0.05, 10, 21, WithSampler(s))
	require.NoError(t, err)
	again, err := CalculateVolume(h, 0.05, 10, 21, WithSampler(s))
	require.NoError(t, err)

	assert.Equal(t, plain.Volume, cached.Volume)
	assert.Equal(t, plain.CenterOfBuoyancy, cached.CenterOfBuoyancy)
	assert.Equal(t, cached, again)
}

func TestCalculateVolumeErrors(t *testing.T) {
	h := boxHull(t, 5.0, 0.6, -0.3, 0.3, 5)

	tests := []struct {
		name      string
		waterline float64
		sections  int
		opts      []Option
		kind      calcerr.Kind
	}{
		{"zero sections", -0.1, 0, nil, calcerr.Configuration},
		{"one section", -0.1, 1, nil, calcerr.Configuration},
		{"below keel", -0.3, 21, nil, calcerr.Configuration},
		{"above deck", 0.31, 21, nil, calcerr.Configuration},
		{"simpson with even count", -0.1, 20, []Option{WithMethod(Simpson)}, calcerr.Configuration},
		{"not a number", math.NaN(), 21, nil, calcerr.Configuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateVolume(h, tt.waterline, 0, tt.sections, tt.opts...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calcerr.KindOf(err), "got %v", err)
		})
	}
}

func TestMethodResolution(t *testing.T) {
	h := boxHull(t, 5.0, 0.6, -0.3, 0.3, 5)

	even, err := CalculateVolume(h, -0.1, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, Trapezoid, even.Method)

	forced, err := CalculateVolume(h, -0.1, 0, 21, WithMethod(Trapezoid))
	require.NoError(t, err)
	assert.Equal(t, Trapezoid, forced.Method)

	m, err := ParseMethod("Simpson")
	require.NoError(t, err)
	assert.Equal(t, Simpson, m)

	_, err = ParseMethod("gauss")
	assert.Error(t, err)
}

func TestIntegrate(t *testing.T) {
	x := []float64{0, 1, 2}
	f := []float64{0, 1, 4}

	simpson, err := Integrate(x, f, Auto)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/3.0, simpson, 1e-12)

	trap, err := Integrate(x, f, Trapezoid)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, trap, 1e-12)

	_, err = Integrate(x, f[:2], Auto)
	assert.Error(t, err)
}

func TestWaterplaneBox(t *testing.T) {
	h := boxHull(t, 5.0, 0.6, -0.3, 0.3, 5)

	wp, err := WaterplaneProperties(h, -0.1, 21)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, wp.Area, 1e-9)
	assert.InDelta(t, 2.5, wp.CentroidX, 1e-9)
	assert.InDelta(t, 0, wp.CentroidY, 1e-12)
	assert.InDelta(t, 5.0*0.216/12, wp.InertiaT, 1e-9)
	assert.InDelta(t, 0.6*125/12, wp.InertiaL, 1e-9)
}

func TestEquilibriumWaterline(t *testing.T) {
	h := boxHull(t, 5.0, 0.6, -0.3, 0.3, 5)

	wl, err := EquilibriumWaterline(h, 0.6*1025, 1025, 21)
	require.NoError(t, err)
	assert.InDelta(t, -0.1, wl, 1e-6)

	_, err = EquilibriumWaterline(h, 5000, 1025, 21)
	require.Error(t, err)
	assert.True(t, calcerr.Is(err, calcerr.Convergence))

	_, err = EquilibriumWaterline(h, 0, 1025, 21)
	assert.True(t, calcerr.Is(err, calcerr.Configuration))
}

func TestEquilibriumWaterlineKayak(t *testing.T) {
	h := kayakHull(t)
	const mass, density = 60.0, 1000.0

	wl, err := EquilibriumWaterline(h, mass, density, 31)
	require.NoError(t, err)

	res, err := CalculateVolume(h, wl, 0, 31)
	require.NoError(t, err)
	assert.InDelta(t, mass, Displacement(res.Volume, density), mass*1e-6)
}
