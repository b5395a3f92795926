package hullio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

const bowOriginJSON = `{
  "metadata": {"name": "Bow kayak", "units": "cm", "coordinate_system": "bow_origin", "water_density": 1000},
  "profiles": [
    {"station": 50, "points": [{"y": -20, "z": 20}, {"y": 0, "z": -10}, {"y": 20, "z": 20}]},
    {"station": 250, "points": [{"x": 250, "y": -30, "z": 20}, {"y": 0, "z": -15}, {"y": 30, "z": 20}]},
    {"station": 450, "points": [{"y": -20, "z": 20}, {"y": 0, "z": -10}, {"y": 20, "z": 20}]}
  ],
  "stern": {"apex": {"x": 500, "y": 0, "z": 15}},
  "bow": {"apex": {"x": 0, "y": 0, "z": 20}}
}`

const taggedCSV = `# name=Tagged kayak
# water_density=1000
# a free comment
station,y,z,level
0.5,-0.3,0.2,gunwale
0.5,0,-0.15,keel
0.5,0.3,0.2,gunwale
2.5,-0.35,0.2,gunwale
2.5,0,-0.18,keel
2.5,0.35,0.2,gunwale

4.5,-0.3,0.2,gunwale
4.5,0,-0.15,keel
4.5,0.3,0.2,gunwale
stern,0,0,0.15
bow,5.2,0,0.2,gunwale
bow,5.0,0,-0.05,keel
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadHullJSONConvertsUnitsAndOrigin(t *testing.T) {
	h, err := LoadHull(writeFile(t, "hull.json", bowOriginJSON), Options{})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.5, 2.5, 4.5}, h.Stations(), 1e-12)
	minX, maxX := h.Extent()
	assert.InDelta(t, 0, minX, 1e-12)
	assert.InDelta(t, 5, maxX, 1e-12)

	mid := h.Profile(1)
	assert.InDelta(t, -0.3, mid.Points[0].Y, 1e-12)
	assert.InDelta(t, -0.15, mid.Points[1].Z, 1e-12)
	assert.InDelta(t, 2.5, mid.Points[2].X, 1e-12)

	assert.Equal(t, geometry.Apex, h.End(geometry.Stern).Kind())
	assert.InDelta(t, 0.15, h.End(geometry.Stern).Apex.Z, 1e-12)

	meta := h.Metadata()
	assert.Equal(t, "Bow kayak", meta.Name)
	assert.Equal(t, "cm", meta.SourceUnits)
	assert.Equal(t, 1000.0, meta.WaterDensity)
}

func TestLoadHullCSVWithLevels(t *testing.T) {
	h, err := LoadHull(writeFile(t, "hull.csv", taggedCSV), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, h.NumProfiles())
	assert.Equal(t, geometry.ByLevelTag, h.Policy())
	assert.Equal(t, geometry.Apex, h.End(geometry.Stern).Kind())
	assert.Equal(t, geometry.Levels, h.End(geometry.Bow).Kind())
	assert.Equal(t, []string{"gunwale", "keel", "gunwale"}, h.Profile(0).Levels)
	assert.InDelta(t, 5.2, h.Length(), 1e-12)
	assert.Equal(t, "Tagged kayak", h.Metadata().Name)
	assert.Equal(t, 1000.0, h.Metadata().WaterDensity)
}

func TestReadCSVDefaultUnits(t *testing.T) {
	body := "station,y,z\n" +
		"0,-30,30\n0,-30,-30\n0,30,-30\n0,30,30\n" +
		"500,-30,30\n500,-30,-30\n500,30,-30\n500,30,30\n"

	h, err := ReadCSV(strings.NewReader(body), Options{Units: Centimeters})
	require.NoError(t, err)

	assert.InDelta(t, 5, h.Length(), 1e-12)
	assert.InDelta(t, 0.6, h.MaxBeam(), 1e-12)
	assert.Equal(t, geometry.ByIndex, h.Policy())
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `{"profiles": [`},
		{"unknown field", `{"profils": []}`},
		{"no profiles", `{"profiles": []}`},
		{"missing station", `{"profiles": [{"points": []}]}`},
		{"missing z", `{"profiles": [{"station": 0, "points": [{"y": 1}]}]}`},
		{"x off station", `{"profiles": [{"station": 0, "points": [{"x": 1, "y": -1, "z": 1}, {"y": 0, "z": 0}, {"y": 1, "z": 1}]}]}`},
		{"bad units", `{"metadata": {"units": "furlong"}, "profiles": []}`},
		{"bad origin", `{"metadata": {"coordinate_system": "midship"}, "profiles": []}`},
		{"single profile", `{"profiles": [{"station": 0, "points": [{"y": -1, "z": 1}, {"y": 0, "z": 0}, {"y": 1, "z": 1}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.body), Options{})
			require.Error(t, err)
			kind := calcerr.KindOf(err)
			assert.True(t, kind == calcerr.Geometry || kind == calcerr.Configuration, "got %v", err)
		})
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty", "# units=m\n", "empty"},
		{"header", "x,y,z\n", "header"},
		{"not a number", "station,y,z\n0,abc,1\n", "not a number"},
		{"field count", "station,y,z\n0,1\n", "expected 3 fields"},
		{"not contiguous", "station,y,z\n0,-1,1\n1,-1,1\n0,1,1\n", "not contiguous"},
		{"two apexes", "station,y,z\nbow,1,0,0\nbow,2,0,0\n", "more than one apex"},
		{"density", "# water_density=heavy\nstation,y,z\n", "water_density"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.body), Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadHullUnsupported(t *testing.T) {
	_, err := LoadHull(writeFile(t, "hull.txt", "x"), Options{})
	assert.True(t, calcerr.Is(err, calcerr.Configuration))

	_, err = LoadHull(filepath.Join(t.TempDir(), "missing.json"), Options{})
	assert.Error(t, err)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	h, err := ReadCSV(strings.NewReader(taggedCSV), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, h))

	back, err := ReadJSON(&buf, Options{})
	require.NoError(t, err)

	assert.Equal(t, h.Profiles(), back.Profiles())
	assert.Equal(t, h.End(geometry.Bow), back.End(geometry.Bow))
	assert.Equal(t, h.End(geometry.Stern), back.End(geometry.Stern))
	assert.Equal(t, h.Metadata().Name, back.Metadata().Name)
}

func TestUnits(t *testing.T) {
	for in, want := range map[string]Units{"": Meters, "M": Meters, "feet": Feet, " mm ": Millimeters, "in": Inches} {
		u, err := ParseUnits(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, u, in)
	}
	assert.InDelta(t, 0.3048, Feet.ToMeters(), 1e-15)

	_, err := ParseUnits("cubit")
	assert.True(t, calcerr.Is(err, calcerr.Configuration))
}

func boxHull(t *testing.T) *geometry.Hull {
	t.Helper()
	body := "station,y,z\n" +
		"0,-0.3,0.3\n0,-0.3,-0.3\n0,0.3,-0.3\n0,0.3,0.3\n" +
		"5,-0.3,0.3\n5,-0.3,-0.3\n5,0.3,-0.3\n5,0.3,0.3\n"
	h, err := ReadCSV(strings.NewReader(body), Options{})
	require.NoError(t, err)
	return h
}

func TestReadCG(t *testing.T) {
	h := boxHull(t)

	tests := []struct {
		name      string
		body      string
		wantMass  float64
		wantZ     float64
		wantComps int
	}{
		{
			name:      "components",
			body:      `{"components": [{"label": "paddler", "mass": 80, "x": 2.5, "y": 0, "z": 0.25}, {"label": "gear", "mass": 20, "x": 2.5, "y": 0, "z": 0}]}`,
			wantMass:  100,
			wantZ:     0.2,
			wantComps: 2,
		},
		{
			name:     "direct",
			body:     `{"position": {"x": 2.5, "y": 0, "z": 0.1}, "total_mass": 90}`,
			wantMass: 90,
			wantZ:    0.1,
		},
		{
			name:      "hull mass",
			body:      `{"units": "cm", "components": [{"label": "paddler", "mass": 80, "x": 250, "y": 0, "z": 15}], "hull_mass": 20}`,
			wantMass:  100,
			wantZ:     (80*0.15 + 20*-0.1) / 100,
			wantComps: 2,
		},
		{
			name:      "direct plus hull",
			body:      `{"position": {"x": 2.5, "y": 0, "z": 0.15}, "total_mass": 80, "hull_mass": 20}`,
			wantMass:  100,
			wantZ:     0.1,
			wantComps: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cg, err := ReadCG(strings.NewReader(tt.body), CGSource{Hull: h, NumSections: 11})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMass, cg.TotalMass, 1e-9)
			assert.InDelta(t, tt.wantZ, cg.Position.Z, 1e-9)
			assert.InDelta(t, 2.5, cg.Position.X, 1e-9)
			assert.Len(t, cg.Components, tt.wantComps)
		})
	}
}

func TestReadCGErrors(t *testing.T) {
	h := boxHull(t)

	tests := []struct {
		name string
		body string
		src  CGSource
	}{
		{"empty", `{}`, CGSource{}},
		{"both", `{"components": [{"mass": 1}], "position": {"x": 0, "y": 0, "z": 0}, "total_mass": 1}`, CGSource{}},
		{"hull mass without hull", `{"hull_mass": 10}`, CGSource{}},
		{"zero mass", `{"components": [{"label": "a", "mass": 0}]}`, CGSource{}},
		{"negative", `{"position": {"x": 0, "y": 0, "z": 0}, "total_mass": -5}`, CGSource{Hull: h}},
		{"unknown field", `{"mas": 3}`, CGSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCG(strings.NewReader(tt.body), tt.src)
			require.Error(t, err)
			assert.True(t, calcerr.Is(err, calcerr.Configuration), "got %v", err)
		})
	}
}

func sampleCurve(t *testing.T) *stability.Curve {
	t.Helper()
	h := boxHull(t)
	cg, err := mass.Direct(geometry.Point{X: 2.5, Z: -0.1}, 600)
	require.NoError(t, err)
	c, err := stability.CalculateStabilityCurve(h, cg, -0.1, []float64{0, 10, 20}, 11)
	require.NoError(t, err)
	return c
}

func TestWriteCurveCSV(t *testing.T) {
	c := sampleCurve(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCurveCSV(&buf, c))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "heel_deg,gz_m", lines[0])
	assert.Regexp(t, `^-?0\.000000,`, lines[1])
	assert.Contains(t, buf.String(), "# gm_m=")
	assert.Contains(t, buf.String(), "# vanishing_angle_deg=beyond sweep")
}

func TestSaveCurve(t *testing.T) {
	c := sampleCurve(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "curve.json")
	require.NoError(t, SaveCurve(jsonPath, c))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded stability.Curve
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.Points, decoded.Points)
	assert.Equal(t, c.GM, decoded.GM)

	require.NoError(t, SaveCurve(filepath.Join(dir, "curve.csv"), c))

	err = SaveCurve(filepath.Join(dir, "curve.xlsx"), c)
	assert.True(t, calcerr.Is(err, calcerr.Configuration))
}
