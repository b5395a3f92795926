package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
)

// 5 m x 0.8 m box, z from -0.1 to 0.1.
const boxHullJSON = `{
  "metadata": {"name": "Test box", "units": "m", "water_density": 1000},
  "profiles": [
    {"station": 0,    "points": [{"y": -0.4, "z": 0.1}, {"y": -0.4, "z": -0.1}, {"y": 0.4, "z": -0.1}, {"y": 0.4, "z": 0.1}]},
    {"station": 1.25, "points": [{"y": -0.4, "z": 0.1}, {"y": -0.4, "z": -0.1}, {"y": 0.4, "z": -0.1}, {"y": 0.4, "z": 0.1}]},
    {"station": 2.5,  "points": [{"y": -0.4, "z": 0.1}, {"y": -0.4, "z": -0.1}, {"y": 0.4, "z": -0.1}, {"y": 0.4, "z": 0.1}]},
    {"station": 3.75, "points": [{"y": -0.4, "z": 0.1}, {"y": -0.4, "z": -0.1}, {"y": 0.4, "z": -0.1}, {"y": 0.4, "z": 0.1}]},
    {"station": 5,    "points": [{"y": -0.4, "z": 0.1}, {"y": -0.4, "z": -0.1}, {"y": 0.4, "z": -0.1}, {"y": 0.4, "z": 0.1}]}
  ]
}`

const componentsCG = `{
  "components": [
    {"label": "paddler", "mass": 80, "x": 2.4, "y": 0, "z": 0.25},
    {"label": "gear", "mass": 20, "x": 3.4, "y": 0, "z": 0}
  ]
}`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kayakcalc v")
}

func TestRootBanner(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Hull Hydrostatics and Stability Calculator")
}

func TestHullInfo(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	out, err := execute(t, "hull", "info", "-f", hull, "--diagram", "--waterline", "-0.05")
	require.NoError(t, err)

	assert.Contains(t, out, "HULL GEOMETRY")
	assert.Contains(t, out, "Hull: Test box")
	assert.Contains(t, out, "5.000 m")
	assert.Contains(t, out, "by-index")
	assert.Contains(t, out, "transom")
	assert.Equal(t, 5, strings.Count(out, "PROFILE AT STATION"))
	assert.Contains(t, out, "◄─ WL -0.050 m")
}

func TestHullInfoExport(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)
	plot := filepath.Join(t.TempDir(), "body.svg")

	out, err := execute(t, "hull", "info", "-f", hull, "--heel", "20", "-o", plot)
	require.NoError(t, err)
	assert.Contains(t, out, "Body plan exported")
	assert.FileExists(t, plot)
}

func TestHullConvert(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)
	dst := filepath.Join(t.TempDir(), "canonical.json")

	_, err := execute(t, "hull", "convert", "-f", hull, "-o", dst)
	require.NoError(t, err)

	h, err := hullio.LoadHull(dst, hullio.Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, h.NumProfiles())
	assert.InDelta(t, 5.0, h.Length(), 1e-9)

	out, err := execute(t, "hull", "convert", "-f", hull)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestVolume(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	out, err := execute(t, "volume", "-f", hull, "--waterline", "-0.05", "--table")
	require.NoError(t, err)

	assert.Contains(t, out, "SUBMERGED VOLUME")
	assert.Contains(t, out, "0.200000 m³")
	assert.Contains(t, out, "200.00 kg")
	assert.Contains(t, out, "1000.0 kg/m³")
	assert.Contains(t, out, "simpson, 21 stations")
	assert.Contains(t, out, "4.0000 m²")
	assert.Contains(t, out, "SECTIONS")
}

func TestVolumeHeeledHasNoWaterplane(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	out, err := execute(t, "volume", "-f", hull, "--waterline", "-0.05", "--heel", "10", "--density", "1025")
	require.NoError(t, err)
	assert.Contains(t, out, "1025.0 kg/m³")
	assert.Contains(t, out, "(hull frame)")
	assert.NotContains(t, out, "WATERPLANE")
}

func TestVolumeErrors(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	tests := []struct {
		name string
		args []string
		kind calcerr.Kind
	}{
		{"waterline above hull", []string{"volume", "-f", hull, "--waterline", "0.5"}, calcerr.Configuration},
		{"simpson with even sections", []string{"volume", "-f", hull, "--waterline", "0", "--method", "simpson", "--sections", "20"}, calcerr.Configuration},
		{"unknown method", []string{"volume", "-f", hull, "--waterline", "0", "--method", "romberg"}, calcerr.Configuration},
		{"unsupported hull format", []string{"volume", "-f", writeFixture(t, "hull.txt", "x"), "--waterline", "0"}, calcerr.Configuration},
		{"malformed hull", []string{"volume", "-f", writeFixture(t, "bad.json", `{"profiles": [`), "--waterline", "0"}, calcerr.Geometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calcerr.KindOf(err))
		})
	}
}

func TestConfigFile(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)
	cfg := writeFixture(t, "kayakcalc.toml", "sections = 11\nintegration = \"trapezoid\"\n")

	out, err := execute(t, "--config", cfg, "volume", "-f", hull, "--waterline", "-0.05")
	require.NoError(t, err)
	assert.Contains(t, out, "trapezoid, 11 stations")

	bad := writeFixture(t, "bad.toml", "sectoins = 11\n")
	_, err = execute(t, "--config", bad, "volume", "-f", hull, "--waterline", "-0.05")
	require.Error(t, err)
	assert.True(t, calcerr.Is(err, calcerr.Configuration))
}

func TestDraft(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	out, err := execute(t, "draft", "-f", hull, "--mass", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "EQUILIBRIUM DRAFT")
	assert.Contains(t, out, "-0.0500 m")
	assert.Contains(t, out, "0.0500 m")
	assert.NotContains(t, out, "INITIAL STABILITY")

	cg := writeFixture(t, "cg.json", componentsCG)
	out, err = execute(t, "draft", "-f", hull, "--cg", cg)
	require.NoError(t, err)
	assert.Contains(t, out, "100.00 kg")
	assert.Contains(t, out, "INITIAL STABILITY")

	_, err = execute(t, "draft", "-f", hull)
	assert.True(t, calcerr.Is(err, calcerr.Configuration))

	_, err = execute(t, "draft", "-f", hull, "--mass", "5000")
	assert.True(t, calcerr.Is(err, calcerr.Convergence))
}

func TestCG(t *testing.T) {
	cg := writeFixture(t, "cg.json", componentsCG)

	out, err := execute(t, "cg", "-f", cg)
	require.NoError(t, err)
	assert.Contains(t, out, "paddler")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "Total mass  100.00 kg")
	assert.Contains(t, out, "LCG         2.6000 m")
	assert.Contains(t, out, "VCG         0.2000 m")
}

func TestCGWithHullMass(t *testing.T) {
	cg := writeFixture(t, "cg.json", componentsCG)
	hull := writeFixture(t, "box.json", boxHullJSON)

	out, err := execute(t, "cg", "-f", cg, "--hull", hull, "--hull-mass", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "hull")
	assert.Contains(t, out, "Total mass  120.00 kg")

	_, err = execute(t, "cg", "-f", cg, "--hull-mass", "20")
	assert.True(t, calcerr.Is(err, calcerr.Configuration))
}

func TestStability(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "gz.csv")
	jsonPath := filepath.Join(dir, "gz.json")
	plotPath := filepath.Join(dir, "gz.png")
	reportPath := filepath.Join(dir, "stability.pdf")

	out, err := execute(t, "stability", "-f", hull,
		"--cg-x", "2.5", "--cg-z", "0.05", "--mass", "200",
		"--max", "90", "--step", "10", "--diagram",
		"--csv", csvPath, "--json", jsonPath, "-o", plotPath, "--report", reportPath)
	require.NoError(t, err)

	assert.Contains(t, out, "STABILITY ANALYSIS")
	assert.Contains(t, out, "-0.0500 m")
	assert.Contains(t, out, "RIGHTING ARM (GZ) CURVE")
	assert.Contains(t, out, "STABILITY METRICS")
	assert.Contains(t, out, "◄ max")
	assert.Contains(t, out, "Exported 4 file(s)")

	for _, path := range []string{csvPath, jsonPath, plotPath, reportPath} {
		assert.FileExists(t, path)
	}

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc struct {
		Points []struct {
			Heel float64 `json:"heel_deg"`
		} `json:"points"`
		GM float64 `json:"gm_m"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Points, 10)
	assert.InDelta(t, -0.075+0.64/0.6-0.05, doc.GM, 1e-3)
}

func TestStabilityWithCGFile(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)
	cg := writeFixture(t, "cg.json", `{"position": {"x": 2.5, "y": 0, "z": 0.05}, "total_mass": 200}`)

	out, err := execute(t, "stability", "-f", hull, "--cg", cg, "--waterline", "-0.05", "--workers", "2", "--max", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "200.00 kg")
	assert.Contains(t, out, "extend --max")

	_, err = execute(t, "stability", "-f", hull, "--cg", cg, "--waterline", "-0.05", "--max", "30", "--require-vanishing")
	require.Error(t, err)
	assert.True(t, calcerr.Is(err, calcerr.Convergence))
	assert.Equal(t, 4, exitCode(err))
}

func TestStabilityErrors(t *testing.T) {
	hull := writeFixture(t, "box.json", boxHullJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"no center of gravity", []string{"stability", "-f", hull}},
		{"descending sweep", []string{"stability", "-f", hull, "--cg-x", "2.5", "--cg-z", "0.05", "--mass", "200", "--min", "40", "--max", "10"}},
		{"zero step", []string{"stability", "-f", hull, "--cg-x", "2.5", "--cg-z", "0.05", "--mass", "200", "--step", "0"}},
		{"negative mass", []string{"stability", "-f", hull, "--cg-x", "2.5", "--cg-z", "0.05", "--mass", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, calcerr.Is(err, calcerr.Configuration), err.Error())
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(calcerr.Geometryf("bad")))
	assert.Equal(t, 3, exitCode(calcerr.Configurationf("bad")))
	assert.Equal(t, 4, exitCode(calcerr.Convergencef("bad")))
	assert.Equal(t, 1, exitCode(io.EOF))
	assert.Equal(t, 130, exitCode(context.Canceled))
}
