// Package config holds the analysis settings shared by the commands:
// defaults, an optional TOML file, and command line overrides.
package config

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

// Config holds the analysis settings.
type Config struct {
	WaterDensity float64 `toml:"water_density"` // kg/m³
	NumSections  int     `toml:"sections"`
	Integration  string  `toml:"integration"` // auto, simpson or trapezoid
	Workers      int     `toml:"workers"`     // 0 = one per CPU
	Units        string  `toml:"units"`       // default units of hull files

	Heel HeelRange `toml:"heel"`
	Plot PlotSize  `toml:"plot"`

	densitySet bool
}

// HeelRange is the default heel sweep in degrees.
type HeelRange struct {
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Step float64 `toml:"step"`
}

// PlotSize is the exported plot size in centimeters.
type PlotSize struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		WaterDensity: SeaWaterDensity,
		NumSections:  DefaultSections,
		Integration:  DefaultIntegration,
		Units:        DefaultUnits,
		Heel: HeelRange{
			Min:  DefaultHeelMin,
			Max:  DefaultHeelMax,
			Step: DefaultHeelStep,
		},
		Plot: PlotSize{
			Width:  DefaultPlotWidth,
			Height: DefaultPlotHeight,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, calcerr.Configurationf("config %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.densitySet = md.IsDefined("water_density")

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every setting and returns a configuration error for the
// first invalid one.
func (c Config) Validate() error {
	if math.IsNaN(c.WaterDensity) || c.WaterDensity < MinWaterDensity || c.WaterDensity > MaxWaterDensity {
		return calcerr.Configurationf("water density %v kg/m³ is outside [%v, %v]", c.WaterDensity, MinWaterDensity, MaxWaterDensity)
	}
	if c.NumSections < MinSections || c.NumSections > MaxSections {
		return calcerr.Configurationf("sections must be between %d and %d, got %d", MinSections, MaxSections, c.NumSections)
	}
	m, err := hydrostatics.ParseMethod(c.Integration)
	if err != nil {
		return err
	}
	if m == hydrostatics.Simpson && c.NumSections%2 == 0 {
		return calcerr.Configurationf("simpson integration needs an odd number of sections, got %d", c.NumSections)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return calcerr.Configurationf("workers must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}
	if _, err := hullio.ParseUnits(c.Units); err != nil {
		return err
	}
	if _, err := stability.HeelAngles(c.Heel.Min, c.Heel.Max, c.Heel.Step); err != nil {
		return err
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return calcerr.Configurationf("plot size must be positive, got %vx%v cm", c.Plot.Width, c.Plot.Height)
	}
	return nil
}

// Method returns the parsed integration rule.
func (c Config) Method() hydrostatics.Method {
	m, err := hydrostatics.ParseMethod(c.Integration)
	if err != nil {
		return hydrostatics.Auto
	}
	return m
}

// HeelAngles returns the configured heel sweep.
func (c Config) HeelAngles() ([]float64, error) {
	return stability.HeelAngles(c.Heel.Min, c.Heel.Max, c.Heel.Step)
}

// Density returns the water density to use for a hull whose file declares
// fileDensity. An explicitly configured density wins; otherwise a positive
// file density replaces the default.
func (c Config) Density(fileDensity float64) float64 {
	if c.densitySet || fileDensity <= 0 {
		return c.WaterDensity
	}
	return fileDensity
}

// Overrides holds command line values. Nil fields were not given.
type Overrides struct {
	WaterDensity *float64
	NumSections  *int
	Integration  *string
	Workers      *int
	Units        *string
	HeelMin      *float64
	HeelMax      *float64
	HeelStep     *float64
}

// Apply returns a copy of c with the given overrides applied and
// validated.
func (c Config) Apply(o Overrides) (Config, error) {
	if o.WaterDensity != nil {
		c.WaterDensity = *o.WaterDensity
		c.densitySet = true
	}
	if o.NumSections != nil {
		c.NumSections = *o.NumSections
	}
	if o.Integration != nil {
		c.Integration = *o.Integration
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.Units != nil {
		c.Units = *o.Units
	}
	if o.HeelMin != nil {
		c.Heel.Min = *o.HeelMin
	}
	if o.HeelMax != nil {
		c.Heel.Max = *o.HeelMax
	}
	if o.HeelStep != nil {
		c.Heel.Step = *o.HeelStep
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
