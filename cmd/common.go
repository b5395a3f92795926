package cmd

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/fenix-io/kayak-calc-sub001/internal/config"
	"github.com/fenix-io/kayak-calc-sub001/internal/diagram"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
)

// analysisFlags are the settings shared by the calculation commands.
// Only flags the user set override the configuration.
type analysisFlags struct {
	sections int
	method   string
	density  float64
	units    string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.sections, "sections", "n", config.DefaultSections, "Number of stations along the hull")
	cmd.Flags().StringVar(&f.method, "method", config.DefaultIntegration, "Integration rule: auto, simpson or trapezoid")
	cmd.Flags().Float64Var(&f.density, "density", config.SeaWaterDensity, "Water density (kg/m³)")
	cmd.Flags().StringVar(&f.units, "units", config.DefaultUnits, "Units of hull files that do not declare them")
}

func (f *analysisFlags) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	if cmd.Flags().Changed("sections") {
		o.NumSections = &f.sections
	}
	if cmd.Flags().Changed("method") {
		o.Integration = &f.method
	}
	if cmd.Flags().Changed("density") {
		o.WaterDensity = &f.density
	}
	if cmd.Flags().Changed("units") {
		o.Units = &f.units
	}
	return o
}

// resolveConfig applies the command's flags over the loaded configuration.
func resolveConfig(cmd *cobra.Command, f *analysisFlags, extra ...func(*config.Overrides)) (config.Config, error) {
	o := f.overrides(cmd)
	for _, fn := range extra {
		fn(&o)
	}
	return configFromContext(cmd.Context()).Apply(o)
}

// loadHull reads a hull file using the configured default units.
func loadHull(cfg config.Config, path string) (*geometry.Hull, error) {
	units, err := hullio.ParseUnits(cfg.Units)
	if err != nil {
		return nil, err
	}
	return hullio.LoadHull(path, hullio.Options{Units: units})
}

func hydroOptions(cfg config.Config) []hydrostatics.Option {
	return []hydrostatics.Option{hydrostatics.WithMethod(cfg.Method())}
}

// plotSize converts the configured plot size from centimeters.
func plotSize(cfg config.Config) diagram.Size {
	return diagram.Size{
		Width:  vg.Length(cfg.Plot.Width) * vg.Centimeter,
		Height: vg.Length(cfg.Plot.Height) * vg.Centimeter,
	}
}
