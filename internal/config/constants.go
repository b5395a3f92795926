package config

// Water densities in kg/m³.
const (
	FreshWaterDensity = 1000.0
	SeaWaterDensity   = 1025.0

	// Densities outside this range are almost certainly a unit mistake.
	MinWaterDensity = 900.0
	MaxWaterDensity = 1100.0
)

// Analysis defaults.
const (
	DefaultSections    = 21 // odd, so Simpson's rule applies
	DefaultIntegration = "auto"
	DefaultUnits       = "m"

	DefaultHeelMin  = 0.0
	DefaultHeelMax  = 90.0
	DefaultHeelStep = 5.0

	// Plot size in centimeters.
	DefaultPlotWidth  = 16.0
	DefaultPlotHeight = 10.0
)

// Limits on the analysis parameters.
const (
	MinSections = 3
	MaxSections = 2001
	MaxWorkers  = 256
)
