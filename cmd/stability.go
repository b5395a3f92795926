package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/config"
	"github.com/fenix-io/kayak-calc-sub001/internal/diagram"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
	"github.com/fenix-io/kayak-calc-sub001/internal/report"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

var (
	stabilityFile      string
	stabilityCGFile    string
	stabilityCGX       float64
	stabilityCGY       float64
	stabilityCGZ       float64
	stabilityMass      float64
	stabilityHullMass  float64
	stabilityWaterline float64
	stabilityMin       float64
	stabilityMax       float64
	stabilityStep      float64
	stabilityWorkers   int

	stabilityDiagram bool
	stabilityExport  string
	stabilityCSV     string
	stabilityJSON    string
	stabilityReport  string
	stabilityStrict  bool

	stabilityFlags analysisFlags
)

var stabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "Compute the righting arm curve and stability metrics",
	Long: `Sweep the heel angle at a fixed waterline and compute the righting
arm GZ at each angle, then derive GM, the maximum GZ, the angle of
vanishing stability and the dynamic stability.

The center of gravity comes from a CG file (--cg) or from --cg-x, --cg-y,
--cg-z and --mass. Without --waterline the upright equilibrium waterline
for the total mass is used.

Examples:
  kayakcalc stability -f kayak.json --cg loading.json
  kayakcalc stability -f kayak.json --cg-x 2.4 --cg-z 0.2 --mass 100 --waterline 0.05
  kayakcalc stability -f kayak.json --cg loading.json --max 120 --step 2 --diagram
  kayakcalc stability -f kayak.json --cg loading.json -o gz.png --csv gz.csv --report stability.pdf`,
	RunE: runStability,
}

func init() {
	rootCmd.AddCommand(stabilityCmd)

	f := stabilityCmd.Flags()
	f.StringVarP(&stabilityFile, "file", "f", "", "Path to hull file (.json or .csv) [required]")
	stabilityCmd.MarkFlagRequired("file")

	// Loading
	f.StringVar(&stabilityCGFile, "cg", "", "Path to CG JSON file")
	f.Float64Var(&stabilityCGX, "cg-x", 0, "Longitudinal center of gravity (m)")
	f.Float64Var(&stabilityCGY, "cg-y", 0, "Transverse center of gravity (m)")
	f.Float64Var(&stabilityCGZ, "cg-z", 0, "Vertical center of gravity (m)")
	f.Float64VarP(&stabilityMass, "mass", "m", 0, "Total mass at the given CG (kg)")
	f.Float64Var(&stabilityHullMass, "hull-mass", 0, "Hull mass placed at the shell centroid (kg)")
	stabilityCmd.MarkFlagsMutuallyExclusive("cg", "cg-x")
	stabilityCmd.MarkFlagsMutuallyExclusive("cg", "cg-z")
	stabilityCmd.MarkFlagsMutuallyExclusive("cg", "mass")
	stabilityCmd.MarkFlagsRequiredTogether("cg-x", "cg-z", "mass")

	// Sweep
	f.Float64VarP(&stabilityWaterline, "waterline", "w", 0, "Waterline height (m, default: equilibrium for the total mass)")
	f.Float64Var(&stabilityMin, "min", config.DefaultHeelMin, "First heel angle (degrees)")
	f.Float64Var(&stabilityMax, "max", config.DefaultHeelMax, "Last heel angle (degrees)")
	f.Float64Var(&stabilityStep, "step", config.DefaultHeelStep, "Heel angle step (degrees)")
	f.IntVar(&stabilityWorkers, "workers", 0, "Heel angles evaluated in parallel (0 = one per CPU)")
	stabilityFlags.register(stabilityCmd)

	// Output
	f.BoolVar(&stabilityDiagram, "diagram", false, "Show ASCII GZ curve")
	f.StringVarP(&stabilityExport, "output", "o", "", "Export GZ plot to file (png, svg, pdf)")
	f.StringVar(&stabilityCSV, "csv", "", "Write the curve to a CSV file")
	f.StringVar(&stabilityJSON, "json", "", "Write the curve and metrics to a JSON file")
	f.StringVar(&stabilityReport, "report", "", "Write a PDF stability report")
	f.BoolVar(&stabilityStrict, "require-vanishing", false, "Fail when the vanishing angle is beyond the sweep")
}

func runStability(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfg, err := resolveConfig(cmd, &stabilityFlags, func(o *config.Overrides) {
		if flags.Changed("min") {
			o.HeelMin = &stabilityMin
		}
		if flags.Changed("max") {
			o.HeelMax = &stabilityMax
		}
		if flags.Changed("step") {
			o.HeelStep = &stabilityStep
		}
		if flags.Changed("workers") {
			o.Workers = &stabilityWorkers
		}
	})
	if err != nil {
		return err
	}
	angles, err := cfg.HeelAngles()
	if err != nil {
		return err
	}

	logger := loggerFromContext(cmd.Context())
	h, err := loadHull(cfg, stabilityFile)
	if err != nil {
		return err
	}
	density := cfg.Density(h.Metadata().WaterDensity)

	cg, err := stabilityCG(cmd, cfg, h)
	if err != nil {
		return err
	}
	logger.Debug("center of gravity", "cg", cg)

	wl := stabilityWaterline
	if !flags.Changed("waterline") {
		if wl, err = hydrostatics.EquilibriumWaterline(h, cg.TotalMass, density, cfg.NumSections, hydroOptions(cfg)...); err != nil {
			return err
		}
		logger.Info("equilibrium waterline", "z", fmt.Sprintf("%.4f m", wl), "mass", cg.TotalMass)
	}

	p := newProgress(logger)
	curve, err := stability.CalculateStabilityCurveContext(cmd.Context(), h, cg, wl, angles, cfg.NumSections,
		stability.WithWorkers(cfg.Workers),
		stability.WithMethod(cfg.Method()),
		stability.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Stability curve, %d angles", len(angles)))

	out := cmd.OutOrStdout()
	printBanner(out, "STABILITY ANALYSIS")
	if name := h.Metadata().Name; name != "" {
		fmt.Fprintf(out, "  Hull: %s\n", name)
		fmt.Fprintln(out)
	}

	printHeading(out, "CONDITION")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Center of gravity:\t%s\n", cg.Position)
	fmt.Fprintf(w, "  Total mass:\t%.2f kg\n", cg.TotalMass)
	fmt.Fprintf(w, "  Waterline:\t%.4f m\n", curve.Waterline)
	fmt.Fprintf(w, "  Displacement:\t%.6f m³\t(%.2f kg)\n", curve.Displacement, hydrostatics.Displacement(curve.Displacement, density))
	fmt.Fprintf(w, "  Integration:\t%s, %d stations\n", curve.Method, curve.Sections)
	w.Flush()
	fmt.Fprintln(out)

	printHeading(out, "RIGHTING ARM")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Heel (°)\tGZ (m)\tRighting moment (N·m)\t\n")
	fmt.Fprintf(w, "  ────────\t──────\t─────────────────────\t\n")
	for _, pt := range curve.Points {
		mark := ""
		if pt.Heel == curve.MaxGZAngle {
			mark = "◄ max"
		}
		fmt.Fprintf(w, "  %.1f\t%.5f\t%.1f\t%s\n", pt.Heel, pt.GZ, pt.GZ*cg.TotalMass*gravity, mark)
	}
	w.Flush()
	fmt.Fprintln(out)

	if stabilityDiagram {
		fmt.Fprint(out, diagram.DrawGZCurve(curve))
		fmt.Fprintln(out)
	}

	vanishing := "beyond the sweep"
	switch {
	case curve.InitiallyUnstable:
		vanishing = "0.0° (no positive GZ)"
	case curve.VanishingFound:
		vanishing = fmt.Sprintf("%.1f°", curve.VanishingAngle)
	}
	lines := []string{
		fmt.Sprintf("VCB                 %.4f m", curve.Upright.VCB),
		fmt.Sprintf("BM                  %.4f m", curve.Upright.BM),
		fmt.Sprintf("GM                  %.4f m", curve.GM),
	}
	if curve.GMSlopeAngle > 0 {
		lines = append(lines, fmt.Sprintf("GM (slope at %.0f°)  %.4f m", curve.GMSlopeAngle, curve.GMFromSlope))
	}
	lines = append(lines,
		fmt.Sprintf("Max GZ              %.4f m at %.1f°", curve.MaxGZ, curve.MaxGZAngle),
		fmt.Sprintf("Vanishing angle     %s", vanishing),
		fmt.Sprintf("Dynamic stability   %.5f m·rad", curve.DynamicStability),
	)
	fmt.Fprint(out, diagram.DrawSummaryBox("STABILITY METRICS", lines))
	fmt.Fprintln(out)

	if curve.GM <= 0 {
		printWarning(out, "GM is not positive: the hull is initially unstable")
	}
	if !curve.VanishingFound && angles[len(angles)-1] > 0 {
		printWarning(out, "GZ stays positive up to %.1f°; extend --max to find the vanishing angle", angles[len(angles)-1])
	}

	if err := exportStability(cmd, cfg, h, curve, density); err != nil {
		return err
	}
	if stabilityStrict {
		if _, err := curve.RequireVanishingAngle(); err != nil {
			return err
		}
	}
	return nil
}

// gravity is standard gravity (m/s²) for righting moments.
const gravity = 9.80665

// stabilityCG builds the center of gravity from the CG flags.
func stabilityCG(cmd *cobra.Command, cfg config.Config, h *geometry.Hull) (mass.CenterOfGravity, error) {
	var (
		cg  mass.CenterOfGravity
		err error
	)
	switch {
	case stabilityCGFile != "":
		cg, err = loadCG(cfg, stabilityCGFile, h)
	case cmd.Flags().Changed("mass"):
		cg, err = mass.Direct(geometry.Point{X: stabilityCGX, Y: stabilityCGY, Z: stabilityCGZ}, stabilityMass)
	default:
		return mass.CenterOfGravity{}, calcerr.Configurationf("give the center of gravity with --cg or --cg-x, --cg-z and --mass")
	}
	if err != nil {
		return mass.CenterOfGravity{}, err
	}

	if cmd.Flags().Changed("hull-mass") {
		return addHullMass(cfg, cg, h, stabilityHullMass)
	}
	return cg, nil
}

func exportStability(cmd *cobra.Command, cfg config.Config, h *geometry.Hull, curve *stability.Curve, density float64) error {
	out := cmd.OutOrStdout()
	var written []string

	if stabilityExport != "" {
		if err := diagram.ExportStabilityCurve(curve, stabilityExport, plotSize(cfg)); err != nil {
			return fmt.Errorf("export plot: %w", err)
		}
		written = append(written, stabilityExport)
	}
	if stabilityCSV != "" {
		if err := writeCurve(stabilityCSV, hullio.WriteCurveCSV, curve); err != nil {
			return err
		}
		written = append(written, stabilityCSV)
	}
	if stabilityJSON != "" {
		if err := writeCurve(stabilityJSON, hullio.WriteCurveJSON, curve); err != nil {
			return err
		}
		written = append(written, stabilityJSON)
	}
	if stabilityReport != "" {
		r, err := report.New(report.Input{
			Title:   reportTitle(h),
			Hull:    h,
			Curve:   curve,
			Density: density,
			Plot:    true,
		})
		if err != nil {
			return err
		}
		if err := r.Save(stabilityReport); err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Debug("report written", "id", r.ID)
		written = append(written, stabilityReport)
	}

	if len(written) > 0 {
		printSuccess(out, "Exported %d file(s)", len(written))
		for _, path := range written {
			printFile(out, path)
		}
	}
	return nil
}

func writeCurve(path string, write func(io.Writer, *stability.Curve) error, c *stability.Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if err := write(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func reportTitle(h *geometry.Hull) string {
	if name := h.Metadata().Name; name != "" {
		return "Stability Report: " + name
	}
	return ""
}
