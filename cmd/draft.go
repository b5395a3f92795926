package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

var (
	draftFile   string
	draftMass   float64
	draftCGFile string
	draftFlags  analysisFlags
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Find the equilibrium waterline for a loaded mass",
	Long: `Find the upright waterline at which the hull displaces the given mass.

The mass comes from --mass or from the total of a CG file. With a CG file
the initial metacentric height at that waterline is reported too.

Examples:
  kayakcalc draft -f kayak.json --mass 110
  kayakcalc draft -f kayak.json --cg loading.json --density 1000`,
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringVarP(&draftFile, "file", "f", "", "Path to hull file (.json or .csv) [required]")
	draftCmd.MarkFlagRequired("file")
	draftCmd.Flags().Float64VarP(&draftMass, "mass", "m", 0, "Total loaded mass (kg)")
	draftCmd.Flags().StringVar(&draftCGFile, "cg", "", "CG file giving the total mass")
	draftCmd.MarkFlagsMutuallyExclusive("mass", "cg")
	draftFlags.register(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &draftFlags)
	if err != nil {
		return err
	}
	h, err := loadHull(cfg, draftFile)
	if err != nil {
		return err
	}
	density := cfg.Density(h.Metadata().WaterDensity)
	logger := loggerFromContext(cmd.Context())

	var cg *mass.CenterOfGravity
	total := draftMass
	switch {
	case draftCGFile != "":
		c, err := loadCG(cfg, draftCGFile, h)
		if err != nil {
			return err
		}
		cg, total = &c, c.TotalMass
	case !cmd.Flags().Changed("mass"):
		return calcerr.Configurationf("give the loaded mass with --mass or --cg")
	}

	p := newProgress(logger)
	wl, err := hydrostatics.EquilibriumWaterline(h, total, density, cfg.NumSections, hydroOptions(cfg)...)
	if err != nil {
		return err
	}
	p.done("Equilibrium waterline")

	res, err := hydrostatics.CalculateVolume(h, wl, 0, cfg.NumSections, hydroOptions(cfg)...)
	if err != nil {
		return err
	}
	keel, top := h.VerticalExtent()

	out := cmd.OutOrStdout()
	printBanner(out, "EQUILIBRIUM DRAFT")

	printHeading(out, "LOADING")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Mass:\t%.2f kg\n", total)
	fmt.Fprintf(w, "  Water density:\t%.1f kg/m³\n", density)
	fmt.Fprintf(w, "  Required volume:\t%.6f m³\n", total/density)
	w.Flush()
	fmt.Fprintln(out)

	printHeading(out, "FLOATING CONDITION")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Waterline:\t%.4f m\n", wl)
	fmt.Fprintf(w, "  Draft:\t%.4f m\n", wl-keel)
	fmt.Fprintf(w, "  Freeboard:\t%.4f m\n", top-wl)
	fmt.Fprintf(w, "  Volume:\t%.6f m³\n", res.Volume)
	fmt.Fprintf(w, "  Displacement:\t%.2f kg\n", hydrostatics.Displacement(res.Volume, density))
	fmt.Fprintf(w, "  Center of buoyancy:\t%s\n", res.CenterOfBuoyancy)
	w.Flush()
	fmt.Fprintln(out)

	if cg != nil {
		gm, err := stability.CalculateGM(h, *cg, wl,
			stability.WithSections(cfg.NumSections), stability.WithMethod(cfg.Method()))
		if err != nil {
			return err
		}
		printHeading(out, "INITIAL STABILITY")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Center of gravity:\t%s\n", cg.Position)
		fmt.Fprintf(w, "  GM:\t%.4f m\n", gm)
		fmt.Fprintf(w, "  Trim lever (LCB - LCG):\t%.4f m\n", res.CenterOfBuoyancy.X-cg.Position.X)
		w.Flush()
		fmt.Fprintln(out)
		if gm <= 0 {
			printWarning(out, "GM is not positive: the hull is initially unstable")
		}
	}

	return nil
}
