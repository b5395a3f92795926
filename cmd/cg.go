package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/config"
	"github.com/fenix-io/kayak-calc-sub001/internal/diagram"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
)

var (
	cgFile     string
	cgHullFile string
	cgHullMass float64
	cgFlags    analysisFlags
)

var cgCmd = &cobra.Command{
	Use:   "cg",
	Short: "Compose the center of gravity from mass components",
	Long: `Compute the combined mass and center of gravity from a CG file.

The file lists mass components, or gives a position and total mass
directly. A hull mass, from the file or --hull-mass, is placed at the
centroid of the hull shell and needs the hull file.

Examples:
  kayakcalc cg -f loading.json
  kayakcalc cg -f loading.json --hull kayak.json --hull-mass 22`,
	RunE: runCG,
}

func init() {
	rootCmd.AddCommand(cgCmd)

	cgCmd.Flags().StringVarP(&cgFile, "file", "f", "", "Path to CG JSON file [required]")
	cgCmd.MarkFlagRequired("file")
	cgCmd.Flags().StringVar(&cgHullFile, "hull", "", "Hull file, for hull mass placement")
	cgCmd.Flags().Float64Var(&cgHullMass, "hull-mass", 0, "Hull mass placed at the shell centroid (kg)")
	cgFlags.register(cgCmd)
}

func runCG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &cgFlags)
	if err != nil {
		return err
	}

	var h *geometry.Hull
	if cgHullFile != "" {
		if h, err = loadHull(cfg, cgHullFile); err != nil {
			return err
		}
	}

	cg, err := loadCG(cfg, cgFile, h)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hull-mass") {
		if cg, err = addHullMass(cfg, cg, h, cgHullMass); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	printBanner(out, "CENTER OF GRAVITY")
	printCG(out, cg)
	return nil
}

func loadCG(cfg config.Config, path string, h *geometry.Hull) (mass.CenterOfGravity, error) {
	units, err := hullio.ParseUnits(cfg.Units)
	if err != nil {
		return mass.CenterOfGravity{}, err
	}
	return hullio.LoadCG(path, hullio.CGSource{Hull: h, NumSections: cfg.NumSections, Units: units})
}

// addHullMass adds the hull shell as a component of cg. A CG given as a
// bare position becomes a payload component.
func addHullMass(cfg config.Config, cg mass.CenterOfGravity, h *geometry.Hull, hullMass float64) (mass.CenterOfGravity, error) {
	if h == nil {
		return mass.CenterOfGravity{}, calcerr.Configurationf("--hull-mass needs a hull file")
	}
	comps := cg.Components
	if len(comps) == 0 {
		comps = []mass.Component{{Label: "payload", Mass: cg.TotalMass, Position: cg.Position}}
	}
	for _, c := range comps {
		if c.Label == mass.HullLabel {
			return mass.CenterOfGravity{}, calcerr.Configurationf("hull mass is given twice")
		}
	}

	shell, err := mass.HullComponent(h, hullMass, cfg.NumSections)
	if err != nil {
		return mass.CenterOfGravity{}, err
	}
	return mass.Compose(append(comps[:len(comps):len(comps)], shell)...)
}

func printCG(out io.Writer, cg mass.CenterOfGravity) {
	if len(cg.Components) > 0 {
		printHeading(out, "COMPONENTS")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Label\tMass (kg)\tX (m)\tY (m)\tZ (m)\tShare\n")
		fmt.Fprintf(w, "  ─────\t─────────\t─────\t─────\t─────\t─────\n")
		for i, c := range cg.Components {
			label := c.Label
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			fmt.Fprintf(w, "  %s\t%.2f\t%.4f\t%.4f\t%.4f\t%.1f%%\n",
				label, c.Mass, c.Position.X, c.Position.Y, c.Position.Z, 100*c.Mass/cg.TotalMass)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	fmt.Fprint(out, diagram.DrawSummaryBox("CENTER OF GRAVITY", []string{
		fmt.Sprintf("Total mass  %.2f kg", cg.TotalMass),
		fmt.Sprintf("LCG         %.4f m", cg.Position.X),
		fmt.Sprintf("TCG         %.4f m", cg.Position.Y),
		fmt.Sprintf("VCG         %.4f m", cg.Position.Z),
	}))
	fmt.Fprintln(out)
}
