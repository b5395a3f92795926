package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
)

var (
	volumeFile      string
	volumeWaterline float64
	volumeHeel      float64
	volumeTable     bool
	volumeFlags     analysisFlags
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Compute submerged volume and center of buoyancy",
	Long: `Integrate the submerged cross sections of a hull at a waterline and
heel angle to find the displaced volume and the center of buoyancy.

Upright, the waterplane area, center of flotation and second moments of
the waterplane are also reported.

Examples:
  kayakcalc volume -f kayak.json --waterline 0.05
  kayakcalc volume -f kayak.json --waterline 0.05 --heel 20 --sections 41
  kayakcalc volume -f kayak.json --waterline 0.05 --method trapezoid --table`,
	RunE: runVolume,
}

func init() {
	rootCmd.AddCommand(volumeCmd)

	volumeCmd.Flags().StringVarP(&volumeFile, "file", "f", "", "Path to hull file (.json or .csv) [required]")
	volumeCmd.MarkFlagRequired("file")
	volumeCmd.Flags().Float64VarP(&volumeWaterline, "waterline", "w", 0, "Waterline height in the hull frame (m) [required]")
	volumeCmd.MarkFlagRequired("waterline")
	volumeCmd.Flags().Float64Var(&volumeHeel, "heel", 0, "Heel angle (degrees, positive = starboard down)")
	volumeCmd.Flags().BoolVar(&volumeTable, "table", false, "Show the submerged section at every station")
	volumeFlags.register(volumeCmd)
}

func runVolume(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &volumeFlags)
	if err != nil {
		return err
	}
	h, err := loadHull(cfg, volumeFile)
	if err != nil {
		return err
	}
	density := cfg.Density(h.Metadata().WaterDensity)

	res, err := hydrostatics.CalculateVolume(h, volumeWaterline, volumeHeel, cfg.NumSections, hydroOptions(cfg)...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out, "SUBMERGED VOLUME")

	printHeading(out, "CONDITION")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Waterline:\t%.4f m\n", res.Waterline)
	fmt.Fprintf(w, "  Heel:\t%.1f°\n", res.Heel)
	fmt.Fprintf(w, "  Water density:\t%.1f kg/m³\n", density)
	fmt.Fprintf(w, "  Integration:\t%s, %d stations\n", res.Method, len(res.Sections))
	w.Flush()
	fmt.Fprintln(out)

	printHeading(out, "RESULTS")
	body := res.BodyCB()
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Volume:\t%.6f m³\n", res.Volume)
	fmt.Fprintf(w, "  Displacement:\t%.2f kg\n", hydrostatics.Displacement(res.Volume, density))
	fmt.Fprintf(w, "  Center of buoyancy:\t%s\t(heeled frame)\n", res.CenterOfBuoyancy)
	if res.Heel != 0 {
		fmt.Fprintf(w, "  \t%s\t(hull frame)\n", body)
	}
	fmt.Fprintf(w, "  LCB:\t%.4f m\n", body.X)
	fmt.Fprintf(w, "  VCB:\t%.4f m\n", res.CenterOfBuoyancy.Z)
	w.Flush()
	fmt.Fprintln(out)

	if volumeHeel == 0 {
		wp, err := hydrostatics.WaterplaneProperties(h, volumeWaterline, cfg.NumSections, hydroOptions(cfg)...)
		if err != nil {
			return err
		}
		printHeading(out, "WATERPLANE")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Area:\t%.4f m²\n", wp.Area)
		fmt.Fprintf(w, "  LCF:\t%.4f m\n", wp.CentroidX)
		fmt.Fprintf(w, "  I_T:\t%.6f m⁴\n", wp.InertiaT)
		fmt.Fprintf(w, "  I_L:\t%.6f m⁴\n", wp.InertiaL)
		fmt.Fprintf(w, "  BM (I_T / V):\t%.4f m\n", wp.InertiaT/res.Volume)
		w.Flush()
		fmt.Fprintln(out)
	}

	if volumeTable {
		printHeading(out, "SECTIONS")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Station (m)\tArea (m²)\tCentroid Y (m)\tCentroid Z (m)\n")
		fmt.Fprintf(w, "  ───────────\t─────────\t──────────────\t──────────────\n")
		for _, s := range res.Sections {
			fmt.Fprintf(w, "  %.3f\t%.6f\t%.4f\t%.4f\n", s.Station, s.Area, s.CentroidY, s.CentroidZ)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	return nil
}
