package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/diagram"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hullio"
)

var hullCmd = &cobra.Command{
	Use:   "hull",
	Short: "Inspect and convert hull geometry files",
	Long: `Inspect and convert hull geometry files.

A hull is a set of transverse profiles at longitudinal stations, each
listed from the port gunwale through the keel to the starboard gunwale,
with optional bow and stern closures.

Available subcommands:
  info     - Summarize a hull and draw its profiles
  convert  - Convert a hull file to canonical JSON (meters, stern origin)`,
}

var (
	hullInfoFile      string
	hullInfoDiagram   bool
	hullInfoWaterline float64
	hullInfoHeel      float64
	hullInfoExport    string
	hullInfoFlags     analysisFlags
)

var hullInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a hull file",
	Long: `Load a hull file, validate it, and print its profiles and closures.

Examples:
  kayakcalc hull info -f kayak.json
  kayakcalc hull info -f kayak.csv --units cm --diagram --waterline 0.05
  kayakcalc hull info -f kayak.json --heel 20 --waterline 0 -o body.png`,
	RunE: runHullInfo,
}

var (
	hullConvertFile   string
	hullConvertOutput string
	hullConvertFlags  analysisFlags
)

var hullConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a hull file to canonical JSON",
	Long: `Read a JSON or CSV hull file in any supported units and coordinate
system and write it as JSON in meters with the stern at the origin.

Examples:
  kayakcalc hull convert -f kayak.csv -o kayak.json
  kayakcalc hull convert -f kayak-mm.json --units mm`,
	RunE: runHullConvert,
}

func init() {
	rootCmd.AddCommand(hullCmd)
	hullCmd.AddCommand(hullInfoCmd)
	hullCmd.AddCommand(hullConvertCmd)

	hullInfoCmd.Flags().StringVarP(&hullInfoFile, "file", "f", "", "Path to hull file (.json or .csv) [required]")
	hullInfoCmd.MarkFlagRequired("file")
	hullInfoCmd.Flags().BoolVar(&hullInfoDiagram, "diagram", false, "Show ASCII drawings of the profiles")
	hullInfoCmd.Flags().Float64Var(&hullInfoWaterline, "waterline", 0, "Waterline to draw (m)")
	hullInfoCmd.Flags().Float64Var(&hullInfoHeel, "heel", 0, "Heel angle for drawings (degrees)")
	hullInfoCmd.Flags().StringVarP(&hullInfoExport, "output", "o", "", "Export body plan to file (png, svg, pdf)")
	hullInfoFlags.register(hullInfoCmd)

	hullConvertCmd.Flags().StringVarP(&hullConvertFile, "file", "f", "", "Path to hull file (.json or .csv) [required]")
	hullConvertCmd.MarkFlagRequired("file")
	hullConvertCmd.Flags().StringVarP(&hullConvertOutput, "output", "o", "", "Output JSON file (default: stdout)")
	hullConvertFlags.register(hullConvertCmd)
}

func runHullInfo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &hullInfoFlags)
	if err != nil {
		return err
	}
	h, err := loadHull(cfg, hullInfoFile)
	if err != nil {
		return err
	}
	hasWaterline := cmd.Flags().Changed("waterline")

	out := cmd.OutOrStdout()
	printBanner(out, "HULL GEOMETRY")

	meta := h.Metadata()
	if meta.Name != "" {
		fmt.Fprintf(out, "  Hull: %s\n", meta.Name)
	}
	if meta.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", meta.Description)
	}
	fmt.Fprintf(out, "  File: %s\n", hullInfoFile)
	fmt.Fprintln(out)

	printHeading(out, "DIMENSIONS")
	minX, maxX := h.Extent()
	minZ, maxZ := h.VerticalExtent()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Length overall:\t%.3f m\t(x %.3f to %.3f)\n", h.Length(), minX, maxX)
	fmt.Fprintf(w, "  Max beam:\t%.3f m\n", h.MaxBeam())
	fmt.Fprintf(w, "  Depth:\t%.3f m\t(z %.3f to %.3f)\n", maxZ-minZ, minZ, maxZ)
	fmt.Fprintf(w, "  Point matching:\t%s\n", h.Policy())
	fmt.Fprintf(w, "  Stern closure:\t%s\n", describeEnd(h, geometry.Stern))
	fmt.Fprintf(w, "  Bow closure:\t%s\n", describeEnd(h, geometry.Bow))
	if meta.WaterDensity > 0 {
		fmt.Fprintf(w, "  Water density:\t%.1f kg/m³\t(from file)\n", meta.WaterDensity)
	}
	if meta.SourceUnits != "" {
		fmt.Fprintf(w, "  Source units:\t%s\n", meta.SourceUnits)
	}
	w.Flush()
	fmt.Fprintln(out)

	printHeading(out, "PROFILES")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tStation (m)\tPoints\tBeam (m)\tKeel Z (m)\tLevels\n")
	fmt.Fprintf(w, "  ─\t───────────\t──────\t────────\t──────────\t──────\n")
	for i, p := range h.Profiles() {
		minY, maxY, minZ, _ := p.Bounds()
		levels := "-"
		if p.HasLevels() {
			levels = strings.Join(p.LevelKeys(), ", ")
		}
		fmt.Fprintf(w, "  %d\t%.3f\t%d\t%.3f\t%.3f\t%s\n", i+1, p.Station, len(p.Points), maxY-minY, minZ, levels)
	}
	w.Flush()
	fmt.Fprintln(out)

	if hullInfoDiagram {
		for _, p := range h.Profiles() {
			fmt.Fprint(out, diagram.DrawProfile(diagram.ProfileDiagramData{
				Profile:      p,
				Heel:         hullInfoHeel,
				Waterline:    hullInfoWaterline,
				HasWaterline: hasWaterline,
			}))
		}
		fmt.Fprintln(out)
	}

	if hullInfoExport != "" {
		if err := diagram.ExportProfile(h.Profiles(), hullInfoWaterline, hullInfoHeel, hullInfoExport, plotSize(cfg)); err != nil {
			return fmt.Errorf("export body plan: %w", err)
		}
		printSuccess(out, "Body plan exported")
		printFile(out, hullInfoExport)
	}

	return nil
}

func describeEnd(h *geometry.Hull, side geometry.EndSide) string {
	e := h.End(side)
	at := fmt.Sprintf(" at x = %.3f m", h.EndX(side))
	switch e.Kind() {
	case geometry.Apex:
		return fmt.Sprintf("apex %s%s", e.Apex, at)
	case geometry.Levels:
		return fmt.Sprintf("%d level points%s", len(e.Levels), at)
	default:
		return "transom" + at
	}
}

func runHullConvert(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &hullConvertFlags)
	if err != nil {
		return err
	}
	h, err := loadHull(cfg, hullConvertFile)
	if err != nil {
		return err
	}

	if hullConvertOutput == "" {
		return hullio.WriteJSON(cmd.OutOrStdout(), h)
	}

	f, err := os.Create(hullConvertOutput)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if err := hullio.WriteJSON(f, h); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	loggerFromContext(cmd.Context()).Info("hull converted", "profiles", h.NumProfiles(), "output", hullConvertOutput)
	printFile(cmd.OutOrStdout(), hullConvertOutput)
	return nil
}
