// Package report renders a stability analysis as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"

	"github.com/fenix-io/kayak-calc-sub001/internal/diagram"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

// Input is the analysis to report on.
type Input struct {
	Title   string
	Hull    *geometry.Hull
	Curve   *stability.Curve
	Density float64 // kg/m³

	// Plot embeds the GZ curve image when set.
	Plot bool
}

// Report is a rendered analysis with a unique run ID.
type Report struct {
	ID      string
	Created time.Time

	in Input
}

// New prepares a report for in.
func New(in Input) (*Report, error) {
	if in.Hull == nil || in.Curve == nil {
		return nil, fmt.Errorf("report: hull and curve are required")
	}
	if len(in.Curve.Points) == 0 {
		return nil, fmt.Errorf("report: empty stability curve")
	}
	if in.Title == "" {
		in.Title = "Stability Report"
	}
	return &Report{
		ID:      uuid.NewString(),
		Created: time.Now(),
		in:      in,
	}, nil
}

// Save writes the PDF to path.
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := r.WritePDF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders the report to w.
func (r *Report) WritePDF(w io.Writer) error {
	in := r.in
	c := in.Curve
	meta := in.Hull.Metadata()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(in.Title, true)
	pdf.SetCreator("kayakcalc", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(in.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Run %s, %s", r.ID, r.Created.Format("2006-01-02 15:04")))
	pdf.Ln(9)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		pdf.CellFormat(70, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}

	section("Hull")
	if meta.Name != "" {
		row("Name", meta.Name)
	}
	if meta.Description != "" {
		row("Description", meta.Description)
	}
	minX, maxX := in.Hull.Extent()
	row("Profiles", fmt.Sprintf("%d", in.Hull.NumProfiles()))
	row("Length", fmt.Sprintf("%.3f m (x %.3f to %.3f)", in.Hull.Length(), minX, maxX))
	row("Max beam", fmt.Sprintf("%.3f m", in.Hull.MaxBeam()))
	row("Closures", fmt.Sprintf("stern %s, bow %s",
		in.Hull.End(geometry.Stern).Kind(), in.Hull.End(geometry.Bow).Kind()))
	pdf.Ln(4)

	section("Loading")
	row("Center of gravity", c.CG.Position.String())
	row("Total mass", fmt.Sprintf("%.2f kg", c.CG.TotalMass))
	row("Water density", fmt.Sprintf("%.1f kg/m³", in.Density))
	row("Waterline", fmt.Sprintf("%.4f m", c.Waterline))
	row("Displacement", fmt.Sprintf("%.5f m³ (%.2f kg)", c.Displacement, c.Displacement*in.Density))
	row("Integration", fmt.Sprintf("%s, %d sections", c.Method, c.Sections))
	pdf.Ln(4)

	section("Stability")
	row("VCB", fmt.Sprintf("%.4f m", c.Upright.VCB))
	row("BM", fmt.Sprintf("%.4f m", c.Upright.BM))
	row("GM", fmt.Sprintf("%.4f m", c.GM))
	if c.GMSlopeAngle > 0 {
		row("GM from curve slope", fmt.Sprintf("%.4f m at %.1f°", c.GMFromSlope, c.GMSlopeAngle))
	}
	row("Max GZ", fmt.Sprintf("%.4f m at %.1f°", c.MaxGZ, c.MaxGZAngle))
	if c.InitiallyUnstable {
		row("Angle of vanishing stability", "0.0°, initially unstable")
	} else if c.VanishingFound {
		row("Angle of vanishing stability", fmt.Sprintf("%.1f°", c.VanishingAngle))
	} else {
		row("Angle of vanishing stability", "beyond the sweep range")
	}
	row("Dynamic stability", fmt.Sprintf("%.5f m·rad", c.DynamicStability))
	pdf.Ln(4)

	if in.Plot {
		var buf bytes.Buffer
		if err := diagram.WriteStabilityCurvePNG(&buf, c, diagram.Size{}); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("gz", opt, &buf)
		pdf.ImageOptions("gz", 15, pdf.GetY(), 180, 0, true, opt, 0, "")
		pdf.Ln(4)
	}

	section("Righting arm table")
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(40, 6, "Heel (deg)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 6, "GZ (m)", "1", 1, "C", true, 0, "")
	for _, p := range c.Points {
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", p.Heel), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.5f", p.GZ), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
