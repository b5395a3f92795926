package diagram

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

// Size is the size of an exported plot. Zero fields use the defaults.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

var (
	hullColor      = color.Black
	waterColor     = color.RGBA{R: 30, G: 144, B: 255, A: 255}
	submergedColor = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	gzColor        = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	markColor      = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ExportStabilityCurve exports the GZ curve to an image file. The format
// follows the extension: .png, .svg or .pdf.
func ExportStabilityCurve(c *stability.Curve, filename string, size Size) error {
	p, err := stabilityPlot(c)
	if err != nil {
		return err
	}
	return save(p, filename, size, 8*vg.Inch, 5*vg.Inch)
}

// WriteStabilityCurvePNG renders the GZ curve as PNG to w.
func WriteStabilityCurvePNG(w io.Writer, c *stability.Curve, size Size) error {
	p, err := stabilityPlot(c)
	if err != nil {
		return err
	}
	width, height := size.or(8*vg.Inch, 5*vg.Inch)
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func stabilityPlot(c *stability.Curve) (*plot.Plot, error) {
	if len(c.Points) == 0 {
		return nil, fmt.Errorf("diagram: empty stability curve")
	}

	p := plot.New()
	p.Title.Text = "Righting Arm Curve"
	p.X.Label.Text = "Heel angle (°)"
	p.Y.Label.Text = "GZ (m)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(c.Points))
	for i, cp := range c.Points {
		pts[i] = plotter.XY{X: cp.Heel, Y: cp.GZ}
	}
	gzLine, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	gzLine.LineStyle.Width = vg.Points(2)
	gzLine.LineStyle.Color = gzColor
	p.Add(gzLine)
	p.Legend.Add("GZ", gzLine)

	first, last := c.Points[0].Heel, c.Points[len(c.Points)-1].Heel

	// Zero reference line
	zeroLine, err := plotter.NewLine(plotter.XYs{{X: first, Y: 0}, {X: last, Y: 0}})
	if err != nil {
		return nil, err
	}
	zeroLine.LineStyle.Width = vg.Points(1)
	zeroLine.LineStyle.Color = color.Gray{Y: 128}
	zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zeroLine)

	// Initial slope: GZ ≈ GM·θ, drawn up to one radian
	if c.GM > 0 {
		toDeg := 180 / math.Pi
		end := math.Min(last, toDeg)
		slope, err := plotter.NewLine(plotter.XYs{
			{X: 0, Y: 0},
			{X: end, Y: c.GM * end / toDeg},
		})
		if err != nil {
			return nil, err
		}
		slope.LineStyle.Color = color.RGBA{R: 255, G: 165, B: 0, A: 255}
		slope.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(slope)
		p.Legend.Add(fmt.Sprintf("GM = %.3f m", c.GM), slope)
	}

	// Key points
	marks := plotter.XYs{{X: c.MaxGZAngle, Y: c.MaxGZ}}
	labels := []string{fmt.Sprintf("max %.3f m @ %.1f°", c.MaxGZ, c.MaxGZAngle)}
	if c.VanishingFound {
		marks = append(marks, plotter.XY{X: c.VanishingAngle, Y: 0})
		labels = append(labels, fmt.Sprintf("vanishing %.1f°", c.VanishingAngle))
	}
	keyPoints, err := plotter.NewScatter(marks)
	if err != nil {
		return nil, err
	}
	keyPoints.GlyphStyle.Color = markColor
	keyPoints.GlyphStyle.Radius = vg.Points(4)
	keyPoints.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(keyPoints)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: marks, Labels: labels})
	if err != nil {
		return nil, err
	}
	p.Add(l)

	return p, nil
}

// ExportProfile exports a body plan of the profiles, heeled, with the
// waterline and the submerged part of each profile shaded.
func ExportProfile(profiles []geometry.Profile, waterline, heel float64, filename string, size Size) error {
	if len(profiles) == 0 {
		return fmt.Errorf("diagram: no profiles to draw")
	}

	p := plot.New()
	p.Title.Text = "Body Plan"
	if heel != 0 {
		p.Title.Text = fmt.Sprintf("Body Plan, heel %.1f°", heel)
	}
	p.X.Label.Text = "Y (m), starboard positive"
	p.Y.Label.Text = "Z (m)"

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, prof := range profiles {
		pts := hydrostatics.HeelTransform(prof.Points, heel)
		if len(pts) == 0 {
			continue
		}

		sub := hydrostatics.SubmergedPolygon(prof, waterline, heel)
		if len(sub) >= 3 {
			poly, err := plotter.NewPolygon(toXYs(sub, false))
			if err == nil {
				poly.Color = submergedColor
				poly.LineStyle.Width = 0
				p.Add(poly)
			}
		}

		outline, err := plotter.NewLine(toXYs(pts, true))
		if err != nil {
			return err
		}
		outline.LineStyle.Width = vg.Points(1)
		outline.LineStyle.Color = hullColor
		p.Add(outline)

		for _, pt := range pts {
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}

	// Waterline across the full beam
	margin := 0.1 * (maxY - minY)
	wl, err := plotter.NewLine(plotter.XYs{
		{X: minY - margin, Y: waterline},
		{X: maxY + margin, Y: waterline},
	})
	if err != nil {
		return err
	}
	wl.LineStyle.Width = vg.Points(1.5)
	wl.LineStyle.Color = waterColor
	wl.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(wl)

	lbl, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: maxY + margin, Y: waterline}},
		Labels: []string{fmt.Sprintf("WL %.3f m", waterline)},
	})
	if err != nil {
		return err
	}
	p.Add(lbl)

	return save(p, filename, size, 6*vg.Inch, 6*vg.Inch)
}

// toXYs converts points to plot coordinates in the transverse plane,
// optionally closing the polygon.
func toXYs(pts []geometry.Point, closed bool) plotter.XYs {
	xys := make(plotter.XYs, 0, len(pts)+1)
	for _, p := range pts {
		xys = append(xys, plotter.XY{X: p.Y, Y: p.Z})
	}
	if closed && len(pts) > 0 {
		xys = append(xys, plotter.XY{X: pts[0].Y, Y: pts[0].Z})
	}
	return xys
}

func (s Size) or(defaultWidth, defaultHeight vg.Length) (vg.Length, vg.Length) {
	width, height := s.Width, s.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func save(p *plot.Plot, filename string, size Size, defaultWidth, defaultHeight vg.Length) error {
	width, height := size.or(defaultWidth, defaultHeight)

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
