package hullio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCurveCSV writes the curve as heel_deg,gz_m rows followed by the
// metrics as comment lines.
func WriteCurveCSV(w io.Writer, c *stability.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"heel_deg", "gz_m"}); err != nil {
		return err
	}
	for _, p := range c.Points {
		if err := cw.Write([]string{formatFloat(p.Heel), formatFloat(p.GZ)}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write curve CSV: %w", err)
	}

	vanishing := "beyond sweep"
	if c.VanishingFound {
		vanishing = formatFloat(c.VanishingAngle)
	}
	trailer := []string{
		"gm_m=" + formatFloat(c.GM),
		"gm_from_slope_m=" + formatFloat(c.GMFromSlope),
		"max_gz_m=" + formatFloat(c.MaxGZ),
		"max_gz_angle_deg=" + formatFloat(c.MaxGZAngle),
		"vanishing_angle_deg=" + vanishing,
		"dynamic_stability_m_rad=" + formatFloat(c.DynamicStability),
		"waterline_m=" + formatFloat(c.Waterline),
		"displacement_m3=" + formatFloat(c.Displacement),
	}
	for _, line := range trailer {
		if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
			return fmt.Errorf("write curve CSV: %w", err)
		}
	}
	return nil
}

// WriteCurveJSON writes the curve and its metrics as indented JSON.
func WriteCurveJSON(w io.Writer, c *stability.Curve) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write curve JSON: %w", err)
	}
	return nil
}

// SaveCurve writes the curve to path as CSV or JSON, by extension.
func SaveCurve(path string, c *stability.Curve) error {
	var write func(io.Writer, *stability.Curve) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = WriteCurveCSV
	case ".json":
		write = WriteCurveJSON
	default:
		return calcerr.Configurationf("curve file %s: unsupported format %q (use .csv or .json)", path, ext)
	}

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
