package stability

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/integrate"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
)

// MaxHeel bounds the heel angles accepted by a sweep (degrees).
const MaxHeel = 180.0

// gzTolerance is the largest righting arm treated as zero (m).
const gzTolerance = 1e-12

// CurvePoint is the righting arm at one heel angle.
type CurvePoint struct {
	Heel float64 `json:"heel_deg"`
	GZ   float64 `json:"gz_m"`
}

// Curve is a righting-arm curve with its summary metrics.
type Curve struct {
	Points []CurvePoint `json:"points"`

	GM float64 `json:"gm_m"`
	// GMFromSlope is GZ(θ)/sin θ at the smallest positive sampled angle
	// GMSlopeAngle. Both are zero when the sweep has no positive angle.
	GMFromSlope  float64 `json:"gm_from_slope_m"`
	GMSlopeAngle float64 `json:"gm_slope_angle_deg"`

	MaxGZ      float64 `json:"max_gz_m"`
	MaxGZAngle float64 `json:"max_gz_angle_deg"`

	// VanishingAngle is the first angle above upright where GZ drops to
	// zero. A hull with no positive GZ at its first heeled angle is
	// InitiallyUnstable and vanishes at 0°.
	VanishingAngle    float64 `json:"vanishing_angle_deg"`
	VanishingFound    bool    `json:"vanishing_found"`
	InitiallyUnstable bool    `json:"initially_unstable"`

	// DynamicStability is the area under the curve in m·rad, from upright
	// up to the vanishing angle or the end of the sweep.
	DynamicStability float64 `json:"dynamic_stability_m_rad"`

	Waterline    float64              `json:"waterline_m"`
	Displacement float64              `json:"displacement_m3"` // upright submerged volume
	Upright      Upright              `json:"upright"`
	CG           mass.CenterOfGravity `json:"cg"`
	Sections     int                  `json:"sections"`
	Method       string               `json:"method"`
}

// Angles returns the heel angles of the curve.
func (c *Curve) Angles() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Heel
	}
	return out
}

// GZ returns the righting arms of the curve.
func (c *Curve) GZ() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.GZ
	}
	return out
}

// RequireVanishingAngle returns the angle of vanishing stability, or a
// convergence error when GZ never drops to zero within the sweep.
func (c *Curve) RequireVanishingAngle() (float64, error) {
	if !c.VanishingFound {
		n := len(c.Points)
		if n == 0 || c.Points[n-1].Heel <= 0 {
			return 0, calcerr.Convergencef("sweep has no heel angle above upright: vanishing angle is unknown")
		}
		return 0, calcerr.Convergencef("GZ stays positive up to %.1f°: vanishing angle is beyond the sweep range", c.Points[n-1].Heel)
	}
	return c.VanishingAngle, nil
}

// HeelAngles builds an ascending sweep from min to max in steps of step.
// max is included when it falls on the grid.
func HeelAngles(min, max, step float64) ([]float64, error) {
	for _, v := range []float64{min, max, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, calcerr.Configurationf("heel sweep values must be finite")
		}
	}
	if step <= 0 {
		return nil, calcerr.Configurationf("heel step must be positive, got %v", step)
	}
	if max < min {
		return nil, calcerr.Configurationf("heel range is inverted: min %v > max %v", min, max)
	}
	if min < -MaxHeel || max > MaxHeel {
		return nil, calcerr.Configurationf("heel range [%v, %v] exceeds ±%v°", min, max, MaxHeel)
	}

	n := int(math.Floor((max-min)/step+1e-9)) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = min + float64(i)*step
	}
	return angles, nil
}

// CalculateStabilityCurve evaluates GZ at every heel angle with a fixed
// waterline and derives the curve metrics.
func CalculateStabilityCurve(h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ float64, heelAngles []float64, numSections int, opts ...Option) (*Curve, error) {
	return CalculateStabilityCurveContext(context.Background(), h, cg, waterlineZ, heelAngles, numSections, opts...)
}

// CalculateStabilityCurveContext is CalculateStabilityCurve with
// cancellation. Angles are evaluated concurrently; the first failure
// cancels the remaining angles and is returned with its heel angle.
func CalculateStabilityCurveContext(ctx context.Context, h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ float64, heelAngles []float64, numSections int, opts ...Option) (*Curve, error) {
	if err := checkAngles(heelAngles); err != nil {
		return nil, err
	}
	if numSections < 2 {
		return nil, calcerr.Configurationf("number of sections must be at least 2, got %d", numSections)
	}

	o := buildOptions(h, opts)
	o.sections = numSections

	up, err := upright(h, cg, waterlineZ, o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	points := make([]CurvePoint, len(heelAngles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, heel := range heelAngles {
		i, heel := i, heel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gz, _, err := righting(h, cg, waterlineZ, heel, numSections, o)
			if err != nil {
				return err
			}
			points[i] = CurvePoint{Heel: heel, GZ: gz}
			if o.logger != nil {
				o.logger.Debug("heel evaluated", "heel", heel, "gz", gz)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if o.logger != nil {
		o.logger.Debug("sweep complete", "angles", len(heelAngles), "workers", o.workers, "elapsed", time.Since(start))
	}

	c := &Curve{
		Points:       points,
		GM:           up.GM,
		Waterline:    waterlineZ,
		Displacement: up.Volume,
		Upright:      up,
		CG:           cg,
		Sections:     numSections,
		Method:       up.Method.String(),
	}
	c.computeMetrics()
	return c, nil
}

func checkAngles(angles []float64) error {
	if len(angles) == 0 {
		return calcerr.Configurationf("heel angles must not be empty")
	}
	for i, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) || a < -MaxHeel || a > MaxHeel {
			return calcerr.Configurationf("heel angle %v is outside [-%v, %v]", a, MaxHeel, MaxHeel)
		}
		if i > 0 && a <= angles[i-1] {
			return calcerr.Configurationf("heel angles must be strictly ascending: %v follows %v", a, angles[i-1])
		}
	}
	return nil
}

func (c *Curve) computeMetrics() {
	pts := c.Points

	c.MaxGZ, c.MaxGZAngle = pts[0].GZ, pts[0].Heel
	for _, p := range pts[1:] {
		if p.GZ > c.MaxGZ {
			c.MaxGZ, c.MaxGZAngle = p.GZ, p.Heel
		}
	}

	for _, p := range pts {
		if p.Heel > 0 {
			c.GMSlopeAngle = p.Heel
			c.GMFromSlope = p.GZ / math.Sin(p.Heel*math.Pi/180)
			break
		}
	}

	c.vanishingAndArea(pts)
}

// vanishingAndArea finds the angle of vanishing stability and the dynamic
// stability over the starboard range of the curve, from upright onward.
func (c *Curve) vanishingAndArea(pts []CurvePoint) {
	q := fromUpright(pts)

	first := -1
	for i, p := range q {
		if p.Heel > 0 {
			first = i
			break
		}
	}
	if first < 0 {
		return
	}
	if q[first].GZ <= gzTolerance {
		c.InitiallyUnstable = true
		c.VanishingFound = true
		c.VanishingAngle = 0
		return
	}

	end := len(q)
	for i := 1; i < len(q); i++ {
		a, b := q[i-1], q[i]
		if a.GZ > gzTolerance && b.GZ <= gzTolerance {
			c.VanishingFound = true
			c.VanishingAngle = a.Heel + (b.Heel-a.Heel)*a.GZ/(a.GZ-b.GZ)
			end = i
			break
		}
	}

	x := make([]float64, 0, end+1)
	y := make([]float64, 0, end+1)
	for _, p := range q[:end] {
		x = append(x, p.Heel*math.Pi/180)
		y = append(y, p.GZ)
	}
	if c.VanishingFound {
		x = append(x, c.VanishingAngle*math.Pi/180)
		y = append(y, 0)
	}
	if len(x) >= 2 {
		c.DynamicStability = integrate.Trapezoidal(x, y)
	}
}

// fromUpright returns the points at non-negative heel. When upright falls
// between two samples, GZ at 0° is interpolated and prepended.
func fromUpright(pts []CurvePoint) []CurvePoint {
	for i, p := range pts {
		if p.Heel < 0 {
			continue
		}
		if i == 0 || p.Heel == 0 {
			return pts[i:]
		}
		a := pts[i-1]
		gz0 := a.GZ + (p.GZ-a.GZ)*(0-a.Heel)/(p.Heel-a.Heel)
		return append([]CurvePoint{{Heel: 0, GZ: gz0}}, pts[i:]...)
	}
	return nil
}
