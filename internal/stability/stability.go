// Package stability derives righting arms and stability metrics from the
// hydrostatics of a hull and its center of gravity.
//
// The waterline is held fixed across the heel sweep: GZ at each angle is
// the transverse distance, in the heeled frame, between the center of
// buoyancy of the volume below that waterline and the center of gravity.
// Positive GZ is a righting arm.
package stability

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
	"github.com/fenix-io/kayak-calc-sub001/internal/mass"
)

// DefaultSections is the station count used for GM when none is given.
const DefaultSections = 21

type options struct {
	workers  int
	logger   *log.Logger
	method   hydrostatics.Method
	sections int
	sampler  *interpolate.Sampler
}

// Option configures a stability calculation.
type Option func(*options)

// WithWorkers limits the number of heel angles evaluated concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger logs each evaluated heel angle at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMethod selects the integration rule along the hull.
func WithMethod(m hydrostatics.Method) Option {
	return func(o *options) { o.method = m }
}

// WithSections sets the station count used by CalculateGM.
func WithSections(n int) Option {
	return func(o *options) { o.sections = n }
}

func buildOptions(h *geometry.Hull, opts []Option) options {
	o := options{sections: DefaultSections}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.sampler == nil {
		o.sampler = interpolate.NewSampler(h)
	}
	return o
}

func (o options) hydro() []hydrostatics.Option {
	return []hydrostatics.Option{hydrostatics.WithMethod(o.method), hydrostatics.WithSampler(o.sampler)}
}

// CalculateGZ returns the righting arm at one heel angle:
// GZ = y'_B - y'_G with both centers in the heeled frame.
func CalculateGZ(h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ, heelDeg float64, numSections int, opts ...Option) (float64, error) {
	o := buildOptions(h, opts)
	gz, _, err := righting(h, cg, waterlineZ, heelDeg, numSections, o)
	return gz, err
}

func righting(h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ, heelDeg float64, numSections int, o options) (float64, hydrostatics.VolumeResult, error) {
	if !cg.Position.IsFinite() {
		return 0, hydrostatics.VolumeResult{}, calcerr.AtHeel(calcerr.Configurationf("CG position %s is not finite", cg.Position), heelDeg)
	}
	res, err := hydrostatics.CalculateVolume(h, waterlineZ, heelDeg, numSections, o.hydro()...)
	if err != nil {
		return 0, hydrostatics.VolumeResult{}, err
	}
	g := hydrostatics.HeelPoint(cg.Position, heelDeg)
	return res.CenterOfBuoyancy.Y - g.Y, res, nil
}

// Upright holds the upright hydrostatics behind GM.
type Upright struct {
	Volume float64 `json:"volume_m3"`
	VCB    float64 `json:"vcb_m"`
	BM     float64 `json:"bm_m"` // I_T / V
	GM     float64 `json:"gm_m"`

	Method hydrostatics.Method `json:"-"`
}

// CalculateGM returns the initial metacentric height
// GM = VCB + I_T/V - VCG at zero heel.
func CalculateGM(h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ float64, opts ...Option) (float64, error) {
	u, err := upright(h, cg, waterlineZ, buildOptions(h, opts))
	if err != nil {
		return 0, err
	}
	return u.GM, nil
}

func upright(h *geometry.Hull, cg mass.CenterOfGravity, waterlineZ float64, o options) (Upright, error) {
	if !cg.Position.IsFinite() {
		return Upright{}, calcerr.Configurationf("CG position %s is not finite", cg.Position)
	}
	res, err := hydrostatics.CalculateVolume(h, waterlineZ, 0, o.sections, o.hydro()...)
	if err != nil {
		return Upright{}, err
	}
	wp, err := hydrostatics.WaterplaneProperties(h, waterlineZ, o.sections, o.hydro()...)
	if err != nil {
		return Upright{}, calcerr.AtHeel(err, 0)
	}

	bm := wp.InertiaT / res.Volume
	return Upright{
		Volume: res.Volume,
		VCB:    res.CenterOfBuoyancy.Z,
		BM:     bm,
		GM:     res.CenterOfBuoyancy.Z + bm - cg.Position.Z,
		Method: res.Method,
	}, nil
}
