package hydrostatics

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/integrate"

	"github.com/fenix-io/kayak-calc-sub001/internal/calcerr"
	"github.com/fenix-io/kayak-calc-sub001/internal/interpolate"
)

// Method selects the rule used to integrate along the hull.
type Method int

const (
	// Auto uses Simpson's rule when the station count is odd and the
	// trapezoidal rule otherwise.
	Auto Method = iota
	// Simpson requires an odd number of stations.
	Simpson
	// Trapezoid works with any number of stations.
	Trapezoid
)

func (m Method) String() string {
	switch m {
	case Simpson:
		return "simpson"
	case Trapezoid:
		return "trapezoid"
	default:
		return "auto"
	}
}

// ParseMethod parses "auto", "simpson" or "trapezoid".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "simpson", "simpsons":
		return Simpson, nil
	case "trapezoid", "trapezoidal":
		return Trapezoid, nil
	default:
		return Auto, calcerr.Configurationf("unknown integration method %q (use auto, simpson or trapezoid)", s)
	}
}

// resolve picks the concrete rule for n uniformly spaced stations.
func (m Method) resolve(n int) (Method, error) {
	switch m {
	case Simpson:
		if n < 3 || n%2 == 0 {
			return m, calcerr.Configurationf("Simpson's rule needs an odd number of sections (at least 3), got %d", n)
		}
		return Simpson, nil
	case Trapezoid:
		return Trapezoid, nil
	default:
		if n >= 3 && n%2 == 1 {
			return Simpson, nil
		}
		return Trapezoid, nil
	}
}

// integrateOver integrates f sampled at the uniformly spaced x with a
// resolved method.
func integrateOver(x, f []float64, m Method) float64 {
	if m == Simpson {
		return integrate.Simpsons(x, f)
	}
	return integrate.Trapezoidal(x, f)
}

// Integrate integrates f over x with the given method. x must be uniformly
// spaced and sorted. It is exported for callers that integrate quantities
// sampled on the same stations as the volume, such as the hull shell.
func Integrate(x, f []float64, m Method) (float64, error) {
	if len(x) != len(f) {
		return 0, fmt.Errorf("integrate: %d stations but %d values", len(x), len(f))
	}
	if len(x) < 2 {
		return 0, calcerr.Configurationf("integration needs at least 2 stations, got %d", len(x))
	}
	resolved, err := m.resolve(len(x))
	if err != nil {
		return 0, err
	}
	return integrateOver(x, f, resolved), nil
}

type options struct {
	method  Method
	sampler *interpolate.Sampler
}

// Option configures a hydrostatic calculation.
type Option func(*options)

// WithMethod selects the integration rule. The default is Auto.
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithSampler reuses a sampler, and its profile cache, across calls.
// The sampler must belong to the hull being analysed.
func WithSampler(s *interpolate.Sampler) Option {
	return func(o *options) { o.sampler = s }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
