package mtf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// ErrFrequencyOutOfRange is returned by ValueAt for frequencies outside the
// curve's valid domain.
var ErrFrequencyOutOfRange = errors.New("frequency outside the MTF curve domain")

// Curve is the computed modulation transfer function sampled over spatial
// frequency. Frequencies are in cycles per pixel, values are contrast ratios
// normalized so the curve starts at 1 at DC.
type Curve struct {
	freqs  []float64
	values []float64
	pl     interp.PiecewiseLinear
}

func newCurve(freqs, values []float64) (*Curve, error) {
	c := &Curve{freqs: freqs, values: values}
	if err := c.pl.Fit(freqs, values); err != nil {
		return nil, fmt.Errorf("fitting MTF curve: %w", err)
	}
	return c, nil
}

// ValueAt evaluates the curve at the given spatial frequency by piecewise
// linear interpolation between the computed samples.
func (c *Curve) ValueAt(frequency float64) (float64, error) {
	lo, hi := c.Domain()
	if frequency < lo || frequency > hi {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrFrequencyOutOfRange, frequency, lo, hi)
	}
	return c.pl.Predict(frequency), nil
}

// Domain returns the frequency range the curve covers.
func (c *Curve) Domain() (lo, hi float64) {
	return c.freqs[0], c.freqs[len(c.freqs)-1]
}

// Samples returns the raw frequency and value samples, for reporting tools.
func (c *Curve) Samples() (freqs, values []float64) {
	return c.freqs, c.values
}
