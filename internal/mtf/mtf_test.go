package mtf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// slantedEdge builds a synthetic Gaussian-blurred slanted edge: dark on the
// left, bright on the right, edge line x = x0 + slope*y, blur sigma in pixels.
func slantedEdge(rows, cols int, x0, slope, sigma float64) *mat.Dense {
	img := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		edge := x0 + slope*float64(y)
		for x := 0; x < cols; x++ {
			d := (float64(x) - edge) / (sigma * math.Sqrt2)
			img.Set(y, x, 0.5*(1+math.Erf(d)))
		}
	}
	return img
}

func curveFor(t *testing.T, img *mat.Dense) *Curve {
	t.Helper()
	c, err := CalculateCurve(img)
	if err != nil {
		t.Fatalf("CalculateCurve: %v", err)
	}
	return c
}

func valueAt(t *testing.T, c *Curve, f float64) float64 {
	t.Helper()
	v, err := c.ValueAt(f)
	if err != nil {
		t.Fatalf("ValueAt(%g): %v", f, err)
	}
	return v
}

func TestCurveStartsAtUnity(t *testing.T) {
	c := curveFor(t, slantedEdge(64, 64, 30, 0.15, 0.6))
	if v := valueAt(t, c, 0); math.Abs(v-1) > 1e-9 {
		t.Errorf("MTF(0) = %v, want 1", v)
	}
}

func TestContrastFallsWithFrequency(t *testing.T) {
	c := curveFor(t, slantedEdge(64, 64, 30, 0.15, 0.8))
	low := valueAt(t, c, 0.1)
	high := valueAt(t, c, 0.6)
	if low <= high {
		t.Errorf("MTF(0.1) = %v should exceed MTF(0.6) = %v", low, high)
	}
}

func TestSharperEdgeScoresHigher(t *testing.T) {
	sharp := curveFor(t, slantedEdge(64, 64, 30, 0.15, 0.3))
	soft := curveFor(t, slantedEdge(64, 64, 30, 0.15, 1.2))

	vs := valueAt(t, sharp, 0.5)
	vb := valueAt(t, soft, 0.5)
	if vs <= vb {
		t.Errorf("sharp MTF(0.5) = %v should exceed soft MTF(0.5) = %v", vs, vb)
	}
}

func TestKnownBlurHasExpectedResponse(t *testing.T) {
	// A Gaussian edge with sigma 0.42 px has an analytic MTF of roughly 0.42
	// at 0.5 cycles/px; the measured value sits a little lower because of
	// quarter-pixel binning and the derivative kernel.
	c := curveFor(t, slantedEdge(96, 96, 44, 0.12, 0.42))
	v := valueAt(t, c, 0.5)
	if v < 0.2 || v > 0.6 {
		t.Errorf("MTF(0.5) = %v, want within [0.2, 0.6]", v)
	}
}

func TestCalculateCurveIsDeterministic(t *testing.T) {
	img := slantedEdge(64, 64, 30, 0.2, 0.5)
	a := curveFor(t, img)
	b := curveFor(t, img)
	for _, f := range []float64{0.1, 0.25, 0.5, 0.75} {
		if va, vb := valueAt(t, a, f), valueAt(t, b, f); va != vb {
			t.Errorf("MTF(%g) differs across runs: %v vs %v", f, va, vb)
		}
	}
}

func TestFlatRegionFails(t *testing.T) {
	img := mat.NewDense(32, 32, nil)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(y, x, 0.5)
		}
	}
	if _, err := CalculateCurve(img); !errors.Is(err, ErrLowContrast) {
		t.Errorf("error = %v, want ErrLowContrast", err)
	}
}

func TestTinyRegionFails(t *testing.T) {
	img := mat.NewDense(4, 4, nil)
	if _, err := CalculateCurve(img); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("error = %v, want ErrImageTooSmall", err)
	}
}

func TestValueAtOutsideDomain(t *testing.T) {
	c := curveFor(t, slantedEdge(64, 64, 30, 0.15, 0.6))
	for _, f := range []float64{-0.1, 5.0} {
		if _, err := c.ValueAt(f); !errors.Is(err, ErrFrequencyOutOfRange) {
			t.Errorf("ValueAt(%g) error = %v, want ErrFrequencyOutOfRange", f, err)
		}
	}
}

func TestDomainCoversRequestableRange(t *testing.T) {
	c := curveFor(t, slantedEdge(64, 64, 30, 0.15, 0.6))
	lo, hi := c.Domain()
	if lo != 0 {
		t.Errorf("domain low = %v, want 0", lo)
	}
	if hi < 0.9 {
		t.Errorf("domain high = %v, want >= 0.9", hi)
	}
}
