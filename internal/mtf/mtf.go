// Package mtf computes the modulation transfer function of a cropped
// slanted-edge target. The pipeline follows the standard slanted-edge method:
// locate the edge to sub-pixel accuracy on every scan row, fit a straight
// edge line, project all pixels onto the edge normal to build an oversampled
// edge spread function, differentiate into a line spread function, and take
// the windowed spectrum magnitude.
package mtf

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrImageTooSmall is returned for crops too small to carry an edge.
	ErrImageTooSmall = errors.New("image region too small for MTF analysis")
	// ErrLowContrast is returned when the region has no usable edge contrast.
	ErrLowContrast = errors.New("insufficient edge contrast")
	// ErrEdgeNotFound is returned when no consistent edge line can be fit.
	ErrEdgeNotFound = errors.New("no slanted edge found in region")
)

const (
	// minDim is the smallest crop dimension the projection can work with.
	minDim = 8
	// oversample is the ESF bin density in bins per pixel. Quarter-pixel
	// binning is the conventional choice for slanted-edge analysis.
	oversample = 4
	// contrastFloor is the minimum intensity span treated as a real edge.
	contrastFloor = 0.05
	// maxFrequency bounds the reported curve at the original sampling
	// Nyquist-and-a-bit; frequencies beyond carry no usable signal.
	maxFrequency = 1.0
)

// CalculateCurve computes the MTF curve for a cropped intensity region
// containing a single near-vertical slanted edge. Input values are expected
// in [0,1] but any range works; the region is re-normalized internally.
func CalculateCurve(img *mat.Dense) (*Curve, error) {
	rows, cols := img.Dims()
	if rows < minDim || cols < minDim {
		return nil, ErrImageTooSmall
	}

	work, err := normalize(img)
	if err != nil {
		return nil, err
	}

	alpha, beta, err := fitEdge(work)
	if err != nil {
		return nil, err
	}

	esf, err := projectESF(work, alpha, beta)
	if err != nil {
		return nil, err
	}

	lsf := differentiate(esf)
	applyWindow(lsf)

	return spectrum(lsf)
}

// normalize rescales the region to span [0,1], rejecting flat regions.
func normalize(img *mat.Dense) (*mat.Dense, error) {
	lo := mat.Min(img)
	hi := mat.Max(img)
	if hi-lo < contrastFloor {
		return nil, ErrLowContrast
	}

	rows, cols := img.Dims()
	out := mat.NewDense(rows, cols, nil)
	span := hi - lo
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.Set(y, x, (img.At(y, x)-lo)/span)
		}
	}
	return out, nil
}

// fitEdge locates the edge on each row as the centroid of the squared
// horizontal gradient, then fits the line x = alpha + beta*y through the
// per-row positions.
func fitEdge(img *mat.Dense) (alpha, beta float64, err error) {
	rows, cols := img.Dims()

	var xs, ys []float64
	for y := 0; y < rows; y++ {
		var sumW, sumWX float64
		for x := 0; x < cols-1; x++ {
			g := img.At(y, x+1) - img.At(y, x)
			w := g * g
			sumW += w
			sumWX += w * (float64(x) + 0.5)
		}
		if sumW < 1e-12 {
			continue
		}
		xs = append(xs, sumWX/sumW)
		ys = append(ys, float64(y))
	}
	if len(xs) < 2 {
		return 0, 0, ErrEdgeNotFound
	}

	alpha, beta = stat.LinearRegression(ys, xs, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return 0, 0, ErrEdgeNotFound
	}
	return alpha, beta, nil
}

// projectESF bins every pixel by its signed distance to the edge line,
// producing the oversampled edge spread function. Empty interior bins are
// filled by linear interpolation from their neighbors.
func projectESF(img *mat.Dense, alpha, beta float64) ([]float64, error) {
	rows, cols := img.Dims()
	norm := math.Sqrt(1 + beta*beta)

	dMin, dMax := math.Inf(1), math.Inf(-1)
	dist := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		edgeX := alpha + beta*float64(y)
		for x := 0; x < cols; x++ {
			d := (float64(x) - edgeX) / norm
			dist[y*cols+x] = d
			if d < dMin {
				dMin = d
			}
			if d > dMax {
				dMax = d
			}
		}
	}

	nbins := int((dMax-dMin)*oversample) + 1
	if nbins < 2*minDim {
		return nil, ErrEdgeNotFound
	}

	sums := make([]float64, nbins)
	counts := make([]float64, nbins)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			bin := int((dist[y*cols+x] - dMin) * oversample)
			if bin < 0 {
				bin = 0
			}
			if bin >= nbins {
				bin = nbins - 1
			}
			sums[bin] += img.At(y, x)
			counts[bin]++
		}
	}

	esf := make([]float64, nbins)
	for i := range esf {
		if counts[i] > 0 {
			esf[i] = sums[i] / counts[i]
		} else {
			esf[i] = math.NaN()
		}
	}
	fillGaps(esf)

	return trimNaN(esf), nil
}

// fillGaps replaces interior NaN runs with linear interpolation between the
// nearest populated bins. Leading and trailing NaNs are left for trimNaN.
func fillGaps(esf []float64) {
	prev := -1
	for i := range esf {
		if math.IsNaN(esf[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (esf[i] - esf[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				esf[j] = esf[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
}

// trimNaN drops unpopulated bins at either end.
func trimNaN(esf []float64) []float64 {
	lo := 0
	for lo < len(esf) && math.IsNaN(esf[lo]) {
		lo++
	}
	hi := len(esf)
	for hi > lo && math.IsNaN(esf[hi-1]) {
		hi--
	}
	return esf[lo:hi]
}

// differentiate turns the ESF into the line spread function using centered
// differences.
func differentiate(esf []float64) []float64 {
	if len(esf) < 3 {
		return nil
	}
	lsf := make([]float64, len(esf)-2)
	for i := range lsf {
		lsf[i] = (esf[i+2] - esf[i]) / 2
	}
	return lsf
}

// applyWindow tapers the LSF with a Hamming window centered on its peak,
// suppressing spectral leakage from noise far away from the edge.
func applyWindow(lsf []float64) {
	if len(lsf) == 0 {
		return
	}
	peak := 0
	for i, v := range lsf {
		if math.Abs(v) > math.Abs(lsf[peak]) {
			peak = i
		}
	}
	n := float64(len(lsf))
	for i := range lsf {
		x := (float64(i) - float64(peak)) / n
		if x < -0.5 || x > 0.5 {
			lsf[i] *= 0.08
			continue
		}
		lsf[i] *= 0.54 + 0.46*math.Cos(2*math.Pi*x)
	}
}

// spectrum computes the DC-normalized magnitude spectrum of the LSF and
// converts bin indices to cycles per pixel.
func spectrum(lsf []float64) (*Curve, error) {
	if len(lsf) < minDim {
		return nil, ErrEdgeNotFound
	}

	fft := fourier.NewFFT(len(lsf))
	coeffs := fft.Coefficients(nil, lsf)

	dc := cmplx.Abs(coeffs[0])
	if dc < 1e-9 {
		return nil, ErrLowContrast
	}

	var freqs, values []float64
	for i, c := range coeffs {
		// Bin spacing is 1/oversample pixels, so cycles per sample
		// convert to cycles per pixel by the oversample factor.
		f := fft.Freq(i) * oversample
		if f > maxFrequency {
			break
		}
		freqs = append(freqs, f)
		values = append(values, cmplx.Abs(c)/dc)
	}
	if len(freqs) < 2 || floats.HasNaN(values) {
		return nil, ErrEdgeNotFound
	}

	return newCurve(freqs, values)
}
