// Package imageio loads image files as normalized grayscale intensity
// matrices and converts them back for display.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"mtf-batch/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	_ "golang.org/x/image/tiff"
)

// Load reads the image at path and returns it as a dense matrix of intensity
// values in [0,1], one row per pixel row. OpenCV handles the decode; if it
// cannot read the file the pure Go decoder is tried so the loader keeps
// working across gocv versions and build configurations.
func Load(path string) (*mat.Dense, error) {
	m := gocv.IMRead(path, gocv.IMReadGrayScale)
	if m.Empty() {
		return loadPureGo(path)
	}
	defer m.Close()

	rows, cols := m.Rows(), m.Cols()
	data := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			data[y*cols+x] = float64(m.GetUCharAt(y, x)) / 255.0
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// loadPureGo decodes via the standard library image codecs (plus TIFF) and
// converts to grayscale intensity.
func loadPureGo(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image to a normalized grayscale matrix.
func FromImage(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	data := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			data[y*cols+x] = float64(g.Y) / 255.0
		}
	}
	return mat.NewDense(rows, cols, data)
}

// ToGray renders an intensity matrix as an 8-bit grayscale image with a fixed
// [0,1] intensity range, for the display surface.
func ToGray(m *mat.Dense) *image.Gray {
	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := m.At(y, x)
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// Crop extracts roi from m using slice semantics: coordinates are clamped to
// the matrix bounds and a crop that ends up empty along either axis (invalid
// corner order included) reports ok=false. The returned matrix shares no
// storage with the input.
func Crop(m *mat.Dense, roi geometry.ROI) (*mat.Dense, bool) {
	rows, cols := m.Dims()

	x1, y1, x2, y2 := roi.X1, roi.Y1, roi.X2, roi.Y2
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > cols {
		x2 = cols
	}
	if y2 > rows {
		y2 = rows
	}
	if x2-x1 <= 0 || y2-y1 <= 0 {
		return nil, false
	}

	out := mat.NewDense(y2-y1, x2-x1, nil)
	out.Copy(m.Slice(y1, y2, x1, x2))
	return out, true
}

// SupportedFormats returns the file extensions the batch pipeline discovers
// and decodes.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// IsSupportedFormat reports whether path carries a supported extension. The
// comparison does not fold case; filesystems that fold it do so before the
// name reaches us. Discovery filters with this, so decode support and scan
// results cannot drift apart.
func IsSupportedFormat(path string) bool {
	ext := filepath.Ext(path)
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
