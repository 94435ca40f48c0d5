package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mtf-batch/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// writeGradientPNG writes a horizontal gradient test image and returns its path.
func writeGradientPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	path := filepath.Join(t.TempDir(), "gradient.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadNormalizesToUnitRange(t *testing.T) {
	path := writeGradientPNG(t, 32, 8)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rows, cols := m.Dims()
	if rows != 8 || cols != 32 {
		t.Fatalf("dims = %dx%d, want 8x32", rows, cols)
	}
	if v := m.At(0, 0); v != 0 {
		t.Errorf("left edge = %v, want 0", v)
	}
	if v := m.At(0, 31); v != 1 {
		t.Errorf("right edge = %v, want 1", v)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCropClampsAndRejectsEmpty(t *testing.T) {
	m := mat.NewDense(10, 20, nil)
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			m.Set(y, x, float64(y*20+x))
		}
	}

	tests := []struct {
		name       string
		roi        geometry.ROI
		ok         bool
		rows, cols int
	}{
		{"inside", geometry.NewROI(2, 1, 6, 4), true, 3, 4},
		{"overhang clamped", geometry.NewROI(15, 5, 40, 40), true, 5, 5},
		{"fully outside", geometry.NewROI(100, 100, 200, 200), false, 0, 0},
		{"reversed corners", geometry.NewROI(6, 4, 2, 1), false, 0, 0},
		{"zero width", geometry.NewROI(3, 1, 3, 5), false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Crop(m, tt.roi)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			r, c := out.Dims()
			if r != tt.rows || c != tt.cols {
				t.Errorf("dims = %dx%d, want %dx%d", r, c, tt.rows, tt.cols)
			}
		})
	}
}

func TestCropCopiesValues(t *testing.T) {
	m := mat.NewDense(4, 4, nil)
	m.Set(2, 3, 0.5)

	out, ok := Crop(m, geometry.NewROI(2, 1, 4, 4))
	if !ok {
		t.Fatal("crop failed")
	}
	// array[1:4, 2:4] puts source (2,3) at (1,1).
	if v := out.At(1, 1); v != 0.5 {
		t.Errorf("cropped value = %v, want 0.5", v)
	}

	// Mutating the crop must not touch the source.
	out.Set(0, 0, 9)
	if v := m.At(1, 2); v != 0 {
		t.Errorf("source mutated: %v", v)
	}
}

func TestToGrayRoundTrip(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 0.5, 1, 1.5})
	img := ToGray(m)

	if got := img.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("(0,0) = %d, want 0", got)
	}
	if got := img.GrayAt(1, 0).Y; got != 128 {
		t.Errorf("(1,0) = %d, want 128", got)
	}
	if got := img.GrayAt(0, 1).Y; got != 255 {
		t.Errorf("(0,1) = %d, want 255", got)
	}
	// Values above the fixed display range clamp.
	if got := img.GrayAt(1, 1).Y; got != 255 {
		t.Errorf("(1,1) = %d, want 255", got)
	}
}

func TestIsSupportedFormatMatchesExactCase(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.jpeg", "c.png", "dir/nested.png"} {
		if !IsSupportedFormat(p) {
			t.Errorf("IsSupportedFormat(%q) = false", p)
		}
	}
	// The scan contract is case-sensitive, so upper-case variants and
	// unrelated extensions are both rejected.
	for _, p := range []string{"D.PNG", "e.Jpg", "notes.txt", "noext"} {
		if IsSupportedFormat(p) {
			t.Errorf("IsSupportedFormat(%q) = true", p)
		}
	}
}
