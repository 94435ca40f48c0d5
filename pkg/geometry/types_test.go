package geometry

import "testing"

func TestROIPreservesCornerOrder(t *testing.T) {
	tests := []struct {
		name          string
		roi           ROI
		valid         bool
		width, height int
	}{
		{"canonical", NewROI(10, 20, 110, 120), true, 100, 100},
		{"reversed x", NewROI(110, 20, 10, 120), false, -100, 100},
		{"reversed y", NewROI(10, 120, 110, 20), false, 100, -100},
		{"fully reversed", NewROI(110, 120, 10, 20), false, -100, -100},
		{"zero width", NewROI(10, 20, 10, 120), false, 0, 100},
		{"zero height", NewROI(10, 20, 110, 20), false, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.roi.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.roi.Width(); got != tt.width {
				t.Errorf("Width() = %d, want %d", got, tt.width)
			}
			if got := tt.roi.Height(); got != tt.height {
				t.Errorf("Height() = %d, want %d", got, tt.height)
			}
		})
	}
}

func TestNewRect(t *testing.T) {
	r := NewRect(1.5, 2.5, 640, 480)
	want := Rect{X: 1.5, Y: 2.5, Width: 640, Height: 480}
	if r != want {
		t.Errorf("NewRect = %+v, want %+v", r, want)
	}
}
