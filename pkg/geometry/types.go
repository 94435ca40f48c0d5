// Package geometry provides basic geometric types used throughout the application.
package geometry

// ROI is a rectangular region of interest in image-pixel space, stored as the
// two drag corners (X1,Y1) and (X2,Y2). The corners keep the order the drag
// produced them in: a right-to-left or bottom-to-top drag yields X1 >= X2 or
// Y1 >= Y2 and the ROI is invalid. Callers reject invalid ROIs before cropping
// instead of silently normalizing them.
type ROI struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NewROI creates an ROI from two corners, preserving corner order.
func NewROI(x1, y1, x2, y2 int) ROI {
	return ROI{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Valid reports whether the ROI spans a positive area with its corners in
// canonical order (X1 < X2 and Y1 < Y2).
func (r ROI) Valid() bool {
	return r.X1 < r.X2 && r.Y1 < r.Y2
}

// Width returns X2 - X1. Negative for reversed drags.
func (r ROI) Width() int {
	return r.X2 - r.X1
}

// Height returns Y2 - Y1. Negative for reversed drags.
func (r ROI) Height() int {
	return r.Y2 - r.Y1
}

// Rect represents a rectangle with floating-point coordinates, used for view
// bounds on the display surface.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}
