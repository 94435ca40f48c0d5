// Package canvas provides a grayscale image canvas with pan, zoom, and
// rubber-band region selection.
package canvas

import (
	"image"
	"image/color"

	"mtf-batch/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// ImageCanvas displays a single grayscale image with wheel zoom, scroll pan,
// and drag selection. Drag events are reported in image coordinates with the
// drag direction preserved; the canvas never normalizes corner order.
type ImageCanvas struct {
	widget.BaseWidget

	img *image.Gray

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Drag in progress. The rubber band is not tracked here: the selection
	// state machine pushes its provisional rectangle back for rendering, so
	// the outline the operator sees is the rectangle that will be committed.
	dragging bool
	lastDrag fyne.Position

	// Provisional rectangle of an in-progress drag (image coordinates)
	provisional    geometry.ROI
	hasProvisional bool

	// Committed candidate (image coordinates), outlined until replaced
	candidate    geometry.ROI
	hasCandidate bool

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Callbacks, all in image coordinates
	onDragStart  func(x, y int)
	onDragUpdate func(x, y int)
	onDragEnd    func(x, y int)
	onZoomChange func(zoom float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// SetOffset scrolls the viewport to the given offset.
func (zs *zoomScroll) SetOffset(pos fyne.Position) {
	zs.scroll.Offset = pos
	zs.scroll.Refresh()
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(ic *ImageCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{canvas: ic, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	ic := dc.canvas

	// ev.Position is relative to the viewport; add the scroll offset to get
	// the content position.
	scrollOffset := ic.scroll.Offset()
	pos := fyne.Position{
		X: ev.Position.X + scrollOffset.X,
		Y: ev.Position.Y + scrollOffset.Y,
	}

	if !ic.dragging {
		ic.dragging = true
		if ic.onDragStart != nil {
			x, y := ic.toImage(pos)
			ic.onDragStart(x, y)
		}
	}
	ic.lastDrag = pos
	if ic.onDragUpdate != nil {
		x, y := ic.toImage(pos)
		ic.onDragUpdate(x, y)
	}
	ic.Refresh()
}

func (dc *draggableContent) DragEnd() {
	ic := dc.canvas
	if !ic.dragging {
		return
	}
	ic.dragging = false
	if ic.onDragEnd != nil {
		x, y := ic.toImage(ic.lastDrag)
		ic.onDragEnd(x, y)
	}
	ic.Refresh()
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// NewImageCanvas creates a new image canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newDraggableContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.scroll)
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetImage sets the image to display.
func (ic *ImageCanvas) SetImage(img *image.Gray) {
	ic.img = img
	ic.updateContentSize()
}

// SetCandidate outlines the committed candidate region.
func (ic *ImageCanvas) SetCandidate(roi geometry.ROI) {
	ic.candidate = roi
	ic.hasCandidate = true
	ic.Refresh()
}

// ClearCandidate removes the candidate outline.
func (ic *ImageCanvas) ClearCandidate() {
	ic.hasCandidate = false
	ic.Refresh()
}

// SetProvisional outlines the in-progress drag rectangle.
func (ic *ImageCanvas) SetProvisional(roi geometry.ROI) {
	ic.provisional = roi
	ic.hasProvisional = true
	ic.Refresh()
}

// ClearProvisional removes the in-progress outline, after a drag commits or
// is abandoned.
func (ic *ImageCanvas) ClearProvisional() {
	ic.hasProvisional = false
	ic.Refresh()
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ic.zoom = zoom
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ic *ImageCanvas) GetZoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// ResetView restores the initial zoom and scrolls back to the origin. The
// selection is untouched: this is purely a view operation.
func (ic *ImageCanvas) ResetView() {
	ic.SetZoom(1.0)
	ic.scroll.SetOffset(fyne.NewPos(0, 0))
}

// View returns the current visible bounds in image coordinates.
func (ic *ImageCanvas) View() geometry.Rect {
	offset := ic.scroll.Offset()
	size := ic.scroll.Size()
	return geometry.NewRect(
		float64(offset.X)/ic.zoom,
		float64(offset.Y)/ic.zoom,
		float64(size.Width)/ic.zoom,
		float64(size.Height)/ic.zoom,
	)
}

// OnDragStart sets the callback for the start of a selection drag.
func (ic *ImageCanvas) OnDragStart(callback func(x, y int)) {
	ic.onDragStart = callback
}

// OnDragUpdate sets the callback for selection drag movement.
func (ic *ImageCanvas) OnDragUpdate(callback func(x, y int)) {
	ic.onDragUpdate = callback
}

// OnDragEnd sets the callback for the completion of a selection drag.
func (ic *ImageCanvas) OnDragEnd(callback func(x, y int)) {
	ic.onDragEnd = callback
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

// toImage converts canvas (zoomed) coordinates to image coordinates.
func (ic *ImageCanvas) toImage(pos fyne.Position) (int, int) {
	return int(float64(pos.X) / ic.zoom), int(float64(pos.Y) / ic.zoom)
}

// updateContentSize updates the content size based on image and zoom.
func (ic *ImageCanvas) updateContentSize() {
	if ic.img == nil {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		bounds := ic.img.Bounds()
		width := float32(float64(bounds.Dx()) * ic.zoom)
		height := float32(float64(bounds.Dy()) * ic.zoom)
		ic.imgSize = fyne.NewSize(width, height)
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Black background
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if ic.img != nil {
		srcBounds := ic.img.Bounds()
		for y := 0; y < h; y++ {
			srcY := int(float64(y) / ic.zoom)
			if srcY >= srcBounds.Dy() {
				break
			}
			for x := 0; x < w; x++ {
				srcX := int(float64(x) / ic.zoom)
				if srcX >= srcBounds.Dx() {
					break
				}
				g := ic.img.GrayAt(srcBounds.Min.X+srcX, srcBounds.Min.Y+srcY).Y
				i := output.PixOffset(x, y)
				output.Pix[i] = g
				output.Pix[i+1] = g
				output.Pix[i+2] = g
			}
		}
	}

	// Committed candidate, then the rubber band of an in-progress drag on top
	if ic.hasCandidate {
		ic.drawROI(output, ic.candidate, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	}
	if ic.hasProvisional {
		ic.drawROI(output, ic.provisional, color.RGBA{R: 255, G: 255, B: 0, A: 255})
	}

	return output
}

// drawROI outlines an ROI given in image coordinates, normalizing reversed
// corners for display only.
func (ic *ImageCanvas) drawROI(output *image.RGBA, r geometry.ROI, col color.RGBA) {
	x1, y1 := r.X1, r.Y1
	x2, y2 := r.X2, r.Y2
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	ic.drawDashedRect(output,
		int(float64(x1)*ic.zoom), int(float64(y1)*ic.zoom),
		int(float64(x2)*ic.zoom), int(float64(y2)*ic.zoom),
		col)
}

// drawDashedRect draws a dashed rectangle outline (alternate pixels).
func (ic *ImageCanvas) drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()

	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.Set(x, y1, col)
		}
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.Set(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x1, y, col)
		}
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x2, y, col)
		}
	}
}
