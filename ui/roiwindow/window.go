// Package roiwindow provides the interactive window used to pick the region
// of interest on the reference image. It binds the display surface events to
// the selection state machine and blocks the calling flow until the operator
// confirms a rectangle or closes the window.
package roiwindow

import (
	"fmt"

	"mtf-batch/internal/imageio"
	"mtf-batch/internal/roi"
	"mtf-batch/pkg/geometry"
	"mtf-batch/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"gonum.org/v1/gonum/mat"
)

// Picker shows a selection window on demand. It satisfies batch.RoiPicker.
type Picker struct {
	app fyne.App
}

// NewPicker creates a picker bound to the given fyne application.
func NewPicker(app fyne.App) *Picker {
	return &Picker{app: app}
}

// Pick displays the reference image and runs the UI event loop until the
// operator confirms an ROI or closes the window. Closing without confirming
// yields roi.ErrNoRoiSelected. Selection happens exactly once per batch run,
// so the application event loop is owned by this call for its duration.
func (p *Picker) Pick(ref *mat.Dense) (geometry.ROI, error) {
	sel := roi.NewSelector()

	img := imageio.ToGray(ref)
	bounds := img.Bounds()

	ic := canvas.NewImageCanvas()
	ic.SetImage(img)
	sel.Display(geometry.NewRect(0, 0, float64(bounds.Dx()), float64(bounds.Dy())))

	status := widget.NewLabel("Zoom/pan the image, drag a rectangle, then confirm the ROI.")

	ic.OnDragStart(sel.DragStart)
	ic.OnDragUpdate(func(x, y int) {
		sel.DragUpdate(x, y)
		// The rubber band is the state machine's provisional rectangle, so
		// the outline shown is exactly what DragEnd will commit.
		if p, ok := sel.Provisional(); ok {
			ic.SetProvisional(p)
		}
	})
	ic.OnDragEnd(func(x, y int) {
		sel.DragEnd(x, y)
		ic.ClearProvisional()
		if c, ok := sel.Candidate(); ok {
			ic.SetCandidate(c)
			status.SetText(fmt.Sprintf("Candidate ROI: (%d, %d) - (%d, %d)", c.X1, c.Y1, c.X2, c.Y2))
		}
	})
	ic.OnZoomChange(func(float64) {
		sel.SetView(ic.View())
	})

	win := p.app.NewWindow("Select ROI")

	confirmBtn := widget.NewButton("Confirm ROI", func() {
		if sel.Confirm() {
			win.Close()
			return
		}
		status.SetText("No ROI selected yet.")
	})
	resetBtn := widget.NewButton("Reset Zoom", func() {
		sel.ResetView()
		ic.ResetView()
	})

	buttons := container.NewHBox(resetBtn, confirmBtn)
	bottom := container.NewVBox(status, buttons)
	win.SetContent(container.NewBorder(nil, bottom, nil, nil, ic.Container()))

	win.SetOnClosed(func() {
		sel.Close()
		p.app.Quit()
	})

	w := float32(bounds.Dx())
	h := float32(bounds.Dy()) + 100
	if w > 1200 {
		w = 1200
	}
	if h > 800 {
		h = 800
	}
	win.Resize(fyne.NewSize(w, h))
	win.Show()

	p.app.Run()

	return sel.Result()
}
