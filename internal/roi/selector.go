// Package roi implements the interactive region-of-interest selection state
// machine. The machine is surface-agnostic: a display layer (ui/roiwindow)
// feeds it drag, confirm, view and close events, and tests can drive it with
// synthetic events directly.
package roi

import (
	"errors"

	"mtf-batch/pkg/geometry"
)

// ErrNoRoiSelected is returned when selection terminates without a confirmed
// rectangle, e.g. because the display surface was closed.
var ErrNoRoiSelected = errors.New("no ROI selected")

// State identifies the selection phase.
type State int

const (
	// StateIdle is the initial state before an image is displayed.
	StateIdle State = iota
	// StateDisplaying means the reference image is shown and no drag has
	// completed yet.
	StateDisplaying
	// StateSelecting means at least one drag has produced a candidate ROI.
	StateSelecting
	// StateConfirmed is terminal: the candidate became the final ROI.
	StateConfirmed
	// StateClosed is terminal: the surface went away without a confirmation.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDisplaying:
		return "displaying"
	case StateSelecting:
		return "selecting"
	case StateConfirmed:
		return "confirmed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Selector tracks one selection session. It is not safe for concurrent use;
// the display surface delivers events from a single UI goroutine.
type Selector struct {
	state State

	// Candidate rectangle. Corner order is the drag order, deliberately not
	// normalized (see geometry.ROI).
	candidate    geometry.ROI
	hasCandidate bool

	// Drag in progress.
	dragging               bool
	dragStartX, dragStartY int
	provisional            geometry.ROI

	// View bounds captured when the image was first displayed, restored by
	// ResetView. Pan/zoom never touches selection state.
	homeView geometry.Rect
	view     geometry.Rect
}

// NewSelector creates a selector in the idle state.
func NewSelector() *Selector {
	return &Selector{state: StateIdle}
}

// State returns the current selection phase.
func (s *Selector) State() State {
	return s.state
}

// Display enters the displaying state and captures the initial view bounds
// for later reset.
func (s *Selector) Display(view geometry.Rect) {
	if s.terminal() {
		return
	}
	s.state = StateDisplaying
	s.homeView = view
	s.view = view
}

// DragStart begins a provisional rectangle at the given image coordinates.
func (s *Selector) DragStart(x, y int) {
	if s.terminal() || s.state == StateIdle {
		return
	}
	s.dragging = true
	s.dragStartX = x
	s.dragStartY = y
	s.provisional = geometry.NewROI(x, y, x, y)
}

// DragUpdate extends the in-progress provisional rectangle. Ignored when no
// drag is active.
func (s *Selector) DragUpdate(x, y int) {
	if !s.dragging || s.terminal() {
		return
	}
	s.provisional = geometry.NewROI(s.dragStartX, s.dragStartY, x, y)
}

// DragEnd completes the drag and commits the provisional rectangle as the
// candidate ROI, replacing any previous candidate.
func (s *Selector) DragEnd(x, y int) {
	if !s.dragging || s.terminal() {
		return
	}
	s.dragging = false
	s.candidate = geometry.NewROI(s.dragStartX, s.dragStartY, x, y)
	s.hasCandidate = true
	s.state = StateSelecting
}

// Candidate returns the current candidate ROI, if any.
func (s *Selector) Candidate() (geometry.ROI, bool) {
	return s.candidate, s.hasCandidate
}

// Provisional returns the rectangle of an in-progress drag. The display
// surface renders the rubber band from this, so what the operator sees is
// exactly what DragEnd will commit.
func (s *Selector) Provisional() (geometry.ROI, bool) {
	return s.provisional, s.dragging
}

// SetView records a pan/zoom adjustment. Purely a view change: selection state
// and candidate are untouched.
func (s *Selector) SetView(view geometry.Rect) {
	if s.terminal() {
		return
	}
	s.view = view
}

// ResetView restores the view bounds captured by Display. It never alters the
// candidate ROI and is ignored in terminal states.
func (s *Selector) ResetView() {
	if s.terminal() {
		return
	}
	s.view = s.homeView
}

// View returns the current view bounds.
func (s *Selector) View() geometry.Rect {
	return s.view
}

// Confirm finalizes the candidate ROI. With no candidate it is a no-op that
// returns false so the surface can tell the operator "no selection yet";
// the state is left unchanged. With a candidate it transitions to the
// terminal confirmed state and returns true, after which all further events
// are ignored.
func (s *Selector) Confirm() bool {
	if s.terminal() || !s.hasCandidate {
		return false
	}
	s.dragging = false
	s.state = StateConfirmed
	return true
}

// Close records that the surface was torn down. If no ROI was confirmed the
// session ends in failure and Result reports ErrNoRoiSelected.
func (s *Selector) Close() {
	if s.terminal() {
		return
	}
	s.state = StateClosed
}

// Result returns the final ROI after the session has terminated. A session
// that ended without confirmation yields ErrNoRoiSelected.
func (s *Selector) Result() (geometry.ROI, error) {
	if s.state != StateConfirmed {
		return geometry.ROI{}, ErrNoRoiSelected
	}
	return s.candidate, nil
}

func (s *Selector) terminal() bool {
	return s.state == StateConfirmed || s.state == StateClosed
}
