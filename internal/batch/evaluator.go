// Package batch runs the MTF measurement over every discovered image with a
// single shared region of interest.
package batch

import (
	"errors"
	"log"

	"mtf-batch/internal/imageio"
	"mtf-batch/internal/mtf"
	"mtf-batch/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// errEmptyCrop is the diagnostic cause for crops that select no pixels, where
// imageio.Crop reports failure without an error value.
var errEmptyCrop = errors.New("selection contains no pixels")

// failureStage records which stage of an evaluation failed. Stages are kept
// internally for diagnostics even though the public contract only reports
// presence or absence.
type failureStage int

const (
	stageNone failureStage = iota
	stageDecode
	stageCrop
	stageCurve
	stageEvaluate
)

func (s failureStage) String() string {
	switch s {
	case stageDecode:
		return "decode"
	case stageCrop:
		return "crop"
	case stageCurve:
		return "curve computation"
	case stageEvaluate:
		return "curve evaluation"
	default:
		return "none"
	}
}

// Evaluator computes the MTF value of one image at one frequency. Every
// internal failure (decode, empty crop, curve computation, curve evaluation)
// degrades to an absent result so a batch run can continue past bad samples.
type Evaluator struct {
	// Load decodes a path into a normalized intensity matrix.
	Load func(path string) (*mat.Dense, error)
	// Calculate computes the MTF curve of a cropped region.
	Calculate func(img *mat.Dense) (*mtf.Curve, error)
	// Debug logs the stage and cause of skipped items.
	Debug bool
}

// NewEvaluator returns an evaluator wired to the real decode and MTF engine.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Load:      imageio.Load,
		Calculate: mtf.CalculateCurve,
	}
}

// Evaluate returns the MTF value for path cropped to roi at the given
// frequency, or ok=false when any stage fails. It never returns an error;
// a failure in one image must not stop the rest of the batch.
func (e *Evaluator) Evaluate(path string, roi geometry.ROI, frequency float64) (value float64, ok bool) {
	value, stage, err := e.evaluate(path, roi, frequency)
	if stage != stageNone {
		if e.Debug {
			log.Printf("skipping %s: %s failed: %v", path, stage, err)
		}
		return 0, false
	}
	return value, true
}

// evaluate runs the decode -> crop -> curve -> evaluate chain and reports the
// first failing stage.
func (e *Evaluator) evaluate(path string, roi geometry.ROI, frequency float64) (float64, failureStage, error) {
	img, err := e.Load(path)
	if err != nil {
		return 0, stageDecode, err
	}

	cropped, ok := imageio.Crop(img, roi)
	if !ok {
		return 0, stageCrop, errEmptyCrop
	}

	curve, err := e.Calculate(cropped)
	if err != nil {
		return 0, stageCurve, err
	}

	value, err := curve.ValueAt(frequency)
	if err != nil {
		return 0, stageEvaluate, err
	}
	return value, stageNone, nil
}
