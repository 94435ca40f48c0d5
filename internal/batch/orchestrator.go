package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"mtf-batch/internal/discovery"
	"mtf-batch/internal/imageio"
	"mtf-batch/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrReferenceDecode is returned when the first discovered image, used for
// ROI selection, cannot be decoded. Unlike per-item decode failures this is
// fatal: without a reference image there is nothing to select an ROI on.
var ErrReferenceDecode = errors.New("failed to decode reference image")

// RoiPicker obtains one confirmed region of interest from the operator,
// blocking until selection completes or is abandoned.
type RoiPicker interface {
	Pick(ref *mat.Dense) (geometry.ROI, error)
}

// MetricEvaluator produces an optional scalar metric for one image.
type MetricEvaluator interface {
	Evaluate(path string, roi geometry.ROI, frequency float64) (float64, bool)
}

// Result is the ordered path-to-value mapping of successful evaluations.
// Paths preserves discovery (sorted) order; failed items are simply absent.
type Result struct {
	Paths  []string
	Values map[string]float64
}

// Len returns the number of successful evaluations.
func (r *Result) Len() int {
	return len(r.Paths)
}

func (r *Result) add(path string, value float64) {
	r.Paths = append(r.Paths, path)
	r.Values[path] = value
}

// Orchestrator composes discovery, ROI selection and per-image evaluation
// into one batch run.
type Orchestrator struct {
	// Discover enumerates candidate image paths.
	Discover func(rootDir string, maxDepth int) ([]string, error)
	// Load decodes the reference image for ROI selection.
	Load func(path string) (*mat.Dense, error)
	// Picker supplies the single ROI shared by the whole run.
	Picker RoiPicker
	// Evaluator computes the per-image metric.
	Evaluator MetricEvaluator
	// MaxDepth bounds discovery depth in path segments beyond the root.
	MaxDepth int
	// Report receives the human-readable per-image observation lines.
	Report io.Writer
}

// NewOrchestrator returns an orchestrator wired to the real collaborators,
// reporting to stdout.
func NewOrchestrator(picker RoiPicker) *Orchestrator {
	return &Orchestrator{
		Discover:  discovery.Discover,
		Load:      imageio.Load,
		Picker:    picker,
		Evaluator: NewEvaluator(),
		MaxDepth:  discovery.DefaultMaxDepth,
		Report:    os.Stdout,
	}
}

// Run discovers images under rootDir, obtains one ROI on the first image,
// then evaluates every image at the given frequency. Only discovery and ROI
// selection failures abort the run; per-item failures leave gaps in the
// result. The context is checked between items, so a cancelled run returns
// the partial result alongside ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, rootDir string, frequency float64) (*Result, error) {
	paths, err := o.Discover(rootDir, o.MaxDepth)
	if err != nil {
		return nil, err
	}

	ref, err := o.Load(paths[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReferenceDecode, paths[0], err)
	}

	roi, err := o.Picker.Pick(ref)
	if err != nil {
		return nil, err
	}

	result := &Result{Values: make(map[string]float64)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		value, ok := o.Evaluator.Evaluate(path, roi, frequency)
		if !ok {
			continue
		}
		result.add(path, value)
		fmt.Fprintf(o.Report, "MTF value for %s at frequency %.3f: %.1f%%\n", path, frequency, 100*value)
	}
	return result, nil
}
