// Command mtfval evaluates the MTF of a single image at one frequency,
// without the interactive batch pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mtf-batch/internal/imageio"
	"mtf-batch/internal/mtf"
	"mtf-batch/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (PNG, JPEG, or TIFF)")
	roiFlag := flag.String("roi", "", "Region of interest as x1,y1,x2,y2 (default: whole image)")
	frequency := flag.Float64("frequency", 0.5, "Spatial frequency in cycles/pixel")
	printCurve := flag.Bool("curve", false, "Print the sampled MTF curve")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: mtfval -image <path> [-roi x1,y1,x2,y2] [-frequency 0.5] [-curve]")
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	rows, cols := img.Dims()
	fmt.Printf("Loaded image: %dx%d pixels\n", cols, rows)

	region := geometry.NewROI(0, 0, cols, rows)
	if *roiFlag != "" {
		region, err = parseROI(*roiFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -roi: %v\n", err)
			os.Exit(1)
		}
	}

	cropped, ok := imageio.Crop(img, region)
	if !ok {
		fmt.Fprintf(os.Stderr, "ROI (%d,%d)-(%d,%d) selects no pixels\n",
			region.X1, region.Y1, region.X2, region.Y2)
		os.Exit(1)
	}

	curve, err := mtf.CalculateCurve(cropped)
	if err != nil {
		fmt.Fprintf(os.Stderr, "MTF computation failed: %v\n", err)
		os.Exit(1)
	}

	value, err := curve.ValueAt(*frequency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "MTF evaluation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("MTF value for %s at frequency %.3f: %.1f%%\n", *imagePath, *frequency, 100*value)

	if *printCurve {
		freqs, values := curve.Samples()
		fmt.Printf("\n%-12s %-8s\n", "Frequency", "MTF")
		for i := range freqs {
			fmt.Printf("%-12.4f %-8.4f\n", freqs[i], values[i])
		}
	}
}

// parseROI parses "x1,y1,x2,y2" into an ROI, preserving corner order.
func parseROI(s string) (geometry.ROI, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.ROI{}, fmt.Errorf("want 4 comma-separated integers, got %d", len(parts))
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.ROI{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		vals[i] = v
	}
	r := geometry.NewROI(vals[0], vals[1], vals[2], vals[3])
	if !r.Valid() {
		return geometry.ROI{}, fmt.Errorf("corners must satisfy x1 < x2 and y1 < y2")
	}
	return r, nil
}
