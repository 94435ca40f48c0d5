// Package main provides the entry point for the batch MTF analyzer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"mtf-batch/internal/batch"
	"mtf-batch/internal/version"
	"mtf-batch/ui/roiwindow"

	"fyne.io/fyne/v2/app"
)

const appTitle = "MTF Batch Analyzer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dir := flag.String("dir", "", "Directory to scan for images")
	frequency := flag.Float64("frequency", 0.5, "Spatial frequency to evaluate, in cycles/pixel")
	debug := flag.Bool("debug", false, "Log why skipped images failed")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Usage: mtf-batch -dir <path> [-frequency 0.5] [-debug]")
		os.Exit(1)
	}

	log.Printf("Starting %s %s", appTitle, version.String())

	fyneApp := app.New()
	orch := batch.NewOrchestrator(roiwindow.NewPicker(fyneApp))

	eval := batch.NewEvaluator()
	eval.Debug = *debug
	orch.Evaluator = eval

	result, err := orch.Run(context.Background(), *dir, *frequency)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	fmt.Printf("\nProcessed %d image(s) successfully.\n", result.Len())
}
