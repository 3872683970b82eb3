// Command ecgdigitize converts a scanned ECG page image, plus a JSON
// annotation file describing its lead layout, into a tab-separated
// signal export.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/debug"
	"ecgdigitize/internal/export"
	"ecgdigitize/internal/pipeline"
)

func main() {
	imagePath := flag.String("image", "", "path to the scanned ECG page image")
	annotationPath := flag.String("annotation", "", "path to the lead-annotation JSON file")
	outputPath := flag.String("output", "signals.tsv", "path to write the digitized signal export")
	previewDir := flag.String("preview-dir", "", "directory to write per-lead preview overlays into (optional)")
	debugDir := flag.String("debug-dir", "", "directory to write diagnostic plots into (optional)")
	debugMode := flag.Bool("debug", false, "enable verbose debug logging")
	flag.Parse()

	logger := initLogger(*debugMode)

	if *imagePath == "" || *annotationPath == "" {
		logger.Error("both -image and -annotation are required")
		flag.Usage()
		os.Exit(2)
	}

	logger.Info("starting digitization", "image", *imagePath, "annotation", *annotationPath, "debug", *debugMode)

	if err := run(*imagePath, *annotationPath, *outputPath, *previewDir, *debugDir, *debugMode, logger); err != nil {
		logger.Error("digitization failed", "error", err)
		os.Exit(1)
	}

	logger.Info("digitization complete", "output", *outputPath)
}

func run(imagePath, annotationPath, outputPath, previewDir, debugDir string, debugMode bool, logger *slog.Logger) error {
	annotationFile, err := os.Open(annotationPath)
	if err != nil {
		return fmt.Errorf("opening annotation file: %w", err)
	}
	defer annotationFile.Close()

	params, err := export.ReadAnnotation(annotationFile)
	if err != nil {
		return fmt.Errorf("parsing annotation file: %w", err)
	}

	mat := gocv.IMRead(imagePath, gocv.IMReadColor)
	if mat.Empty() {
		return fmt.Errorf("failed to read image at %s", imagePath)
	}
	defer mat.Close()

	image, err := core.NewColorImage(mat)
	if err != nil {
		return fmt.Errorf("wrapping source image: %w", err)
	}

	pipelineLogger := logrus.New()
	if debugMode {
		pipelineLogger.SetLevel(logrus.DebugLevel)
	}

	results, err := pipeline.Digitize(image, params, pipelineLogger)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	signals := make(map[core.LeadId]core.Signal, len(results))
	for id, r := range results {
		if r.Err != nil {
			logger.Warn("lead digitization failed", "lead", id.String(), "error", r.Err)
			continue
		}
		signals[id] = r.Signal
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	if err := export.WriteTSV(outFile, signals); err != nil {
		return fmt.Errorf("writing signal export: %w", err)
	}

	if previewDir != "" {
		if err := writePreviews(previewDir, results, logger); err != nil {
			return fmt.Errorf("writing previews: %w", err)
		}
	}

	if debugDir != "" {
		if err := debug.WriteGridDiagnostics(debugDir, results); err != nil {
			logger.Warn("failed to write debug diagnostics", "error", err)
		}
	}

	for _, r := range results {
		r.CroppedImage.Close()
		r.Mask.Close()
	}

	return nil
}

// writePreviews renders, for each successfully digitized lead, its own
// cropped region with the pre-alignment, pre-scaling extracted signal
// overlaid (spec.md §4.9 step 9) — not the full page, and not the
// final scaled/padded signal.
func writePreviews(dir string, results map[core.LeadId]pipeline.Result, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for id, r := range results {
		if r.Err != nil || r.Mask.Mat.Empty() {
			continue
		}
		overlay, err := pipeline.OverlaySignal(r.CroppedImage, r.RawSignal)
		if err != nil {
			logger.Warn("failed to render preview", "lead", id.String(), "error", err)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("lead-%s.png", id.String()))
		if ok := gocv.IMWrite(path, overlay.Mat); !ok {
			logger.Warn("failed to write preview image", "lead", id.String(), "path", path)
		}
		overlay.Close()
	}
	return nil
}

func initLogger(debugMode bool) *slog.Logger {
	var handler slog.Handler
	if debugMode {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}
