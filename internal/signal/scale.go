package signal

import (
	"math"

	"ecgdigitize/internal/core"
)

// gridSizeMillimeters is the printed grid pitch: ECG paper is ruled in
// 1mm squares, with a heavier line every 5mm.
const gridSizeMillimeters = 1.0

// ZeroCenter subtracts the signal's modal value, fixing the paper's
// baseline drift onto zero.
func ZeroCenter(s core.Signal) core.Signal {
	zeroPoint := s.Mode()
	out := make(core.Signal, len(s))
	for i, v := range s {
		out[i] = v - zeroPoint
	}
	return out
}

// ToMicrovolts rescales a pixel-space signal to microvolts, given the
// grid period in pixels and the page's millimeters-per-millivolt calibration
// (spec.md §4.8). Pixel rows increase downward, so the sign is flipped.
func ToMicrovolts(s core.Signal, gridSizeInPixels, millimetersPerMillivolt float64) core.Signal {
	gridsPerPixel := 1 / gridSizeInPixels
	millivoltsPerMillimeter := 1 / millimetersPerMillivolt
	const microvoltsPerMillivolt = 1000.0

	microvoltsPerPixel := gridsPerPixel * gridSizeMillimeters * millivoltsPerMillimeter * microvoltsPerMillivolt

	out := make(core.Signal, len(s))
	for i, v := range s {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = v * microvoltsPerPixel * -1
	}
	return out
}

// SamplingPeriod returns the time, in seconds, spanned by one pixel
// column, given the grid period in pixels and the page's
// millimeters-per-second sweep speed.
func SamplingPeriod(gridSizeInPixels, millimetersPerSecond float64) float64 {
	gridsPerPixel := 1 / gridSizeInPixels
	secondsPerMillimeter := 1 / millimetersPerSecond
	return gridsPerPixel * gridSizeMillimeters * secondsPerMillimeter
}
