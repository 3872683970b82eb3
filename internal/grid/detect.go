// Package grid detects the millimeter grid printed on ECG paper and
// estimates its period in pixels.
package grid

import (
	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/vision"
)

// whitePointStrength and allDarkThreshold are the fixed parameters of
// the "all-dark pixels" detector (spec.md §4.3).
const (
	whitePointStrength = 1.0
	allDarkThreshold    = 230
)

// AllDarkPixels marks every pixel darker than allDarkThreshold after
// white-point normalization. Cheap, and keeps both grid and trace —
// acceptable because the frequency estimator works on projected sums.
func AllDarkPixels(color core.Image) (core.Image, error) {
	gray, err := core.ToGrayscale(color)
	if err != nil {
		return core.Image{}, err
	}
	defer gray.Close()

	adjusted, err := core.WhitePointAdjust(gray, whitePointStrength)
	if err != nil {
		return core.Image{}, err
	}
	defer adjusted.Close()

	threshold := allDarkThreshold
	return core.ToBinary(adjusted, &threshold, true)
}

// dilateCrossSize is the structuring-element size used to dilate the
// signal mask before subtracting it from the all-dark mask.
const dilateCrossSize = 5

// ThresholdMinusSignal isolates the grid by subtracting a dilated
// signal mask from the all-dark mask — used ahead of Hough-based
// rotation estimation, where trace pixels would otherwise masquerade
// as grid lines.
func ThresholdMinusSignal(color core.Image, signalMask core.Image) (core.Image, error) {
	dark, err := AllDarkPixels(color)
	if err != nil {
		return core.Image{}, err
	}
	defer dark.Close()

	dilatedSignal, err := vision.Dilate(signalMask, gocv.MorphCross, dilateCrossSize)
	if err != nil {
		return core.Image{}, err
	}
	defer dilatedSignal.Close()

	return vision.Subtract(dark, dilatedSignal)
}
