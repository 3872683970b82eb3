// Package rotation estimates the skew angle of a scanned ECG page from
// its grid lines, ahead of de-rotation (spec.md §4.1).
package rotation

import (
	"math"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/grid"
	"ecgdigitize/internal/vision"
)

// houghVoteFraction is the fraction of image width used as the minimum
// Hough vote count — short lines are noise, not grid lines.
const houghVoteFraction = 0.25

// maxOffsetDegrees bounds how far from axis-aligned a candidate line
// may be before it's treated as unrelated to the page skew.
const maxOffsetDegrees = 30.0

// EstimateAngle estimates the clockwise rotation, in degrees, needed to
// align the page's grid with the image axes. It returns false if fewer
// than two qualifying lines are found, since a single line is as
// likely to be noise as skew.
func EstimateAngle(color core.Image, signalMask core.Image) (float64, bool) {
	mask, err := grid.ThresholdMinusSignal(color, signalMask)
	if err != nil {
		return 0, false
	}
	defer mask.Close()

	threshold := int(float64(mask.Width()) * houghVoteFraction)
	lines := vision.HoughLines(mask, threshold)
	if len(lines) == 0 {
		return 0, false
	}

	offsets := make([]float64, 0, len(lines))
	for _, l := range lines {
		offset := math.Mod(l.AngleDegrees(), 90)
		if offset > 45 {
			offset -= 90
		}
		if math.Abs(offset) > maxOffsetDegrees {
			continue
		}
		offsets = append(offsets, offset)
	}

	if len(offsets) < 2 {
		return 0, false
	}

	sum := 0.0
	for _, o := range offsets {
		sum += o
	}
	return sum / float64(len(offsets)), true
}
