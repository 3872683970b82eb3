package export

import (
	"math"

	"ecgdigitize/internal/core"
)

// RMSE computes the root-mean-square error between two signals of
// equal length, over the samples where both are non-NaN. It is a test
// helper for comparing a digitized signal against a reference
// recording, not part of the digitization pipeline itself.
func RMSE(a, b core.Signal) (float64, error) {
	if len(a) != len(b) {
		return 0, core.NewFailure("signals must have equal length to compute RMSE")
	}

	sumSquares := 0.0
	count := 0
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		diff := a[i] - b[i]
		sumSquares += diff * diff
		count++
	}
	if count == 0 {
		return 0, core.NewFailure("no overlapping non-NaN samples between signals")
	}

	return math.Sqrt(sumSquares / float64(count)), nil
}
