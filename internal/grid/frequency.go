package grid

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"ecgdigitize/internal/core"
)

const (
	peakMinHeight       = 0.3
	peakMinProminence   = 0.05
	interpolationRadius = 2
	fftDisagreementTolerance = 0.10
)

// EstimatePeriod estimates the grid period in pixels from a binary
// mask via 1-D autocorrelation (spec.md §4.4). It prefers the
// column-axis estimate, falling back to the row axis, and fails only
// when neither axis produces a qualifying peak.
func EstimatePeriod(mask core.Image, logger *logrus.Logger) (float64, error) {
	columnDensity := projectColumns(mask)
	rowDensity := projectRows(mask)

	columnCorr := autocorrelation(columnDensity)
	rowCorr := autocorrelation(rowDensity)

	columnPeriod, columnOK := estimateFirstPeakLocation(columnCorr, true)
	rowPeriod, rowOK := estimateFirstPeakLocation(rowCorr, true)

	if logger != nil {
		spectralCheck(columnDensity, columnPeriod, columnOK, logger)
	}

	switch {
	case columnOK:
		return columnPeriod, nil
	case rowOK:
		return rowPeriod, nil
	default:
		return 0, core.ErrGridNotDetectable
	}
}

// GridIsDetectable reports whether the column-density autocorrelation
// has a qualifying first peak, without sub-pixel refinement — used by
// the adaptive-Otsu stopping rule (spec.md §4.6 step 3).
func GridIsDetectable(mask core.Image) bool {
	columnDensity := projectColumns(mask)
	corr := autocorrelation(columnDensity)
	_, ok := findFirstPeak(corr)
	return ok
}

func projectColumns(mask core.Image) []float64 {
	width := mask.Width()
	height := mask.Height()
	density := make([]float64, width)
	for x := 0; x < width; x++ {
		sum := 0.0
		for y := 0; y < height; y++ {
			sum += float64(mask.Mat.GetUCharAt(y, x))
		}
		density[x] = sum
	}
	return density
}

func projectRows(mask core.Image) []float64 {
	width := mask.Width()
	height := mask.Height()
	density := make([]float64, height)
	for y := 0; y < height; y++ {
		sum := 0.0
		for x := 0; x < width; x++ {
			sum += float64(mask.Mat.GetUCharAt(y, x))
		}
		density[y] = sum
	}
	return density
}

// autocorrelation returns the Pearson correlation coefficient between
// signal and itself shifted by k, for k = 0 .. len(signal)/2.
func autocorrelation(signal []float64) []float64 {
	n := len(signal)
	limit := n/2 + 1
	out := make([]float64, limit)
	for k := 0; k < limit; k++ {
		if k == 0 {
			out[k] = stat.Correlation(signal, signal, nil)
			continue
		}
		a := signal[:n-k]
		b := signal[k:]
		out[k] = stat.Correlation(a, b, nil)
	}
	return out
}

// findFirstPeak locates the first index whose height and prominence
// clear peakMinHeight/peakMinProminence.
func findFirstPeak(signal []float64) (int, bool) {
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] < peakMinHeight {
			continue
		}
		if !(signal[i] > signal[i-1] && signal[i] >= signal[i+1]) {
			continue
		}
		if prominence(signal, i) < peakMinProminence {
			continue
		}
		return i, true
	}
	return 0, false
}

// prominence approximates scipy's peak prominence: the height above the
// higher of the two nearest valleys encountered walking outward from
// the peak until a taller point (or the signal boundary) is reached.
func prominence(signal []float64, peak int) float64 {
	leftMin := signal[peak]
	for i := peak - 1; i >= 0; i-- {
		if signal[i] > signal[peak] {
			break
		}
		if signal[i] < leftMin {
			leftMin = signal[i]
		}
	}

	rightMin := signal[peak]
	for i := peak + 1; i < len(signal); i++ {
		if signal[i] > signal[peak] {
			break
		}
		if signal[i] < rightMin {
			rightMin = signal[i]
		}
	}

	base := math.Max(leftMin, rightMin)
	return signal[peak] - base
}

// estimateFirstPeakLocation finds the first qualifying peak and, if
// interpolate is true, refines its position by fitting a quadratic to
// the five samples centered on it (radius 2) and analytically solving
// for the fitted maximum.
func estimateFirstPeakLocation(signal []float64, interpolate bool) (float64, bool) {
	index, ok := findFirstPeak(signal)
	if !ok {
		return 0, false
	}
	if !interpolate {
		return float64(index), true
	}

	start := index - interpolationRadius
	end := index + interpolationRadius
	if start < 0 || end >= len(signal) {
		return float64(index), true
	}

	offset := fitQuadraticVertex(signal[start : end+1])
	return float64(index) + offset, true
}

// fitQuadraticVertex least-squares fits y = a*t^2 + b*t + c to samples
// centered at t=0 (so samples has odd length, indices -r..r) and
// returns the vertex location -b/(2a) relative to the center, clamped
// to the fit window. Falls back to 0 (no offset) if the fit is
// degenerate (a >= 0, i.e. not a local maximum).
func fitQuadraticVertex(samples []float64) float64 {
	n := len(samples)
	radius := n / 2

	design := mat.NewDense(n, 3, nil)
	targets := mat.NewDense(n, 1, nil)
	for i, y := range samples {
		t := float64(i - radius)
		design.Set(i, 0, t*t)
		design.Set(i, 1, t)
		design.Set(i, 2, 1)
		targets.Set(i, 0, y)
	}

	var coeffs mat.Dense
	if err := coeffs.Solve(design, targets); err != nil {
		return 0
	}

	a := coeffs.At(0, 0)
	b := coeffs.At(1, 0)
	if a >= 0 {
		return 0
	}

	vertex := -b / (2 * a)
	if vertex < float64(-radius) {
		vertex = float64(-radius)
	}
	if vertex > float64(radius) {
		vertex = float64(radius)
	}
	return vertex
}

// spectralCheck cross-validates the time-domain autocorrelation
// estimate against the dominant non-DC frequency of the column
// density's FFT power spectrum, logging a warning (never failing) on
// significant disagreement.
func spectralCheck(columnDensity []float64, estimate float64, haveEstimate bool, logger *logrus.Logger) {
	if !haveEstimate || estimate <= 0 || len(columnDensity) < 4 {
		return
	}

	complexSignal := make([]complex128, len(columnDensity))
	for i, v := range columnDensity {
		complexSignal[i] = complex(v, 0)
	}
	spectrum := fft.FFT(complexSignal)

	n := len(spectrum)
	bestBin, bestMag := 1, 0.0
	for i := 1; i < n/2; i++ {
		mag := cmplxAbs(spectrum[i])
		if mag > bestMag {
			bestMag = mag
			bestBin = i
		}
	}
	if bestBin == 0 {
		return
	}

	spectralPeriod := float64(n) / float64(bestBin)
	disagreement := math.Abs(spectralPeriod-estimate) / estimate
	if disagreement > fftDisagreementTolerance {
		logger.WithFields(logrus.Fields{
			"autocorrelation_period": estimate,
			"spectral_period":        spectralPeriod,
			"disagreement":           disagreement,
		}).Warn("grid: spectral cross-check disagrees with autocorrelation period estimate")
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
