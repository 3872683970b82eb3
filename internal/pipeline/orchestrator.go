// Package pipeline wires together rotation, grid estimation, and
// signal extraction into the end-to-end digitization pipeline
// described in spec.md §5.
package pipeline

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/grid"
	"ecgdigitize/internal/rotation"
	"ecgdigitize/internal/signal"
)

// Result is one lead's digitized output. Signal is the final
// zero-centered, microvolt-scaled, padded trace; RawSignal is the
// extractor's pre-alignment, pre-scaling pixel-domain trace, kept
// around for preview overlays (spec.md §4.9 step 9). CroppedImage is
// that lead's region of the rotated page, also for overlays — it is
// owned by the Result once returned and must be closed by the caller
// alongside Mask. Err is set, and Signal/RawSignal left nil, when that
// lead's trace could not be extracted.
type Result struct {
	LeadID       core.LeadId
	Signal       core.Signal
	RawSignal    core.Signal
	CroppedImage core.Image
	Mask         core.Image
	Err          error
}

// leadWork is the per-lead intermediate state computed in parallel,
// ahead of the cross-lead reductions (mean grid period, max padding).
type leadWork struct {
	leadID     core.LeadId
	cropped    core.Image
	signal     core.Signal
	mask       core.Image
	signalErr  error
	gridPeriod float64
	gridErr    error
}

// Digitize runs the full pipeline over a color page image: rotation,
// per-lead cropping, per-lead signal/grid extraction (fanned out one
// goroutine per lead), the mean-grid-period and common-length
// reductions, and final vertical/horizontal scaling. It fails if no
// leads are supplied, if every lead's signal extraction failed, or if
// no lead's grid could be measured.
func Digitize(image core.Image, params core.InputParameters, logger *logrus.Logger) (map[core.LeadId]Result, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if len(params.Leads) == 0 {
		return nil, core.ErrEmptyLeadMap
	}

	rotated, err := core.Rotate(image, params.RotationDegrees, core.White)
	if err != nil {
		return nil, err
	}
	defer rotated.Close()

	logger.WithField("angle", params.RotationDegrees).Debug("pipeline: rotated page")

	work := make([]*leadWork, 0, len(params.Leads))
	for leadID, lead := range params.Leads {
		cropped, err := core.Crop(rotated, lead.Rect)
		if err != nil {
			logger.WithError(err).WithField("lead", leadID).Warn("pipeline: failed to crop lead")
			continue
		}
		work = append(work, &leadWork{leadID: leadID, cropped: cropped})
	}

	var wg sync.WaitGroup
	for _, w := range work {
		wg.Add(1)
		go func(w *leadWork) {
			defer wg.Done()
			digitizeLead(w, logger)
		}(w)
	}
	wg.Wait()

	succeeded := 0
	for _, w := range work {
		if w.signalErr == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		closeWork(work)
		return nil, fmt.Errorf("%w: all %d leads failed signal extraction", core.ErrAllSignalsFailed, len(work))
	}

	gridPeriod, ok := meanGridPeriod(work)
	if !ok {
		closeWork(work)
		return nil, fmt.Errorf("%w: none of %d leads yielded a measurable grid period", core.ErrGridNotDetectable, len(work))
	}
	logger.WithField("grid_period_px", gridPeriod).Info("pipeline: estimated grid period")

	samplingPeriod := signal.SamplingPeriod(gridPeriod, params.TimeScale)

	results := make(map[core.LeadId]Result, len(work))
	maxLength := 0
	for _, w := range work {
		if w.signalErr != nil {
			results[w.leadID] = Result{LeadID: w.leadID, Err: w.signalErr}
			w.cropped.Close()
			continue
		}

		scaled := signal.ToMicrovolts(signal.ZeroCenter(w.signal), gridPeriod, params.VoltScale)

		lead := params.Leads[w.leadID]
		leftPad := int(math.Round(lead.StartTime / samplingPeriod))
		padded := scaled.PadLeft(leftPad)

		if len(padded) > maxLength {
			maxLength = len(padded)
		}

		results[w.leadID] = Result{
			LeadID:       w.leadID,
			Signal:       padded,
			RawSignal:    w.signal,
			CroppedImage: w.cropped,
			Mask:         w.mask,
		}
	}

	for leadID, r := range results {
		if r.Err != nil {
			continue
		}
		r.Signal = r.Signal.PadRight(maxLength - len(r.Signal))
		results[leadID] = r
	}

	return results, nil
}

// digitizeLead runs detection, extraction, and grid estimation for a
// single lead. It never returns an error itself; failures are recorded
// on the leadWork so a bad lead doesn't abort the others.
func digitizeLead(w *leadWork, logger *logrus.Logger) {
	mask, err := signal.AdaptiveOtsu(w.cropped, false)
	if err != nil {
		w.signalErr = err
		logger.WithError(err).WithField("lead", w.leadID).Warn("pipeline: signal detection failed")
		return
	}
	w.mask = mask

	extracted, ok := signal.ExtractSignal(mask)
	if !ok {
		w.signalErr = core.NewFailure("signal extraction found no trace pixels")
		logger.WithField("lead", w.leadID).Warn("pipeline: signal extraction found no trace")
		return
	}
	w.signal = extracted

	darkMask, err := grid.AllDarkPixels(w.cropped)
	if err != nil {
		w.gridErr = err
		return
	}
	defer darkMask.Close()

	period, err := grid.EstimatePeriod(darkMask, logger)
	if err != nil {
		w.gridErr = err
		return
	}
	w.gridPeriod = period
}

// closeWork releases every lead's cropped image and signal mask —
// used on the aggregate-failure paths, where no Result is ever handed
// ownership of them.
func closeWork(work []*leadWork) {
	for _, w := range work {
		w.cropped.Close()
		w.mask.Close()
	}
}

// meanGridPeriod averages the grid period across every lead that
// yielded one.
func meanGridPeriod(work []*leadWork) (float64, bool) {
	sum := 0.0
	count := 0
	for _, w := range work {
		if w.gridErr != nil || w.gridPeriod <= 0 {
			continue
		}
		sum += w.gridPeriod
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
