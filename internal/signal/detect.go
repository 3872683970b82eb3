// Package signal isolates, extracts, and rescales the ECG trace from a
// single lead's cropped image region.
package signal

import (
	"image"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
	"ecgdigitize/internal/grid"
)

// maxHedge and minHedge bound the adaptive-Otsu threshold multiplier
// (spec.md §4.6): start strict, relax until the grid disappears.
const (
	maxHedge  = 1.0
	minHedge  = 0.6
	hedgeStep = 0.05
)

// OtsuDetect binarizes a lead image by Otsu's method (Mallawaarachchi et
// al., 2014), optionally smoothing with a 3x3 blur first.
func OtsuDetect(img core.Image, useBlur bool, invert bool) (core.Image, error) {
	gray, err := core.ToGrayscale(img)
	if err != nil {
		return core.Image{}, err
	}
	defer gray.Close()

	source := gray
	if useBlur {
		blurred, err := blur3(gray)
		if err != nil {
			return core.Image{}, err
		}
		defer blurred.Close()
		source = blurred
	}

	return core.ToBinary(source, nil, invert)
}

// blur3 is a local 3x3 box blur, matching the detection package's
// "useBlur" pre-filter.
func blur3(img core.Image) (core.Image, error) {
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	weight := float32(1.0 / 9.0)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			kernel.SetFloatAt(y, x, weight)
		}
	}

	out := gocv.NewMat()
	gocv.Filter2D(img.Mat, &out, gocv.MatTypeCV8U, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
	return core.NewGrayscaleImage(out)
}

// Denoise applies one cross-shaped erosion followed by one cross-shaped
// dilation to remove isolated speckle from a trace mask.
func Denoise(binary core.Image, kernelSize int) (core.Image, error) {
	element := gocv.GetStructuringElement(gocv.MorphCross, image.Pt(kernelSize, kernelSize))
	defer element.Close()

	eroded := gocv.NewMat()
	gocv.Erode(binary.Mat, &eroded, element)
	defer eroded.Close()

	dilated := gocv.NewMat()
	gocv.Dilate(eroded, &dilated, element)

	return core.NewBinaryImage(dilated)
}

// AdaptiveOtsu binarizes a lead image, then progressively relaxes the
// Otsu threshold (by hedging factor, from 1.0 down to 0.6 in steps of
// 0.05) until the millimeter grid is no longer visible in the mask —
// the point at which only the (darker) trace remains (spec.md §4.6).
func AdaptiveOtsu(img core.Image, applyDenoising bool) (core.Image, error) {
	gray, err := core.ToGrayscale(img)
	if err != nil {
		return core.Image{}, err
	}
	defer gray.Close()

	otsuThreshold := hillClimbOtsu(core.Histogram(gray))

	hedging := maxHedge
	threshold := int(float64(otsuThreshold) * hedging)
	binary, err := core.ToBinary(gray, &threshold, true)
	if err != nil {
		return core.Image{}, err
	}

	for step := 1; grid.GridIsDetectable(binary); step++ {
		// Derived from the step count so floating-point drift cannot skip
		// the 0.6 floor.
		hedging = maxHedge - float64(step)*hedgeStep
		if hedging < minHedge {
			break
		}

		binary.Close()
		threshold = int(float64(otsuThreshold) * hedging)
		binary, err = core.ToBinary(gray, &threshold, true)
		if err != nil {
			return core.Image{}, err
		}
	}

	if !applyDenoising {
		return binary, nil
	}
	defer binary.Close()
	return Denoise(binary, 3)
}
