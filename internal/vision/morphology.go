package vision

import (
	"image"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

// Open erodes then dilates with a 3x3 rectangular structuring element,
// removing small specks of noise while preserving larger shapes.
func Open(binary core.Image) (core.Image, error) {
	element := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer element.Close()

	eroded := gocv.NewMat()
	gocv.Erode(binary.Mat, &eroded, element)
	defer eroded.Close()

	dilated := gocv.NewMat()
	gocv.Dilate(eroded, &dilated, element)

	return core.NewBinaryImage(dilated)
}

// Erode applies a single erosion pass with a structuring element of the
// given shape and size.
func Erode(binary core.Image, shape gocv.MorphShape, size int) (core.Image, error) {
	element := gocv.GetStructuringElement(shape, image.Pt(size, size))
	defer element.Close()

	out := gocv.NewMat()
	gocv.Erode(binary.Mat, &out, element)
	return core.NewBinaryImage(out)
}

// Dilate applies a single dilation pass with a structuring element of
// the given shape and size.
func Dilate(binary core.Image, shape gocv.MorphShape, size int) (core.Image, error) {
	element := gocv.GetStructuringElement(shape, image.Pt(size, size))
	defer element.Close()

	out := gocv.NewMat()
	gocv.Dilate(binary.Mat, &out, element)
	return core.NewBinaryImage(out)
}

// Subtract computes a - b for two binary masks of equal size.
func Subtract(a, b core.Image) (core.Image, error) {
	out := gocv.NewMat()
	gocv.Subtract(a.Mat, b.Mat, &out)
	return core.NewBinaryImage(out)
}
