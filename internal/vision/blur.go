package vision

import (
	"image"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

// Blur applies a 2-D convolution with a uniform k x k kernel — a
// simple box blur, as distinct from a weighted Gaussian kernel.
func Blur(img core.Image, k int) (core.Image, error) {
	kernel := gocv.NewMatWithSize(k, k, gocv.MatTypeCV32F)
	defer kernel.Close()

	weight := float32(1.0 / float64(k*k))
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			kernel.SetFloatAt(y, x, weight)
		}
	}

	out := gocv.NewMat()
	gocv.Filter2D(img.Mat, &out, gocv.MatTypeCV8U, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
	return core.NewGrayscaleImage(out)
}
