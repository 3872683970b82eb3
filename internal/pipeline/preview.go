package pipeline

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

// overlayColor is the project's standard purple trace-overlay color,
// in BGR order.
var overlayColor = color{B: 85, G: 19, R: 248}

type color struct {
	B, G, R uint8
}

// overlayLineWidth is the stroke width used when drawing a signal over
// its source image.
const overlayLineWidth = 3

// OverlaySignal draws a signal's trace over a copy of its source image
// in pixel coordinates, skipping any segment where either endpoint is
// NaN (a gap the extractor couldn't fill).
func OverlaySignal(img core.Image, s core.Signal) (core.Image, error) {
	out := img.Mat.Clone()

	lineColor := toCvColor(overlayColor)
	for x := 0; x < len(s)-1; x++ {
		a, b := s[x], s[x+1]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		p1 := image.Pt(x, int(a))
		p2 := image.Pt(x+1, int(b))
		gocv.Line(&out, p1, p2, lineColor, overlayLineWidth)
	}

	return core.NewColorImage(out)
}

func toCvColor(c color) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}
