// Package vision holds the small, fixed-parameter image-processing
// primitives the grid and rotation estimators build on: Hough line
// detection, morphological opening, and a uniform-kernel blur.
package vision

import (
	"math"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

// Line is a Hough-space line (rho in pixels, theta in radians).
type Line struct {
	Rho, Theta float64
}

// HoughLines runs the standard Hough transform with a 1-pixel rho step
// and a 1-degree theta step, returning every line with at least
// threshold votes.
func HoughLines(binary core.Image, threshold int) []Line {
	lines := gocv.NewMat()
	defer lines.Close()

	gocv.HoughLinesWithParams(binary.Mat, &lines, float32(1), float32(math.Pi/180), threshold)

	result := make([]Line, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		rho := float64(lines.GetFloatAt(i, 0))
		theta := float64(lines.GetFloatAt(i, 1))
		result = append(result, Line{Rho: rho, Theta: theta})
	}
	return result
}

// AngleDegrees converts a Hough line's theta to degrees.
func (l Line) AngleDegrees() float64 {
	return l.Theta * 180 / math.Pi
}

// LinesInDirection returns the lines whose angle is within tol degrees
// of degrees (mod 180, since Hough rho/theta pairs lines at theta and
// theta+pi to the same geometric line).
func LinesInDirection(lines []Line, degrees, tol float64) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		diff := math.Mod(math.Abs(l.AngleDegrees()-degrees), 180)
		if diff > 90 {
			diff = 180 - diff
		}
		if diff <= tol {
			out = append(out, l)
		}
	}
	return out
}
