package pipeline

import (
	"math"
	"testing"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

func TestOverlaySignalWithNaNGapsPreservesDimensions(t *testing.T) {
	mat := gocv.NewMatWithSize(20, 20, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(255, 255, 255, 0))
	img, err := core.NewColorImage(mat)
	if err != nil {
		t.Fatalf("NewColorImage: %v", err)
	}
	defer img.Close()

	s := core.NewSignal(20)
	s[5] = 10
	s[6] = 10

	overlay, err := OverlaySignal(img, s)
	if err != nil {
		t.Fatalf("OverlaySignal: %v", err)
	}
	defer overlay.Close()

	if overlay.Width() != 20 || overlay.Height() != 20 {
		t.Errorf("overlay dimensions changed: %dx%d", overlay.Width(), overlay.Height())
	}
}

func TestOverlaySignalAllNaNLeavesImageUntouched(t *testing.T) {
	mat := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(255, 255, 255, 0))
	img, err := core.NewColorImage(mat)
	if err != nil {
		t.Fatalf("NewColorImage: %v", err)
	}
	defer img.Close()

	s := core.NewSignal(10)
	overlay, err := OverlaySignal(img, s)
	if err != nil {
		t.Fatalf("OverlaySignal: %v", err)
	}
	defer overlay.Close()

	for y := 0; y < overlay.Height(); y++ {
		for x := 0; x < overlay.Width(); x++ {
			b := overlay.Mat.GetUCharAt3(y, x, 0)
			g := overlay.Mat.GetUCharAt3(y, x, 1)
			r := overlay.Mat.GetUCharAt3(y, x, 2)
			if b != 255 || g != 255 || r != 255 {
				t.Fatalf("pixel (%d,%d) was drawn over despite an all-NaN signal", x, y)
			}
		}
	}
}

func TestNewSignalDefaultsToNaNGaps(t *testing.T) {
	// OverlaySignal treats NaN samples as gaps, so a fresh signal must
	// start out entirely NaN.
	if !math.IsNaN(core.NewSignal(1)[0]) {
		t.Fatalf("NewSignal should default to NaN")
	}
}
