package rotation

import (
	"testing"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

func blankColor(t *testing.T, width, height int) core.Image {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(255, 255, 255, 0))
	img, err := core.NewColorImage(mat)
	if err != nil {
		t.Fatalf("NewColorImage: %v", err)
	}
	return img
}

func blankBinary(t *testing.T, width, height int) core.Image {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	img, err := core.NewBinaryImage(mat)
	if err != nil {
		t.Fatalf("NewBinaryImage: %v", err)
	}
	return img
}

func TestEstimateAngleFailsWithoutGridLines(t *testing.T) {
	page := blankColor(t, 100, 100)
	defer page.Close()
	signalMask := blankBinary(t, 100, 100)
	defer signalMask.Close()

	if _, ok := EstimateAngle(page, signalMask); ok {
		t.Errorf("EstimateAngle on a blank page should report no estimate")
	}
}
