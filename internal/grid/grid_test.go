package grid

import (
	"math"
	"testing"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

// gridImage builds a color image with vertical dark lines every period
// pixels, simulating millimeter ruling on white paper.
func gridImage(t *testing.T, width, height, period int) core.Image {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(255, 255, 255, 0))

	for x := 0; x < width; x += period {
		for y := 0; y < height; y++ {
			mat.SetUCharAt3(y, x, 0, 180)
			mat.SetUCharAt3(y, x, 1, 180)
			mat.SetUCharAt3(y, x, 2, 180)
		}
	}

	img, err := core.NewColorImage(mat)
	if err != nil {
		t.Fatalf("NewColorImage: %v", err)
	}
	return img
}

func TestAllDarkPixelsMarksGridLines(t *testing.T) {
	img := gridImage(t, 100, 50, 20)
	defer img.Close()

	mask, err := AllDarkPixels(img)
	if err != nil {
		t.Fatalf("AllDarkPixels: %v", err)
	}
	defer mask.Close()

	if v := mask.Mat.GetUCharAt(10, 0); v != 1 {
		t.Errorf("grid line column should be marked, got %d", v)
	}
	if v := mask.Mat.GetUCharAt(10, 10); v != 0 {
		t.Errorf("non-grid column should be unmarked, got %d", v)
	}
}

func TestEstimatePeriodRecoversKnownSpacing(t *testing.T) {
	period := 20
	img := gridImage(t, 400, 100, period)
	defer img.Close()

	mask, err := AllDarkPixels(img)
	if err != nil {
		t.Fatalf("AllDarkPixels: %v", err)
	}
	defer mask.Close()

	got, err := EstimatePeriod(mask, nil)
	if err != nil {
		t.Fatalf("EstimatePeriod: %v", err)
	}

	if math.Abs(got-float64(period)) > 1.0 {
		t.Errorf("EstimatePeriod() = %v, want within 1px of %d", got, period)
	}
}

func TestEstimatePeriodFailsOnBlankMask(t *testing.T) {
	mat := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC1)
	mask, err := core.NewBinaryImage(mat)
	if err != nil {
		t.Fatalf("NewBinaryImage: %v", err)
	}
	defer mask.Close()

	if _, err := EstimatePeriod(mask, nil); err == nil {
		t.Errorf("EstimatePeriod on a blank mask should fail")
	}
}

func TestGridIsDetectableOnBlankMaskIsFalse(t *testing.T) {
	mat := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC1)
	mask, err := core.NewBinaryImage(mat)
	if err != nil {
		t.Fatalf("NewBinaryImage: %v", err)
	}
	defer mask.Close()

	if GridIsDetectable(mask) {
		t.Errorf("GridIsDetectable on a blank mask should be false")
	}
}
