package vision

import (
	"testing"

	"gocv.io/x/gocv"

	"ecgdigitize/internal/core"
)

func solidBinary(t *testing.T, width, height int, value uint8) core.Image {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	mat.SetTo(gocv.NewScalar(float64(value), 0, 0, 0))
	img, err := core.NewBinaryImage(mat)
	if err != nil {
		t.Fatalf("NewBinaryImage: %v", err)
	}
	return img
}

func TestOpenOnBlankMaskStaysBlank(t *testing.T) {
	mask := solidBinary(t, 20, 20, 0)
	defer mask.Close()

	opened, err := Open(mask)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer opened.Close()

	if v := opened.Mat.GetUCharAt(10, 10); v != 0 {
		t.Errorf("Open on an all-zero mask should stay zero, got %d", v)
	}
}

func TestSubtractOfEqualMasksIsZero(t *testing.T) {
	a := solidBinary(t, 5, 5, 1)
	defer a.Close()
	b := solidBinary(t, 5, 5, 1)
	defer b.Close()

	diff, err := Subtract(a, b)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	defer diff.Close()

	if v := diff.Mat.GetUCharAt(0, 0); v != 0 {
		t.Errorf("Subtract(a, a) should be zero, got %d", v)
	}
}

func TestHoughLinesOnBlankMaskIsEmpty(t *testing.T) {
	mask := solidBinary(t, 50, 50, 0)
	defer mask.Close()

	lines := HoughLines(mask, 10)
	if len(lines) != 0 {
		t.Errorf("HoughLines on a blank mask should be empty, got %d lines", len(lines))
	}
}

func TestLinesInDirectionWrapsAround180(t *testing.T) {
	lines := []Line{{Rho: 10, Theta: 0}}
	matches := LinesInDirection(lines, 180, 2)
	if len(matches) != 1 {
		t.Errorf("a 0-degree line should match a 180-degree query within tolerance (mod 180)")
	}
}

func TestLinesInDirectionExcludesFarAngles(t *testing.T) {
	lines := []Line{{Rho: 10, Theta: 0}}
	matches := LinesInDirection(lines, 90, 2)
	if len(matches) != 0 {
		t.Errorf("a 0-degree line should not match a 90-degree query")
	}
}
