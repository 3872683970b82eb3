// Package core holds the closed data model the digitization pipeline
// operates on: immutable image buffers, leads, rectangles and the
// dense floating-point signal representation.
package core

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Kind identifies which of the three closed image variants a Mat holds.
type Kind int

const (
	KindColor Kind = iota
	KindGrayscale
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindGrayscale:
		return "grayscale"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Image is an immutable view over a pixel buffer. The zero value is not
// valid; construct with NewColorImage or one of the conversion functions.
//
// Ownership: the Mat backing an Image is owned by whoever constructed it.
// Every function in this package that takes an Image borrows it and
// returns a freshly allocated Image; none of them close or mutate their
// input.
type Image struct {
	Kind Kind
	Mat  gocv.Mat
}

// NewColorImage wraps a 3-channel 8-bit BGR Mat, validating the
// invariants spec.md §3 requires of a ColorImage.
func NewColorImage(mat gocv.Mat) (Image, error) {
	if mat.Empty() {
		return Image{}, fmt.Errorf("core: color image is empty")
	}
	if mat.Channels() != 3 {
		return Image{}, fmt.Errorf("core: color image must have 3 channels, got %d", mat.Channels())
	}
	return Image{Kind: KindColor, Mat: mat}, nil
}

// NewGrayscaleImage wraps a single-channel 8-bit Mat.
func NewGrayscaleImage(mat gocv.Mat) (Image, error) {
	if mat.Empty() {
		return Image{}, fmt.Errorf("core: grayscale image is empty")
	}
	if mat.Channels() != 1 {
		return Image{}, fmt.Errorf("core: grayscale image must have 1 channel, got %d", mat.Channels())
	}
	return Image{Kind: KindGrayscale, Mat: mat}, nil
}

// NewBinaryImage wraps a single-channel Mat whose values are 0 or 1.
func NewBinaryImage(mat gocv.Mat) (Image, error) {
	if mat.Empty() {
		return Image{}, fmt.Errorf("core: binary image is empty")
	}
	if mat.Channels() != 1 {
		return Image{}, fmt.Errorf("core: binary image must have 1 channel, got %d", mat.Channels())
	}
	return Image{Kind: KindBinary, Mat: mat}, nil
}

// Width returns the image width in pixels.
func (img Image) Width() int { return img.Mat.Cols() }

// Height returns the image height in pixels.
func (img Image) Height() int { return img.Mat.Rows() }

// Close releases the underlying Mat. Call once ownership of an
// intermediate Image ends.
func (img Image) Close() error {
	if img.Mat.Ptr() == nil {
		return nil
	}
	return img.Mat.Close()
}

// ToGrayscale converts a color image to grayscale using OpenCV's
// standard BGR luma weights.
func ToGrayscale(img Image) (Image, error) {
	if img.Kind != KindColor {
		return Image{}, fmt.Errorf("core: ToGrayscale requires a color image, got %s", img.Kind)
	}
	out := gocv.NewMat()
	gocv.CvtColor(img.Mat, &out, gocv.ColorBGRToGray)
	return NewGrayscaleImage(out)
}

// ToBinary thresholds a grayscale image. When threshold is nil, the
// Otsu threshold is computed over the 256-bin histogram. When inverse
// is true, pixels at or below the threshold become 1.
func ToBinary(img Image, threshold *int, inverse bool) (Image, error) {
	if img.Kind != KindGrayscale {
		return Image{}, fmt.Errorf("core: ToBinary requires a grayscale image, got %s", img.Kind)
	}

	t := 0
	if threshold != nil {
		t = *threshold
	} else {
		t = OtsuThreshold(Histogram(img))
	}

	mode := gocv.ThresholdBinary
	if inverse {
		mode = gocv.ThresholdBinaryInv
	}

	out := gocv.NewMat()
	gocv.Threshold(img.Mat, &out, float32(t), 1, mode)
	return NewBinaryImage(out)
}

// OtsuThreshold returns the exhaustive argmax of the between-class
// variance σ²_B(k) over a 256-bin intensity histogram — the classic
// Otsu (1979) threshold.
func OtsuThreshold(hist [256]int) int {
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}

	p := make([]float64, 256)
	for i, c := range hist {
		p[i] = float64(c) / float64(total)
	}

	muT := 0.0
	for i, pi := range p {
		muT += float64(i) * pi
	}

	omega, mu := 0.0, 0.0
	best, bestLevel := -1.0, 0
	for k := 0; k < 256; k++ {
		omega += p[k]
		mu += float64(k) * p[k]

		if omega == 0 || omega == 1 {
			continue
		}

		between := (muT*omega - mu) * (muT*omega - mu) / (omega * (1 - omega))
		if between > best {
			best = between
			bestLevel = k
		}
	}
	return bestLevel
}

// WhitePointAdjust rescales intensities so the histogram mode ("paper
// white") maps to 255, then clamps, the way a scanned sheet of
// millimeter paper is normalized before thresholding.
func WhitePointAdjust(img Image, strength float64) (Image, error) {
	if img.Kind != KindGrayscale {
		return Image{}, fmt.Errorf("core: WhitePointAdjust requires a grayscale image, got %s", img.Kind)
	}

	// Finds the mode over every bin, white included: on a page whose
	// paper is already pure white the mode is 255 and the scale is 1.
	hist := Histogram(img)
	mode := 0
	best := hist[0]
	for i := 0; i < len(hist); i++ {
		if hist[i] > best {
			best = hist[i]
			mode = i
		}
	}
	if mode == 0 {
		mode = 1
	}

	scale := 255.0 / float64(mode) * strength
	out := gocv.NewMat()
	gocv.AddWeighted(img.Mat, scale, img.Mat, 0, 0, &out)
	return NewGrayscaleImage(out)
}

// Crop returns a copy of the rectangular sub-region of img.
func Crop(img Image, rect Rectangle) (Image, error) {
	if rect.X+rect.Width > img.Width() || rect.Y+rect.Height > img.Height() {
		return Image{}, fmt.Errorf("core: crop rectangle %+v exceeds image bounds %dx%d", rect, img.Width(), img.Height())
	}
	region := img.Mat.Region(image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
	out := gocv.NewMat()
	region.CopyTo(&out)
	region.Close()

	switch img.Kind {
	case KindColor:
		return NewColorImage(out)
	case KindGrayscale:
		return NewGrayscaleImage(out)
	case KindBinary:
		return NewBinaryImage(out)
	default:
		out.Close()
		return Image{}, fmt.Errorf("core: unknown image kind %v", img.Kind)
	}
}

// Rotate applies an affine rotation of angleDeg degrees about the image
// center with cubic interpolation, filling out-of-bounds pixels with
// border. Output dimensions match the input.
func Rotate(img Image, angleDeg float64, border Color) (Image, error) {
	center := image.Pt(img.Width()/2, img.Height()/2)
	rotationMatrix := gocv.GetRotationMatrix2D(center, angleDeg, 1.0)
	defer rotationMatrix.Close()

	out := gocv.NewMat()
	gocv.WarpAffineWithParams(
		img.Mat,
		&out,
		rotationMatrix,
		image.Pt(img.Width(), img.Height()),
		gocv.InterpolationCubic,
		gocv.BorderConstant,
		color.RGBA{R: border.R, G: border.G, B: border.B, A: 0},
	)

	switch img.Kind {
	case KindColor:
		return NewColorImage(out)
	case KindGrayscale:
		return NewGrayscaleImage(out)
	case KindBinary:
		return NewBinaryImage(out)
	default:
		out.Close()
		return Image{}, fmt.Errorf("core: unknown image kind %v", img.Kind)
	}
}

// Histogram returns the 256-bin intensity histogram of a grayscale image.
func Histogram(img Image) [256]int {
	var hist [256]int
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			hist[img.Mat.GetUCharAt(y, x)]++
		}
	}
	return hist
}

// Color is a BGR 8-bit triple, matching OpenCV's channel order.
type Color struct {
	B, G, R uint8
}

// White is the default rotation border fill.
var White = Color{255, 255, 255}
