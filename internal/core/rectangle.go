package core

// Rectangle is an axis-aligned crop region in image pixel coordinates.
// All fields are non-negative; callers must ensure X+Width and Y+Height
// stay within the image they are applied to — Crop validates this at
// consumption time.
type Rectangle struct {
	X, Y, Width, Height int
}
