// Package visual compares page screenshots against stored baselines.
package visual

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/orisano/pixelmatch"
)

var (
	// ErrVisualMismatch marks a screenshot that differs from its baseline
	ErrVisualMismatch = errors.New("visual mismatch")
	// ErrDecode is returned when either side is not a PNG image
	ErrDecode = errors.New("invalid png")
)

// Tolerance bounds how far a screenshot may drift from its baseline
type Tolerance struct {
	// PixelThreshold is the YIQ colour distance, in [0, 1], below which two
	// pixels count as equal. Anti-aliased pixels are never counted.
	PixelThreshold float64
	// MaxDiffRatio is the largest fraction of differing pixels accepted
	MaxDiffRatio float64
}

// Result describes one comparison
type Result struct {
	Width, Height int
	DiffPixels    int
	SizeMismatch  bool
	// Diff highlights differing pixels, nil when sizes differ
	Diff image.Image
}

// Ratio returns the fraction of differing pixels
func (r Result) Ratio() float64 {
	total := r.Width * r.Height
	if total == 0 {
		return 0
	}
	return float64(r.DiffPixels) / float64(total)
}

// Within reports whether the result is acceptable under tol
func (r Result) Within(tol Tolerance) bool {
	return !r.SizeMismatch && r.Ratio() <= tol.MaxDiffRatio
}

// MismatchError carries the comparison behind an ErrVisualMismatch
type MismatchError struct {
	Name   string
	Result Result
}

// Error reports the checkpoint and how far it drifted
func (e *MismatchError) Error() string {
	if e.Result.SizeMismatch {
		return fmt.Sprintf("%s: %s: size differs from baseline", ErrVisualMismatch, e.Name)
	}
	return fmt.Sprintf("%s: %s: %d of %d pixels differ (%.4f%%)",
		ErrVisualMismatch, e.Name, e.Result.DiffPixels, e.Result.Width*e.Result.Height, e.Result.Ratio()*100)
}

// Unwrap lets errors.Is match ErrVisualMismatch
func (e *MismatchError) Unwrap() error { return ErrVisualMismatch }

// Compare decodes two PNG images and counts the pixels whose colour distance
// exceeds tol.PixelThreshold. Images of different size never match.
func Compare(actual, baseline []byte, tol Tolerance) (Result, error) {
	a, err := png.Decode(bytes.NewReader(actual))
	if err != nil {
		return Result{}, fmt.Errorf("%w: actual: %v", ErrDecode, err)
	}
	b, err := png.Decode(bytes.NewReader(baseline))
	if err != nil {
		return Result{}, fmt.Errorf("%w: baseline: %v", ErrDecode, err)
	}
	return CompareImages(a, b, tol)
}

// CompareImages compares two decoded images. The diff image marks counted
// pixels red and anti-aliased ones yellow over a faded copy of actual.
func CompareImages(actual, baseline image.Image, tol Tolerance) (Result, error) {
	ab, bb := actual.Bounds(), baseline.Bounds()
	res := Result{Width: bb.Dx(), Height: bb.Dy()}
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		res.SizeMismatch = true
		return res, nil
	}

	var diff image.Image
	n, err := pixelmatch.MatchPixel(
		atOrigin(actual), atOrigin(baseline),
		pixelmatch.Threshold(tol.PixelThreshold),
		pixelmatch.WriteTo(&diff),
	)
	if errors.Is(err, pixelmatch.ErrImageSizesNotMatch) {
		res.SizeMismatch = true
		return res, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to compare images: %w", err)
	}
	res.DiffPixels = n
	res.Diff = diff
	return res, nil
}

// atOrigin rebases img so its bounds start at (0, 0)
func atOrigin(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
