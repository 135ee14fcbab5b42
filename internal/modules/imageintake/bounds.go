package imageintake

import (
	"fmt"
	"math"
)

const (
	MaxWidth  = 800
	MaxHeight = 600

	// Decode guards; a lying header must not make us allocate gigabytes.
	maxSourceSide   = 16384
	maxSourcePixels = 40_000_000
)

// Fit returns the output size for a w×h source. Landscape and square images
// are capped by width, portrait ones by height; the other side is then kept
// inside the box too, so the result always fits maxW×maxH. Aspect ratio is
// preserved up to rounding and images are never enlarged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if w >= h {
		if w > maxW {
			scale = float64(maxW) / float64(w)
		}
		if float64(h)*scale > float64(maxH) {
			scale = float64(maxH) / float64(h)
		}
	} else {
		if h > maxH {
			scale = float64(maxH) / float64(h)
		}
		if float64(w)*scale > float64(maxW) {
			scale = float64(maxW) / float64(w)
		}
	}
	if scale == 1 {
		return w, h
	}
	nw := clampSide(int(math.Round(float64(w)*scale)), maxW)
	nh := clampSide(int(math.Round(float64(h)*scale)), maxH)
	return nw, nh
}

func clampSide(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

func checkSourceBounds(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", w, h)
	}
	if w > maxSourceSide || h > maxSourceSide {
		return fmt.Errorf("image dimension exceeds limit (%d x %d)", w, h)
	}
	if int64(w)*int64(h) > maxSourcePixels {
		return fmt.Errorf("image pixel count %d exceeds limit %d", int64(w)*int64(h), maxSourcePixels)
	}
	return nil
}
