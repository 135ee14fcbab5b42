package imageintake

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int, alpha uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: alpha})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func source(name string, b []byte) Source {
	return Source{Filename: name, Size: int64(len(b)), Body: bytes.NewReader(b)}
}

func decodeDataURL(t *testing.T, u string) image.Image {
	t.Helper()
	if !strings.HasPrefix(u, DataURLPrefix) {
		t.Fatalf("not a jpeg data URL: %.40q", u)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, DataURLPrefix))
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, ww, wh int
	}{
		{1200, 900, 800, 600},
		{1600, 1200, 800, 600},
		{600, 1200, 300, 600},
		{1000, 1000, 600, 600},
		{1000, 900, 667, 600},
		{400, 300, 400, 300},
		{800, 600, 800, 600},
		{5000, 10, 800, 2},
		{10, 5000, 1, 600},
		{0, 10, 0, 0},
	}
	for _, tc := range cases {
		gw, gh := Fit(tc.w, tc.h, MaxWidth, MaxHeight)
		if gw != tc.ww || gh != tc.wh {
			t.Errorf("Fit(%d,%d) = %dx%d, want %dx%d", tc.w, tc.h, gw, gh, tc.ww, tc.wh)
		}
	}
}

func TestFitStaysInBoxAndKeepsAspect(t *testing.T) {
	for w := 50; w <= 3000; w += 137 {
		for h := 50; h <= 3000; h += 173 {
			gw, gh := Fit(w, h, MaxWidth, MaxHeight)
			if gw > MaxWidth || gh > MaxHeight || gw < 1 || gh < 1 {
				t.Fatalf("Fit(%d,%d) = %dx%d out of box", w, h, gw, gh)
			}
			src := float64(w) / float64(h)
			// one pixel of rounding on the short side
			lo := float64(gw-1) / float64(gh+1)
			hi := float64(gw+1) / float64(max(gh-1, 1))
			if src < lo || src > hi {
				t.Fatalf("Fit(%d,%d) = %dx%d breaks aspect %.3f", w, h, gw, gh, src)
			}
		}
	}
}

func TestCompressResizesPNGToJPEG(t *testing.T) {
	b := pngBytes(t, 1200, 900, 255)
	a, err := Compress(context.Background(), source("roses.png", b))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if a.Width != 800 || a.Height != 600 {
		t.Fatalf("size = %dx%d", a.Width, a.Height)
	}
	img := decodeDataURL(t, a.DataURL)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("decoded size = %v", img.Bounds())
	}
	if a.OriginalSize != int64(len(b)) || a.CompressedSize != int64(len(a.JPEG)) {
		t.Fatalf("sizes = %d/%d", a.OriginalSize, a.CompressedSize)
	}
}

func TestCompressReencodesSmallImages(t *testing.T) {
	a, err := Compress(context.Background(), source("tiny.png", pngBytes(t, 40, 30, 128)))
	if err != nil {
		t.Fatal(err)
	}
	if a.Width != 40 || a.Height != 30 {
		t.Fatalf("small image should keep its size, got %dx%d", a.Width, a.Height)
	}
	decodeDataURL(t, a.DataURL)
}

func TestCompressRejectsLargeFiles(t *testing.T) {
	_, err := Compress(context.Background(), Source{Filename: "big.png", Size: MaxUploadBytes + 1, Body: strings.NewReader("x")})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// Reported size lies; the body is still capped.
	big := bytes.Repeat([]byte{0}, MaxUploadBytes+10)
	_, err = Compress(context.Background(), Source{Filename: "liar.png", Size: 10, Body: bytes.NewReader(big)})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for oversized body, got %v", err)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress(context.Background(), source("notes.txt", []byte("not an image")))
	if !errors.Is(err, ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if Message(err) != MsgProcessing {
		t.Fatalf("Message() = %q", Message(err))
	}
}

func TestCompressHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compress(ctx, source("a.png", pngBytes(t, 10, 10, 255)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsDataURL(t *testing.T) {
	if !IsDataURL("data:image/png;base64,AAA") {
		t.Fatal("expected data URL")
	}
	if IsDataURL("https://cdn.example.com/a.jpg") || IsDataURL("data:") {
		t.Fatal("unexpected data URL")
	}
}

func TestFromDataURL(t *testing.T) {
	raw := pngBytes(t, 1200, 900, 255)
	src, err := FromDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("FromDataURL() error = %v", err)
	}
	if src.Size != int64(len(raw)) {
		t.Fatalf("Size = %d, want %d", src.Size, len(raw))
	}
	a, err := Compress(context.Background(), src)
	if err != nil || a.Width != 800 || a.Height != 600 {
		t.Fatalf("Compress() = %dx%d, %v", a.Width, a.Height, err)
	}

	if _, err := FromDataURL("https://cdn.example.com/a.jpg"); !errors.Is(err, ErrNoFile) {
		t.Fatalf("link: %v", err)
	}
	if _, err := FromDataURL("data:image/png,rawbytes"); !errors.Is(err, ErrProcessing) {
		t.Fatalf("not base64: %v", err)
	}
	if _, err := FromDataURL("data:image/png;base64,@@@"); !errors.Is(err, ErrProcessing) {
		t.Fatalf("bad payload: %v", err)
	}
	big := base64.StdEncoding.EncodeToString(make([]byte, MaxUploadBytes+1))
	if _, err := FromDataURL("data:image/png;base64," + big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("oversized: %v", err)
	}
}
