// Package imageintake turns an uploaded image file into a size-bounded JPEG
// data URL that can be embedded directly in a product record.
package imageintake

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	// Decoders accepted from the file input.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	MaxUploadBytes = 5 * 1024 * 1024
	JPEGQuality    = 80

	DataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrTooLarge   = errors.New("imageintake: file exceeds 5MB")
	ErrNoFile     = errors.New("imageintake: no file selected")
	ErrProcessing = errors.New("imageintake: cannot process image")
)

// User-facing messages.
const (
	MsgTooLarge   = "File size too large. Please select an image smaller than 5MB."
	MsgProcessing = "Error processing image. Please try again."
)

// Source is a selected file. Size is the size reported by the upload and is
// checked before anything is read.
type Source struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// Asset is the transient result of compressing a Source.
type Asset struct {
	Filename       string
	OriginalSize   int64
	DataURL        string
	CompressedSize int64
	Width          int
	Height         int
	// JPEG holds the encoded bytes, used when the image is published to
	// storage instead of being inlined.
	JPEG []byte
}

// CheckSize rejects files above MaxUploadBytes.
func CheckSize(size int64) error {
	if size > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// Compress decodes src, fits it into MaxWidth×MaxHeight and re-encodes it
// as JPEG at JPEGQuality. Small images are re-encoded too. Alpha is dropped.
func Compress(ctx context.Context, src Source) (Asset, error) {
	if src.Body == nil {
		return Asset{}, ErrNoFile
	}
	if err := CheckSize(src.Size); err != nil {
		return Asset{}, err
	}

	// The reported size can lie; never buffer more than the limit.
	raw, err := io.ReadAll(io.LimitReader(src.Body, MaxUploadBytes+1))
	if err != nil {
		return Asset{}, fmt.Errorf("%w: read: %v", ErrProcessing, err)
	}
	if len(raw) > MaxUploadBytes {
		return Asset{}, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	if err := checkSourceBounds(cfg.Width, cfg.Height); err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	b := img.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), MaxWidth, MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Asset{}, fmt.Errorf("%w: encode: %v", ErrProcessing, err)
	}

	enc := out.Bytes()
	return Asset{
		Filename:       src.Filename,
		OriginalSize:   int64(len(raw)),
		DataURL:        DataURLPrefix + base64.StdEncoding.EncodeToString(enc),
		CompressedSize: int64(len(enc)),
		Width:          w,
		Height:         h,
		JPEG:           enc,
	}, nil
}

// Message maps a pipeline error to the text shown under the image field.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTooLarge):
		return MsgTooLarge
	default:
		return MsgProcessing
	}
}

// FromDataURL turns an inline "data:image/...;base64," value into a Source
// so it can go through the pipeline like an uploaded file.
func FromDataURL(s string) (Source, error) {
	if !IsDataURL(s) {
		return Source{}, ErrNoFile
	}
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return Source{}, fmt.Errorf("%w: not a base64 data URL", ErrProcessing)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadBytes+2 {
		return Source{}, ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	if err := CheckSize(int64(len(raw))); err != nil {
		return Source{}, err
	}
	return Source{Filename: "inline.jpg", Size: int64(len(raw)), Body: bytes.NewReader(raw)}, nil
}

// IsDataURL reports whether s is an inline image rather than a link.
func IsDataURL(s string) bool {
	return len(s) >= len("data:image/") && s[:len("data:image/")] == "data:image/"
}
