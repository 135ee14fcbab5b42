package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lafelle.com/app/internal/shared/slug"
)

type PutInput struct {
	// Name is a human label (e.g. product name) used as the key prefix.
	Name        string
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

// Storage keeps published product images.
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// objectKey builds "<slug>-<uuid><ext>".
func objectKey(in PutInput) string {
	return slug.FromName(in.Name) + "-" + uuid.NewString() + safeExt(in.Filename, in.ContentType)
}

func safeExt(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	}
	if contentType == "image/jpeg" {
		return ".jpg"
	}
	return ""
}
