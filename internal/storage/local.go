package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local writes images under BaseDir and serves them from URLPrefix (the
// router mounts BaseDir there).
type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Put writes to a temp file and renames it, so the static handler never
// serves a half-written image.
func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}
	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return PutResult{}, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(l.BaseDir, ".upload-*")
	if err != nil {
		return PutResult{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return PutResult{}, fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return PutResult{}, fmt.Errorf("write image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return PutResult{}, err
	}

	key := objectKey(in)
	if err := os.Rename(tmp.Name(), filepath.Join(l.BaseDir, key)); err != nil {
		return PutResult{}, fmt.Errorf("publish image: %w", err)
	}
	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

// Delete removes key from BaseDir. Path components are stripped and a
// missing file is not an error.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.BaseDir, filepath.Base(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
