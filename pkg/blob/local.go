package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs as plain files under a single directory. The
// directory is injected at construction; nothing in here reads process-wide
// state.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob: upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, r io.Reader, suggestedExt string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	key := NewKey(suggestedExt)

	// Write to a temp file first and rename, so a crash mid-write never
	// leaves a partial blob under a real key.
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("blob: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", 0, fmt.Errorf("blob: write: %w", err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return "", 0, fmt.Errorf("blob: finalize: %w", err)
	}

	return key, size, nil
}

func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blob: open: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: delete: %w", err)
	}
	return nil
}

// path joins the key under the store directory. Keys are generated by this
// package, but the base-name guard keeps a corrupted key from escaping the
// directory.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(strings.TrimSpace(key)))
}

// contextReader stops a copy once the context expires, so the caller's
// deadline bounds local writes the same way it bounds remote ones.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
