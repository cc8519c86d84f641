package blob

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob: not found")

// Store persists raw file bytes under opaque keys. It has no metadata
// awareness: the relational store decides what "exists", a keyed blob
// without a metadata row is just garbage.
type Store interface {
	// Put writes the content under a freshly generated unique key and
	// returns the key plus the observed byte size.
	Put(ctx context.Context, r io.Reader, suggestedExt string) (key string, size int64, err error)
	// Get returns a reader for the blob, or ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewKey generates a unique storage key. The key is never derived from the
// user-supplied file name; only a sanitized extension is carried over so
// stored objects stay recognizable.
func NewKey(suggestedExt string) string {
	ext := strings.ToLower(strings.TrimPrefix(suggestedExt, "."))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + b.String()
}
