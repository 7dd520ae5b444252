// Package storage puts user uploads into an S3-compatible bucket and hands
// back the public URL the rest of the app stores.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ObjectStorage interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Put's URL; ok is false for foreign URLs.
	KeyFromURL(url string) (key string, ok bool)
}

// NewObjectKey builds "<prefix>/<owner>/<yyyy>/<mm>/<uuid><ext>".
func NewObjectKey(prefix string, owner uuid.UUID, ext string) string {
	d := time.Now().UTC()
	name := uuid.New().String() + strings.ToLower(ext)
	return path.Join(prefix, owner.String(), fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", d.Month()), name)
}
