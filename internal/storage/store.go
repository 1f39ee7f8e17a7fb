package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Get and Stat for a missing key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored blob; content type and ETag are whatever
// the store reports, there is no metadata row of our own.
type ObjectInfo struct {
	ContentType string
	Size        int64
	ETag        string
}

// Object is a stored blob opened for reading. Callers own Body.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// ObjectStore is the blob backend for images. Keys look like
// "{ownerId}/{generatedId}.{ext}".
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}
