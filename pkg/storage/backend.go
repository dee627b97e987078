// Package storage abstracts where edge tables and build outputs live. The
// course material ships datasets both as local files and as objects in S3,
// so every reader and writer goes through BlobStore.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// ErrNotFound is returned by Get when the key does not exist, regardless of
// backend.
var ErrNotFound = errors.New("storage: key not found")

// Location is a parsed storage URI.
type Location struct {
	Bucket string // empty for local paths
	Key    string
}

// S3 reports whether the location points at an S3 object.
func (l Location) S3() bool { return l.Bucket != "" }

// ParseURI splits "s3://bucket/path/to/key" into bucket and key. Anything
// without the s3 scheme is treated as a local path.
func ParseURI(uri string) (Location, error) {
	const scheme = "s3://"
	if !strings.HasPrefix(uri, scheme) {
		return Location{Key: uri}, nil
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Open resolves a URI to a backend and the key to use with it. Local paths
// get a LocalStore rooted at the filesystem root so the key is the path
// itself.
func Open(ctx context.Context, uri string) (BlobStore, string, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, "", err
	}
	if !loc.S3() {
		return NewLocalStore(""), loc.Key, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load aws config: %w", err)
	}
	return NewS3Store(cfg, loc.Bucket), loc.Key, nil
}
