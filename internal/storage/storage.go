// Package storage lists the objects stored in an export bucket.
//
// Every backend reports objects in the same shape: key, byte size and the
// last-modified time rendered with TimestampLayout. Consumers parse and
// validate the timestamp themselves.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TimestampLayout is the last-modified format of a listed object:
// UTC with microsecond precision and a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Backend names.
const (
	BackendS3      = "s3"
	BackendListing = "listing"
	BackendDir     = "dir"
)

// Storage errors.
var (
	ErrUnknownBackend   = errors.New("unknown storage backend")
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrInvalidBucket    = errors.New("invalid bucket name")
	ErrMalformedListing = errors.New("malformed object listing")
	ErrMissingRoot      = errors.New("storage root is required")
)

// Object is one entry of a raw bucket listing.
type Object struct {
	Key          string `json:"key"`
	LastModified string `json:"last_modified"`
	Size         int64  `json:"size"`
}

// Lister returns the full object listing of a bucket.
type Lister interface {
	ListObjects(ctx context.Context, bucket string) ([]Object, error)
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Region      string
	Endpoint    string
	Root        string
	MaxAttempts int
	PathStyle   bool
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendS3, BackendListing, BackendDir}
}

// New creates the Lister described by opts.
func New(ctx context.Context, opts Options) (Lister, error) {
	switch opts.Backend {
	case BackendS3:
		return NewS3Lister(ctx, opts)
	case BackendListing:
		if opts.Root == "" {
			return nil, fmt.Errorf("%w: backend %q", ErrMissingRoot, opts.Backend)
		}

		return NewListingLister(opts.Root), nil
	case BackendDir:
		if opts.Root == "" {
			return nil, fmt.Errorf("%w: backend %q", ErrMissingRoot, opts.Backend)
		}

		return NewDirLister(opts.Root), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// checkBucketName rejects names that would escape a filesystem root.
func checkBucketName(bucket string) error {
	if bucket == "" || bucket == "." || bucket == ".." || strings.ContainsAny(bucket, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}

	return nil
}
