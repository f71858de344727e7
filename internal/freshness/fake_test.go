package freshness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exportmonitor/internal/storage"
)

var errBackendDown = errors.New("backend unavailable")

// fakeLister serves fixed listings; buckets in failing return errBackendDown.
type fakeLister struct {
	buckets map[string][]storage.Object
	failing map[string]bool
}

func (f *fakeLister) ListObjects(_ context.Context, bucket string) ([]storage.Object, error) {
	if f.failing[bucket] {
		return nil, errBackendDown
	}

	objects, ok := f.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrBucketNotFound, bucket)
	}

	return objects, nil
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		panic(err)
	}

	return t
}

func object(key, modified string) storage.Object {
	return storage.Object{Key: key, Size: 100, LastModified: ts(modified).UTC().Format(storage.TimestampLayout)}
}
