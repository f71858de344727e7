package freshness

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"exportmonitor/internal/storage"
)

// ArtifactExtension is the extension of a completed export.
const ArtifactExtension = "zip"

// Parsing errors.
var (
	ErrMalformedTimestamp = errors.New("malformed last-modified timestamp")
	ErrMalformedObject    = errors.New("malformed storage object")
)

// ExportArtifact is one completed export found at the root of a bucket.
type ExportArtifact struct {
	Timestamp    time.Time `json:"timestamp"`
	Bucket       string    `json:"bucket"`
	Key          string    `json:"key"`
	Organization string    `json:"organization"`
	Size         int64     `json:"size"`
}

// ParseTimestamp parses a last-modified value in storage.TimestampLayout.
// Anything else, including other precisions or offsets, is rejected.
func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(storage.TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}

	return ts.UTC(), nil
}

// ParseArtifact turns a listed object into an ExportArtifact.
// The boolean is false for objects that are not exports (other extensions,
// keys below a prefix); those are skipped, not errors.
func ParseArtifact(bucket string, obj storage.Object) (ExportArtifact, bool, error) {
	if obj.Key == "" {
		return ExportArtifact{}, false, fmt.Errorf("%w: empty key in bucket %q", ErrMalformedObject, bucket)
	}

	if strings.Contains(obj.Key, "/") {
		return ExportArtifact{}, false, nil
	}

	dot := strings.LastIndex(obj.Key, ".")
	if dot < 0 || obj.Key[dot+1:] != ArtifactExtension {
		return ExportArtifact{}, false, nil
	}

	filename := obj.Key[:dot]
	organization, _, _ := strings.Cut(filename, "-")

	ts, err := ParseTimestamp(obj.LastModified)
	if err != nil {
		return ExportArtifact{}, false, fmt.Errorf("object %q in bucket %q: %w", obj.Key, bucket, err)
	}

	return ExportArtifact{
		Bucket:       bucket,
		Key:          obj.Key,
		Organization: organization,
		Size:         obj.Size,
		Timestamp:    ts,
	}, true, nil
}

// ParseArtifacts parses a whole listing. The first malformed object fails
// the listing.
func ParseArtifacts(bucket string, objects []storage.Object) ([]ExportArtifact, error) {
	artifacts := make([]ExportArtifact, 0, len(objects))

	for _, obj := range objects {
		artifact, ok, err := ParseArtifact(bucket, obj)
		if err != nil {
			return nil, err
		}

		if ok {
			artifacts = append(artifacts, artifact)
		}
	}

	return artifacts, nil
}
