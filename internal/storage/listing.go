package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Ensure ListingLister implements Lister.
var _ Lister = (*ListingLister)(nil)

// ListingLister reads saved bucket listings from <root>/<bucket>.json.
// The file holds the document printed by
// `aws s3api list-objects-v2 --bucket <bucket> --output json`.
type ListingLister struct {
	root string
}

type listingDocument struct {
	Contents []listingEntry `json:"Contents"`
}

type listingEntry struct {
	Key          *string `json:"Key"`
	LastModified *string `json:"LastModified"`
	Size         int64   `json:"Size"`
}

// NewListingLister creates a lister reading listings below root.
func NewListingLister(root string) *ListingLister {
	return &ListingLister{root: root}
}

// ListObjects decodes the saved listing of bucket.
func (l *ListingLister) ListObjects(ctx context.Context, bucket string) ([]Object, error) {
	if err := checkBucketName(bucket); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.root, bucket+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, path)
		}

		return nil, fmt.Errorf("failed to read listing %s: %w", path, err)
	}

	var doc listingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedListing, path, err)
	}

	objects := make([]Object, 0, len(doc.Contents))

	for i, entry := range doc.Contents {
		if entry.Key == nil || entry.LastModified == nil {
			return nil, fmt.Errorf("%w: %s: entry %d has no Key or LastModified", ErrMalformedListing, path, i)
		}

		objects = append(objects, Object{
			Key:          *entry.Key,
			Size:         entry.Size,
			LastModified: *entry.LastModified,
		})
	}

	return objects, nil
}
