package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Ensure DirLister implements Lister.
var _ Lister = (*DirLister)(nil)

// DirLister treats every directory below root as a bucket.
// Keys are slash separated paths relative to the bucket directory.
type DirLister struct {
	root string
}

// NewDirLister creates a lister over a local directory tree.
func NewDirLister(root string) *DirLister {
	return &DirLister{root: root}
}

// ListObjects walks the bucket directory.
func (l *DirLister) ListObjects(ctx context.Context, bucket string) ([]Object, error) {
	if err := checkBucketName(bucket); err != nil {
		return nil, err
	}

	base := filepath.Join(l.root, bucket)

	info, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, base)
		}

		return nil, fmt.Errorf("failed to stat %s: %w", base, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrBucketNotFound, base)
	}

	var objects []Object

	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}

		objects = append(objects, Object{
			Key:          filepath.ToSlash(rel),
			Size:         fi.Size(),
			LastModified: fi.ModTime().UTC().Format(TimestampLayout),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", base, err)
	}

	return objects, nil
}
