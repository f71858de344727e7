package freshness

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"exportmonitor/internal/logger"
	"exportmonitor/internal/storage"
)

// ErrEmptyBucket is returned when an artifact lookup names no bucket.
var ErrEmptyBucket = errors.New("bucket identifier is empty")

// Catalog lists buckets and caches their parsed artifacts for one run.
// Each bucket is listed at most once, however many organizations share it.
type Catalog struct {
	lister      storage.Lister
	logger      *logger.Logger
	buckets     map[string][]ExportArtifact
	concurrency int
	mu          sync.Mutex
}

// NewCatalog creates an empty catalog. concurrency bounds parallel
// listings in Prefetch; values below 1 mean sequential.
func NewCatalog(lister storage.Lister, log *logger.Logger, concurrency int) *Catalog {
	if concurrency < 1 {
		concurrency = 1
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Catalog{
		lister:      lister,
		logger:      log,
		buckets:     make(map[string][]ExportArtifact),
		concurrency: concurrency,
	}
}

// Artifacts returns the export artifacts of bucket, listing it on first use.
func (c *Catalog) Artifacts(ctx context.Context, bucket string) ([]ExportArtifact, error) {
	if bucket == "" {
		return nil, ErrEmptyBucket
	}

	c.mu.Lock()
	artifacts, ok := c.buckets[bucket]
	c.mu.Unlock()

	if ok {
		return artifacts, nil
	}

	artifacts, err := c.fetch(ctx, bucket)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buckets[bucket] = artifacts
	c.mu.Unlock()

	return artifacts, nil
}

// Prefetch lists every bucket not cached yet. Listings run in parallel up
// to the catalog concurrency and are only added to the cache once all of
// them succeeded.
func (c *Catalog) Prefetch(ctx context.Context, buckets []string) error {
	var pending []string

	seen := make(map[string]bool, len(buckets))

	c.mu.Lock()
	for _, bucket := range buckets {
		if bucket == "" {
			c.mu.Unlock()
			return ErrEmptyBucket
		}

		if _, cached := c.buckets[bucket]; cached || seen[bucket] {
			continue
		}

		seen[bucket] = true
		pending = append(pending, bucket)
	}
	c.mu.Unlock()

	results := make([][]ExportArtifact, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, bucket := range pending {
		i, bucket := i, bucket // per-iteration copies; module targets go 1.21

		g.Go(func() error {
			artifacts, err := c.fetch(gctx, bucket)
			if err != nil {
				return err
			}

			results[i] = artifacts

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, bucket := range pending {
		c.buckets[bucket] = results[i]
	}

	return nil
}

// Buckets returns the number of cached buckets.
func (c *Catalog) Buckets() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.buckets)
}

func (c *Catalog) fetch(ctx context.Context, bucket string) ([]ExportArtifact, error) {
	objects, err := c.lister.ListObjects(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %q: %w", bucket, err)
	}

	artifacts, err := ParseArtifacts(bucket, objects)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("listed bucket", "bucket", bucket, "objects", len(objects), "artifacts", len(artifacts))

	return artifacts, nil
}
