package storage

import (
	"context"
	"sync"
)

// CountingLister records how many times each bucket was listed.
type CountingLister struct {
	next  Lister
	calls map[string]int
	mu    sync.Mutex
}

// NewCountingLister wraps next.
func NewCountingLister(next Lister) *CountingLister {
	return &CountingLister{
		next:  next,
		calls: make(map[string]int),
	}
}

// ListObjects counts the call and delegates.
func (c *CountingLister) ListObjects(ctx context.Context, bucket string) ([]Object, error) {
	c.mu.Lock()
	c.calls[bucket]++
	c.mu.Unlock()

	return c.next.ListObjects(ctx, bucket)
}

// Calls returns the number of listings of bucket.
func (c *CountingLister) Calls(bucket string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[bucket]
}

// Total returns the number of listings across all buckets.
func (c *CountingLister) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, n := range c.calls {
		total += n
	}

	return total
}
