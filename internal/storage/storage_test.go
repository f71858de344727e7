package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleListing = `{
  "Contents": [
    {"Key": "OrgA-2024-01-01.zip", "LastModified": "2024-01-01T10:00:00.000000Z", "Size": 1024},
    {"Key": "sub/OrgA-2024-01-02.zip", "LastModified": "2024-01-02T10:00:00.000000Z", "Size": 2048}
  ]
}`

func TestListingLister_ListObjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "exports.json"), sampleListing)

	objects, err := NewListingLister(root).ListObjects(context.Background(), "exports")
	require.NoError(t, err)
	assert.Equal(t, []Object{
		{Key: "OrgA-2024-01-01.zip", LastModified: "2024-01-01T10:00:00.000000Z", Size: 1024},
		{Key: "sub/OrgA-2024-01-02.zip", LastModified: "2024-01-02T10:00:00.000000Z", Size: 2048},
	}, objects)
}

func TestListingLister_EmptyBucket(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.json"), `{}`)

	objects, err := NewListingLister(root).ListObjects(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestListingLister_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken.json"), `{"Contents": [`)
	writeFile(t, filepath.Join(root, "nokey.json"), `{"Contents": [{"LastModified": "2024-01-01T10:00:00.000000Z"}]}`)

	tests := []struct {
		name   string
		bucket string
		want   error
	}{
		{"missing file", "absent", ErrBucketNotFound},
		{"invalid json", "broken", ErrMalformedListing},
		{"entry without key", "nokey", ErrMalformedListing},
		{"path traversal", "../etc", ErrInvalidBucket},
		{"empty name", "", ErrInvalidBucket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewListingLister(root).ListObjects(context.Background(), tt.bucket)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDirLister_ListObjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "exports", "OrgA-2024-01-01.zip"), "abc")
	writeFile(t, filepath.Join(root, "exports", "nested", "OrgB-2024-01-01.zip"), "abcdef")

	mtime := time.Date(2024, 1, 3, 4, 5, 6, 789000000, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(root, "exports", "OrgA-2024-01-01.zip"), mtime, mtime))

	objects, err := NewDirLister(root).ListObjects(context.Background(), "exports")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	byKey := map[string]Object{}
	for _, obj := range objects {
		byKey[obj.Key] = obj
	}

	assert.Equal(t, Object{Key: "OrgA-2024-01-01.zip", Size: 3, LastModified: "2024-01-03T04:05:06.789000Z"}, byKey["OrgA-2024-01-01.zip"])
	assert.Equal(t, int64(6), byKey["nested/OrgB-2024-01-01.zip"].Size)
}

func TestDirLister_MissingBucket(t *testing.T) {
	_, err := NewDirLister(t.TempDir()).ListObjects(context.Background(), "absent")
	require.ErrorIs(t, err, ErrBucketNotFound)
}

func TestCountingLister(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "exports.json"), sampleListing)

	counter := NewCountingLister(NewListingLister(root))
	for i := 0; i < 3; i++ {
		_, err := counter.ListObjects(context.Background(), "exports")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, counter.Calls("exports"))
	assert.Equal(t, 0, counter.Calls("other"))
	assert.Equal(t, 3, counter.Total())
}

func TestNew(t *testing.T) {
	root := t.TempDir()

	lister, err := New(context.Background(), Options{Backend: BackendListing, Root: root})
	require.NoError(t, err)
	assert.IsType(t, &ListingLister{}, lister)

	lister, err = New(context.Background(), Options{Backend: BackendDir, Root: root})
	require.NoError(t, err)
	assert.IsType(t, &DirLister{}, lister)

	_, err = New(context.Background(), Options{Backend: BackendDir})
	require.ErrorIs(t, err, ErrMissingRoot)

	_, err = New(context.Background(), Options{Backend: "gcs"})
	require.ErrorIs(t, err, ErrUnknownBackend)
}
