package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelhq/parcel/internal/adapters"
	"github.com/parcelhq/parcel/internal/cache"
	"github.com/parcelhq/parcel/internal/domain"
)

func mustRef(t *testing.T, name, version string) domain.PackageReference {
	t.Helper()
	n, err := domain.ParseName(name)
	require.NoError(t, err)
	v, err := domain.ParseVersion(version)
	require.NoError(t, err)
	return domain.PackageReference{Name: n, Version: v}
}

func TestFSCache_PackageMissByDefault(t *testing.T) {
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	assert.False(t, c.HasPackage(context.Background(), ref))
	data, ok, err := c.GetPackage(context.Background(), ref)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFSCache_PutThenGetPackage(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("archive-bytes")))
	assert.True(t, c.HasPackage(ctx, ref))

	data, ok, err := c.GetPackage(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("archive-bytes"), data)
}

func TestFSCache_RemovePackage(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("data")))
	require.NoError(t, c.RemovePackage(ctx, ref))
	assert.False(t, c.HasPackage(ctx, ref))
}

func TestFSCache_RemovePackage_MissingIsNotError(t *testing.T) {
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")
	assert.NoError(t, c.RemovePackage(context.Background(), ref))
}

func TestFSCache_ClearPackagesRemovesAllButNotIndices(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("data")))
	require.NoError(t, c.PutIndex(ctx, "https://repo.example/index.toml", []byte("index")))

	require.NoError(t, c.ClearPackages(ctx))

	assert.False(t, c.HasPackage(ctx, ref))
	_, ok, err := c.GetIndex(ctx, "https://repo.example/index.toml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFSCache_IndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	url := "https://repo.example/index.toml"

	_, ok, err := c.GetIndex(ctx, url)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutIndex(ctx, url, []byte("index contents")))

	data, ok, err := c.GetIndex(ctx, url)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("index contents"), data)
}

func TestFSCache_Size(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("12345")))
	require.NoError(t, c.PutIndex(ctx, "https://repo.example/index.toml", []byte("12")))

	size, err := c.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
}

func TestFSCache_Size_EmptyCache(t *testing.T) {
	c := cache.New(adapters.NewMemFS(), "/cache")
	size, err := c.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
}

func TestFSCache_CleanupOldEntries_RemovesEntriesOlderThanCutoff(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("data")))
	time.Sleep(time.Millisecond)

	// maxAge=0: cutoff is "now", and the entry was written strictly
	// before "now", so it is swept.
	require.NoError(t, c.CleanupOldEntries(ctx, 0))
	assert.False(t, c.HasPackage(ctx, ref))
}

func TestFSCache_CleanupOldEntries_KeepsRecentEntries(t *testing.T) {
	ctx := context.Background()
	c := cache.New(adapters.NewMemFS(), "/cache")
	ref := mustRef(t, "vim", "1.0.0")

	require.NoError(t, c.PutPackage(ctx, ref, []byte("data")))

	require.NoError(t, c.CleanupOldEntries(ctx, time.Hour))
	assert.True(t, c.HasPackage(ctx, ref))
}
