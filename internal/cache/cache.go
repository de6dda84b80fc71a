// Package cache implements the download/index cache (§4.3): a filesystem-
// backed store for fetched package archives and repository indices, keyed
// by PackageReference for archives and by URL for indices, grounded on
// original_source/src/ports/cache_manager.rs's CacheManager trait.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/parcelhq/parcel/internal/domain"
)

// FSCache is a domain.FS-backed cache rooted at a cache directory
// (paths.cache_dir). Packages are stored at packages/{name}-{version}.uhp;
// indices are stored at indices/{sha256(url)}.toml so arbitrary URLs are
// safe path components.
type FSCache struct {
	fs   domain.FS
	root string
}

// New constructs a cache rooted at root (typically domain.Paths.CacheDir()).
func New(fs domain.FS, root string) *FSCache {
	return &FSCache{fs: fs, root: root}
}

func (c *FSCache) packagePath(ref domain.PackageReference) string {
	return c.root + "/packages/" + ref.Name.String() + "-" + ref.Version.String() + ".uhp"
}

func (c *FSCache) indexPath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return c.root + "/indices/" + hex.EncodeToString(sum[:]) + ".toml"
}

// GetPackage returns a cached archive's bytes, or ok=false on a miss.
// Per §4.3 "corruption is non-fatal": a read error is treated as a miss
// rather than propagated, so callers simply re-download.
func (c *FSCache) GetPackage(ctx context.Context, ref domain.PackageReference) ([]byte, bool, error) {
	path := c.packagePath(ref)
	if !c.fs.Exists(ctx, path) {
		return nil, false, nil
	}
	data, err := c.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// PutPackage writes data as the cached archive for ref.
func (c *FSCache) PutPackage(ctx context.Context, ref domain.PackageReference, data []byte) error {
	path := c.packagePath(ref)
	if err := c.fs.MkdirAll(ctx, parentDir(path), 0o755); err != nil {
		return domain.ErrCache{Key: ref.String(), Err: err}
	}
	if err := c.fs.WriteFile(ctx, path, data, 0o644); err != nil {
		return domain.ErrCache{Key: ref.String(), Err: err}
	}
	return nil
}

// RemovePackage deletes a cached archive, if present.
func (c *FSCache) RemovePackage(ctx context.Context, ref domain.PackageReference) error {
	path := c.packagePath(ref)
	if !c.fs.Exists(ctx, path) {
		return nil
	}
	if err := c.fs.Remove(ctx, path); err != nil {
		return domain.ErrCache{Key: ref.String(), Err: err}
	}
	return nil
}

// ClearPackages removes every cached archive.
func (c *FSCache) ClearPackages(ctx context.Context) error {
	dir := c.root + "/packages"
	if !c.fs.Exists(ctx, dir) {
		return nil
	}
	if err := c.fs.RemoveAll(ctx, dir); err != nil {
		return domain.ErrCache{Key: "packages", Err: err}
	}
	return nil
}

// HasPackage is a fast existence check that does not read file contents.
func (c *FSCache) HasPackage(ctx context.Context, ref domain.PackageReference) bool {
	return c.fs.Exists(ctx, c.packagePath(ref))
}

// GetIndex returns a cached repository index's raw bytes.
func (c *FSCache) GetIndex(ctx context.Context, url string) ([]byte, bool, error) {
	path := c.indexPath(url)
	if !c.fs.Exists(ctx, path) {
		return nil, false, nil
	}
	data, err := c.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// PutIndex caches a repository index's raw bytes under url's key.
func (c *FSCache) PutIndex(ctx context.Context, url string, data []byte) error {
	path := c.indexPath(url)
	if err := c.fs.MkdirAll(ctx, parentDir(path), 0o755); err != nil {
		return domain.ErrCache{Key: url, Err: err}
	}
	if err := c.fs.WriteFile(ctx, path, data, 0o644); err != nil {
		return domain.ErrCache{Key: url, Err: err}
	}
	return nil
}

// Size reports the total bytes occupied by cached packages and indices.
func (c *FSCache) Size(ctx context.Context) (int64, error) {
	var total int64
	for _, dir := range []string{c.root + "/packages", c.root + "/indices"} {
		n, err := c.dirSize(ctx, dir)
		if err != nil {
			return 0, domain.ErrCache{Key: dir, Err: err}
		}
		total += n
	}
	return total, nil
}

func (c *FSCache) dirSize(ctx context.Context, dir string) (int64, error) {
	if !c.fs.Exists(ctx, dir) {
		return 0, nil
	}
	entries, err := c.fs.ReadDir(ctx, dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// CleanupOldEntries removes cached entries whose modification time is
// older than maxAge (§4.3 "cleanup_old_entries(max_age)" TTL sweep).
func (c *FSCache) CleanupOldEntries(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	for _, dir := range []string{c.root + "/packages", c.root + "/indices"} {
		if err := c.sweepDir(ctx, dir, cutoff); err != nil {
			return domain.ErrCache{Key: dir, Err: err}
		}
	}
	return nil
}

func (c *FSCache) sweepDir(ctx context.Context, dir string, cutoff time.Time) error {
	if !c.fs.Exists(ctx, dir) {
		return nil
	}
	entries, err := c.fs.ReadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		modTime, ok := info.ModTime().(time.Time)
		if !ok || modTime.After(cutoff) {
			continue
		}
		_ = c.fs.Remove(ctx, dir+"/"+e.Name())
	}
	return nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
