package domain

import (
	"context"
	"time"
)

// RepositoryKind distinguishes where a repository's packages live.
type RepositoryKind int

const (
	RepositoryLocal RepositoryKind = iota
	RepositoryHTTP
)

// Repository identifies one configured package source (§4.7/§4.8).
type Repository struct {
	Name     string
	Kind     RepositoryKind
	BaseURL  string // RepositoryHTTP: the index's base URL
	BasePath string // RepositoryLocal: packages_dir
}

// RepositoryPackageEntry is one package's version listing inside an index.
type RepositoryPackageEntry struct {
	Name     string   `toml:"name"`
	Versions []string `toml:"versions"` // preserved in display form, compared as semver
}

// RepositoryIndex is the flat catalogue a repository publishes (§3).
type RepositoryIndex struct {
	Name     string                   `toml:"name"`
	URL      string                   `toml:"url"`
	Packages []RepositoryPackageEntry `toml:"packages"`
}

// GetVersions returns the version list for name, if the index carries it.
func (idx RepositoryIndex) GetVersions(name string) ([]string, bool) {
	for _, entry := range idx.Packages {
		if entry.Name == name {
			return entry.Versions, true
		}
	}
	return nil, false
}

// LatestSatisfying returns the highest version string in the index for dep,
// or "" if none of the listed versions parse and satisfy the constraint.
func (idx RepositoryIndex) LatestSatisfying(dep Dependency) (string, bool) {
	versions, ok := idx.GetVersions(dep.Name.String())
	if !ok {
		return "", false
	}
	var parsed []Version
	for _, v := range versions {
		if pv, err := ParseVersion(v); err == nil {
			parsed = append(parsed, pv)
		}
	}
	best, found := dep.Constraint.LatestSatisfying(parsed)
	if !found {
		return "", false
	}
	return best.String(), true
}

// PackageRepository is the contract a local or remote package source
// implements (§4.7, §4.8), grounded on
// original_source/src/ports/package_repository.rs.
type PackageRepository interface {
	GetPackage(ctx context.Context, ref PackageReference) (Package, error)
	SearchPackages(ctx context.Context, query string) ([]Package, error)
	GetPackageVersions(ctx context.Context, name string) ([]string, error)
	GetLatestVersion(ctx context.Context, name string) (string, error)
	DownloadPackage(ctx context.Context, ref PackageReference) ([]byte, error)
	GetIndex(ctx context.Context) (RepositoryIndex, error)
	UpdateIndex(ctx context.Context) (RepositoryIndex, error)
	IsAvailable(ctx context.Context) bool
	GetRepository() Repository
}

// Cache is the content cache contract for downloaded archives and
// repository indices (§4.3), grounded on
// original_source/src/ports/cache_manager.rs.
type Cache interface {
	GetPackage(ctx context.Context, ref PackageReference) ([]byte, bool, error)
	PutPackage(ctx context.Context, ref PackageReference, data []byte) error
	RemovePackage(ctx context.Context, ref PackageReference) error
	ClearPackages(ctx context.Context) error
	HasPackage(ctx context.Context, ref PackageReference) bool

	GetIndex(ctx context.Context, url string) ([]byte, bool, error)
	PutIndex(ctx context.Context, url string, data []byte) error

	Size(ctx context.Context) (int64, error)
	CleanupOldEntries(ctx context.Context, maxAge time.Duration) error
}
