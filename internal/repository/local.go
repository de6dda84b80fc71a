package repository

import (
	"context"
	"strings"

	"github.com/parcelhq/parcel/internal/archive"
	"github.com/parcelhq/parcel/internal/domain"
	"github.com/parcelhq/parcel/internal/store"
)

// LocalRepository implements domain.PackageRepository against the local
// store, grounded on
// original_source/src/repositories/local_packages.rs's
// LocalPackagesRepository.
type LocalRepository struct {
	fs          domain.FS
	store       *store.Store
	packagesDir string
}

// NewLocalRepository constructs a LocalRepository rooted at st's store.
func NewLocalRepository(fs domain.FS, st *store.Store, packagesDir string) *LocalRepository {
	return &LocalRepository{fs: fs, store: st, packagesDir: packagesDir}
}

func (r *LocalRepository) GetPackage(ctx context.Context, ref domain.PackageReference) (domain.Package, error) {
	meta, err := r.store.LoadMeta(ctx, ref)
	if err != nil {
		return domain.Package{}, err
	}
	return packageFromMeta(meta, domain.Source{Kind: domain.SourceLocal, Path: r.store.PackageDir(ref)})
}

func (r *LocalRepository) SearchPackages(ctx context.Context, query string) ([]domain.Package, error) {
	index, err := r.GetIndex(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.Package
	for _, entry := range index.Packages {
		if !strings.Contains(entry.Name, query) {
			continue
		}
		for _, v := range entry.Versions {
			version, err := domain.ParseVersion(v)
			if err != nil {
				continue
			}
			name, err := domain.ParseName(entry.Name)
			if err != nil {
				continue
			}
			pkg, err := r.GetPackage(ctx, domain.PackageReference{Name: name, Version: version})
			if err != nil {
				continue
			}
			results = append(results, pkg)
		}
	}
	return results, nil
}

func (r *LocalRepository) GetPackageVersions(ctx context.Context, name string) ([]string, error) {
	dir := r.packagesDir + "/" + name
	if !r.fs.Exists(ctx, dir) {
		return nil, nil
	}
	entries, err := r.fs.ReadDir(ctx, dir)
	if err != nil {
		return nil, domain.ErrFilesystem{Operation: "read_dir", Path: dir, Err: err}
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := domain.ParseVersion(e.Name()); err == nil {
			versions = append(versions, e.Name())
		}
	}
	sortSemverStrings(versions)
	return versions, nil
}

func (r *LocalRepository) GetLatestVersion(ctx context.Context, name string) (string, error) {
	versions, err := r.GetPackageVersions(ctx, name)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", domain.ErrPackageNotFound{Reference: name}
	}
	return versions[len(versions)-1], nil
}

func (r *LocalRepository) DownloadPackage(ctx context.Context, ref domain.PackageReference) ([]byte, error) {
	if !r.store.PackageExists(ctx, ref) {
		return nil, domain.ErrPackageNotFound{Reference: ref.String()}
	}
	data, err := archive.Pack(ctx, r.fs, r.store.PackageDir(ref))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *LocalRepository) GetIndex(ctx context.Context) (domain.RepositoryIndex, error) {
	index := domain.RepositoryIndex{Name: "local", URL: r.packagesDir}
	if !r.fs.Exists(ctx, r.packagesDir) {
		return index, nil
	}
	entries, err := r.fs.ReadDir(ctx, r.packagesDir)
	if err != nil {
		return domain.RepositoryIndex{}, domain.ErrFilesystem{Operation: "read_dir", Path: r.packagesDir, Err: err}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		versions, err := r.GetPackageVersions(ctx, e.Name())
		if err != nil {
			return domain.RepositoryIndex{}, err
		}
		if len(versions) > 0 {
			index.Packages = append(index.Packages, domain.RepositoryPackageEntry{Name: e.Name(), Versions: versions})
		}
	}
	return index, nil
}

func (r *LocalRepository) UpdateIndex(ctx context.Context) (domain.RepositoryIndex, error) {
	return r.GetIndex(ctx)
}

func (r *LocalRepository) IsAvailable(ctx context.Context) bool {
	return r.fs.Exists(ctx, r.packagesDir)
}

func (r *LocalRepository) GetRepository() domain.Repository {
	return domain.Repository{Name: "local", Kind: domain.RepositoryLocal, BasePath: r.packagesDir}
}
