package repository

import (
	"context"
	"sort"

	"github.com/parcelhq/parcel/internal/domain"
)

// Federation composes a local and a remote repository (§4.9), grounded on
// the two-repository composite implied by
// original_source/src/ports/package_repository.rs and spec.md's
// "find_best_package tries local, falls back to remote only on
// PackageNotFound" rule.
type Federation struct {
	Local  domain.PackageRepository
	Remote domain.PackageRepository
}

// NewFederation constructs a Federation over local and remote. remote may
// be nil when no remote repository is configured.
func NewFederation(local, remote domain.PackageRepository) *Federation {
	return &Federation{Local: local, Remote: remote}
}

// FindBestPackage tries the local repository first, falling back to
// remote only when the local lookup reports PackageNotFound; any other
// error propagates without falling back.
func (f *Federation) FindBestPackage(ctx context.Context, ref domain.PackageReference) (domain.Package, error) {
	pkg, err := f.Local.GetPackage(ctx, ref)
	if err == nil {
		return pkg, nil
	}
	var notFound domain.ErrPackageNotFound
	if !asNotFound(err, &notFound) {
		return domain.Package{}, err
	}
	if f.Remote == nil {
		return domain.Package{}, err
	}
	return f.Remote.GetPackage(ctx, ref)
}

// SearchAllPackages unions both repositories' search results, deduplicates
// by PackageId, and sorts lexicographically by name.
func (f *Federation) SearchAllPackages(ctx context.Context, query string) ([]domain.Package, error) {
	localResults, err := f.Local.SearchPackages(ctx, query)
	if err != nil {
		return nil, err
	}

	var remoteResults []domain.Package
	if f.Remote != nil {
		remoteResults, err = f.Remote.SearchPackages(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(localResults)+len(remoteResults))
	var merged []domain.Package
	for _, pkg := range append(localResults, remoteResults...) {
		id := pkg.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, pkg)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged, nil
}

// SyncRepositories refreshes both repositories' indices.
func (f *Federation) SyncRepositories(ctx context.Context) error {
	if _, err := f.Local.UpdateIndex(ctx); err != nil {
		return err
	}
	if f.Remote != nil {
		if _, err := f.Remote.UpdateIndex(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDependencies resolves each dependency to its best-satisfying
// package via FindBestPackage, used by the installer (C12) as the simple
// single-level lookup the resolver (C10) expands transitively.
func (f *Federation) ResolveDependencies(ctx context.Context, deps []domain.Dependency) ([]domain.Package, error) {
	resolved := make([]domain.Package, 0, len(deps))
	for _, dep := range deps {
		versions, err := f.localOrRemoteVersions(ctx, dep.Name.String())
		if err != nil {
			return nil, err
		}
		var parsed []domain.Version
		for _, v := range versions {
			if pv, err := domain.ParseVersion(v); err == nil {
				parsed = append(parsed, pv)
			}
		}
		best, ok := dep.Constraint.LatestSatisfying(parsed)
		if !ok {
			return nil, domain.ErrDependencyConflict{
				Package:  dep.Name.String(),
				Required: dep.Constraint.String(),
				Message:  "no available version satisfies the constraint",
			}
		}
		pkg, err := f.FindBestPackage(ctx, domain.PackageReference{Name: dep.Name, Version: best})
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, pkg)
	}
	return resolved, nil
}

func (f *Federation) localOrRemoteVersions(ctx context.Context, name string) ([]string, error) {
	versions, err := f.Local.GetPackageVersions(ctx, name)
	if err == nil && len(versions) > 0 {
		return versions, nil
	}
	if f.Remote == nil {
		return versions, err
	}
	remoteVersions, rerr := f.Remote.GetPackageVersions(ctx, name)
	if rerr != nil {
		if len(versions) > 0 {
			return versions, nil
		}
		return nil, rerr
	}
	return append(versions, remoteVersions...), nil
}

func asNotFound(err error, target *domain.ErrPackageNotFound) bool {
	if nf, ok := err.(domain.ErrPackageNotFound); ok {
		*target = nf
		return true
	}
	return false
}
