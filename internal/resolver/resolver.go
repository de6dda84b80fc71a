// Package resolver implements the dependency resolver (§4.10): given a set
// of root package references and the currently installed set, it computes
// the transitive closure of Required dependencies and reports conflicts.
//
// This is not the teacher's symlink/conflict-detection engine kept in
// internal/planner (that package still resolves materialization-time
// filesystem conflicts for C5/C12's install-list application); this
// package resolves package-version conflicts ahead of any filesystem
// operation, grounded on
// original_source/src/ports/dependency_resolver.rs's DependencyResolver
// trait.
package resolver

import (
	"context"
	"sort"

	"github.com/parcelhq/parcel/internal/domain"
)

// PackageFetcher fetches a package and enumerates a dependency's available
// versions, the two federation operations the resolver needs. Implemented
// by *repository.Federation.
type PackageFetcher interface {
	FindBestPackage(ctx context.Context, ref domain.PackageReference) (domain.Package, error)
	ResolveDependencies(ctx context.Context, deps []domain.Dependency) ([]domain.Package, error)
}

// ResolutionResult is the resolver's output (§4.10).
type ResolutionResult struct {
	ToInstall []domain.PackageReference
	ToUpdate  []domain.PackageReference
	ToRemove  []domain.Name
	Conflicts []domain.ErrDependencyConflict
}

// InstalledPackage is the minimal view of an installed package the
// resolver needs to compute ToInstall/ToUpdate against the current state.
type InstalledPackage struct {
	Name    domain.Name
	Version domain.Version
}

type choice struct {
	version domain.Version
	pkg     domain.Package
}

// ResolveForInstallation computes the closure of roots' Required
// dependencies against the currently installed set (§4.10's algorithm).
func ResolveForInstallation(ctx context.Context, fetcher PackageFetcher, roots []domain.PackageReference, installed []InstalledPackage) (ResolutionResult, error) {
	chosen := make(map[domain.Name]*choice)
	var conflicts []domain.ErrDependencyConflict
	var order []domain.Name // insertion order, for deterministic output

	queue := make([]domain.PackageReference, len(roots))
	copy(queue, roots)

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		pkg, err := fetcher.FindBestPackage(ctx, ref)
		if err != nil {
			return ResolutionResult{}, err
		}

		if existing, ok := chosen[pkg.Name]; ok {
			if !existing.version.Equal(pkg.Version) {
				conflicts = append(conflicts, domain.ErrDependencyConflict{
					Package:   pkg.Name.String(),
					Required:  pkg.Version.String(),
					Installed: existing.version.String(),
					Message:   "a different version of this package was already chosen",
				})
			}
			continue
		}

		chosen[pkg.Name] = &choice{version: pkg.Version, pkg: pkg}
		order = append(order, pkg.Name)

		var required []domain.Dependency
		for _, dep := range pkg.Dependencies {
			if dep.Kind == domain.DependencyRequired {
				required = append(required, dep)
			}
		}

		// sort by name ascending within this package's own dependency set,
		// for deterministic transitive-expansion order (§4.10 tie-break)
		sort.Slice(required, func(i, j int) bool { return required[i].Name < required[j].Name })

		for _, dep := range required {
			depPkgs, err := fetcher.ResolveDependencies(ctx, []domain.Dependency{dep})
			if err != nil {
				return ResolutionResult{}, err
			}
			if len(depPkgs) == 0 {
				conflicts = append(conflicts, domain.ErrDependencyConflict{
					Package:  dep.Name.String(),
					Required: dep.Constraint.String(),
					Message:  "no package satisfies this dependency",
				})
				continue
			}
			resolvedPkg := depPkgs[0]

			if existing, ok := chosen[resolvedPkg.Name]; ok {
				if dep.Constraint.Matches(existing.version) {
					continue // already chosen version still satisfies this constraint
				}
				conflicts = append(conflicts, domain.ErrDependencyConflict{
					Package:   dep.Name.String(),
					Required:  dep.Constraint.String(),
					Installed: existing.version.String(),
					Message:   "chosen version does not satisfy this dependency's constraint",
				})
				continue
			}

			queue = append(queue, resolvedPkg.Reference())
		}
	}

	result := ResolutionResult{Conflicts: conflicts}

	installedByName := make(map[domain.Name]domain.Version, len(installed))
	for _, ip := range installed {
		installedByName[ip.Name] = ip.Version
	}

	for _, name := range order {
		c := chosen[name]
		ref := domain.PackageReference{Name: name, Version: c.version}

		installedVersion, isInstalled := installedByName[name]
		switch {
		case !isInstalled:
			result.ToInstall = append(result.ToInstall, ref)
		case !installedVersion.Equal(c.version):
			result.ToUpdate = append(result.ToUpdate, ref)
		}
	}

	return result, nil
}

// CheckConflicts reports dependency conflicts among an already-resolved
// package set without performing any further lookups, used to validate a
// hand-assembled installation plan.
func CheckConflicts(packages []domain.Package) []domain.ErrDependencyConflict {
	versions := make(map[domain.Name]domain.Version, len(packages))
	for _, pkg := range packages {
		versions[pkg.Name] = pkg.Version
	}

	var conflicts []domain.ErrDependencyConflict
	for _, pkg := range packages {
		for _, dep := range pkg.Dependencies {
			if dep.Kind != domain.DependencyRequired {
				continue
			}
			chosenVersion, ok := versions[dep.Name]
			if !ok {
				continue
			}
			if !dep.Constraint.Matches(chosenVersion) {
				conflicts = append(conflicts, domain.ErrDependencyConflict{
					Package:   dep.Name.String(),
					Required:  dep.Constraint.String(),
					Installed: chosenVersion.String(),
					Message:   "installed version does not satisfy " + pkg.Name.String() + "'s constraint",
				})
			}
		}
	}
	return conflicts
}
