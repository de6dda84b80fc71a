// Package repository implements the local and remote package repository
// contracts (§4.7, §4.8) and their federation (§4.9), grounded on
// original_source/src/repositories/{local_packages,remote_packages}.rs and
// src/ports/package_repository.rs.
package repository

import (
	"sort"
	"strings"

	"github.com/parcelhq/parcel/internal/domain"
	"github.com/parcelhq/parcel/internal/store"
)

// parseDependency parses a meta.toml dependency string of the form
// "name" or "name@req" (§6): absent "@req" implies "*".
func parseDependency(s string) (domain.Dependency, error) {
	name, req := s, ""
	if idx := strings.Index(s, "@"); idx >= 0 {
		name, req = s[:idx], s[idx+1:]
	}
	parsedName, err := domain.ParseName(name)
	if err != nil {
		return domain.Dependency{}, err
	}
	constraint, err := domain.ParseVersionReq(req)
	if err != nil {
		return domain.Dependency{}, err
	}
	return domain.Dependency{Name: parsedName, Constraint: constraint, Kind: domain.DependencyRequired}, nil
}

// packageFromMeta synthesizes a domain.Package from a parsed meta.toml,
// defaulting Source to src per the caller's repository kind (Local path
// or Http URL, per §3 "Sources are informational except for Http").
func packageFromMeta(meta store.Meta, src domain.Source) (domain.Package, error) {
	name, err := domain.ParseName(meta.Name)
	if err != nil {
		return domain.Package{}, err
	}
	version, err := domain.ParseVersion(meta.Version)
	if err != nil {
		return domain.Package{}, err
	}

	deps := make([]domain.Dependency, 0, len(meta.Dependencies))
	for _, d := range meta.Dependencies {
		dep, err := parseDependency(d)
		if err != nil {
			return domain.Package{}, err
		}
		deps = append(deps, dep)
	}

	return domain.Package{
		Name:         name,
		Version:      version,
		Author:       meta.Author,
		Description:  meta.Description,
		Source:       src,
		Dependencies: deps,
		Provides:     meta.Provides,
		Conflicts:    meta.Conflicts,
	}, nil
}

// sortSemverStrings sorts version strings ascending by parsed semver,
// falling back to lexical order for unparseable entries (§4.7).
func sortSemverStrings(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		vi, erri := domain.ParseVersion(versions[i])
		vj, errj := domain.ParseVersion(versions[j])
		if erri == nil && errj == nil {
			return vi.LessThan(vj)
		}
		return versions[i] < versions[j]
	})
}
