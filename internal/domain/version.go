package domain

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"
)

// Version wraps a parsed semantic version. PackageReference and Package use
// Version as the authoritative ordering; RepositoryIndex keeps the raw
// string form alongside it so unparseable entries are never discarded
// (spec requires versions to round-trip even when not valid semver).
type Version struct {
	raw  string
	semv *semver.Version
}

// ParseVersion parses a semantic version string.
func ParseVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, ErrInvalidVersion{Value: s, Reason: err.Error()}
	}
	return Version{raw: s, semv: v}, nil
}

// String returns the original, as-given representation of the version.
func (v Version) String() string {
	if v.semv == nil {
		return v.raw
	}
	return v.semv.Original()
}

// Canonical returns the normalized "major.minor.patch[-pre][+build]" form.
func (v Version) Canonical() string {
	if v.semv == nil {
		return v.raw
	}
	return v.semv.String()
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater than o.
func (v Version) Compare(o Version) int {
	return v.semv.Compare(o.semv)
}

// LessThan reports whether v orders before o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// IsZero reports whether this Version was never successfully parsed.
func (v Version) IsZero() bool { return v.semv == nil }

// MarshalJSON stores the version in its original display form (see String).
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON parses a version from its display form.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// VersionReq wraps a semantic version constraint expression, e.g. "^1.0.0".
type VersionReq struct {
	raw    string
	constr *semver.Constraints
}

// ParseVersionReq parses a version constraint expression. The empty string
// and "*" both mean "any version" per spec.md §4.7 (meta.toml dependency
// strings without an "@req" suffix default to "*").
func ParseVersionReq(s string) (VersionReq, error) {
	if s == "" {
		s = "*"
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return VersionReq{}, ErrInvalidVersion{Value: s, Reason: err.Error()}
	}
	return VersionReq{raw: s, constr: c}, nil
}

// MustVersionReq parses a constraint, panicking on error. Intended for
// constants and test fixtures where the expression is known-valid.
func MustVersionReq(s string) VersionReq {
	r, err := ParseVersionReq(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the original constraint expression.
func (r VersionReq) String() string { return r.raw }

// Matches reports whether v satisfies the constraint.
func (r VersionReq) Matches(v Version) bool {
	if r.constr == nil || v.semv == nil {
		return false
	}
	return r.constr.Check(v.semv)
}

// LatestSatisfying returns the highest version in vs that satisfies r.
// Implements Testable Property 5: the result is the semantic-version
// maximum of the subset for which Matches is true.
func (r VersionReq) LatestSatisfying(vs []Version) (Version, bool) {
	var best Version
	found := false
	for _, v := range vs {
		if v.IsZero() || !r.Matches(v) {
			continue
		}
		if !found || best.LessThan(v) {
			best = v
			found = true
		}
	}
	return best, found
}

// SortVersions sorts versions ascending in place.
func SortVersions(vs []Version) {
	// insertion sort: version lists from a single store directory are small
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].LessThan(vs[j-1]); j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}
