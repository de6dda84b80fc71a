package domain

import (
	"fmt"
	"strings"
)

// SourceKind identifies where a package's archive originates.
type SourceKind int

const (
	SourceGit SourceKind = iota
	SourceHTTP
	SourceLocal
)

func (k SourceKind) String() string {
	switch k {
	case SourceGit:
		return "git"
	case SourceHTTP:
		return "http"
	case SourceLocal:
		return "local"
	default:
		return "local"
	}
}

// Source is the informational origin of a package (§3). Only Http is
// consulted during download; Git and Local are carried through as metadata.
type Source struct {
	Kind    SourceKind
	URL     string // Git, Http
	Release string // Git, optional
	Path    string // Local
}

// Platform identifies an operating system or architecture, with an escape
// hatch for values the enum does not name.
type Platform struct {
	name   string
	custom string
}

var (
	OSLinux   = Platform{name: "linux"}
	OSDarwin  = Platform{name: "darwin"}
	OSWindows = Platform{name: "windows"}
	OSAny     = Platform{name: "any"}

	ArchAMD64 = Platform{name: "amd64"}
	ArchARM64 = Platform{name: "arm64"}
	ArchAny   = Platform{name: "any"}
)

// CustomPlatform constructs a Platform outside the named enum values.
func CustomPlatform(value string) Platform {
	return Platform{name: value, custom: value}
}

func (p Platform) String() string {
	if p.custom != "" {
		return p.custom
	}
	return p.name
}

// Target is the (os, arch) pair a package archive was built for.
type Target struct {
	OS   Platform
	Arch Platform
}

// ChecksumAlgorithm names a supported digest algorithm.
type ChecksumAlgorithm string

const (
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	ChecksumSHA1   ChecksumAlgorithm = "sha1"
	ChecksumMD5    ChecksumAlgorithm = "md5"
)

// Checksum is a named-algorithm hex digest, required for packages obtained
// from a remote repository (§3).
type Checksum struct {
	Algorithm ChecksumAlgorithm
	Hex       string
}

func (c Checksum) String() string {
	return fmt.Sprintf("%s:%s", c.Algorithm, c.Hex)
}

// IsZero reports whether no checksum was supplied.
func (c Checksum) IsZero() bool { return c.Hex == "" }

// DependencyKind classifies how strongly a dependency must be satisfied.
type DependencyKind int

const (
	DependencyRequired DependencyKind = iota
	DependencyOptional
	DependencyBuild
	DependencyDev
)

func (k DependencyKind) String() string {
	switch k {
	case DependencyRequired:
		return "required"
	case DependencyOptional:
		return "optional"
	case DependencyBuild:
		return "build"
	case DependencyDev:
		return "dev"
	default:
		return "required"
	}
}

// Dependency is one edge in a package's dependency set (§3). Two
// Dependency values are equal under set semantics when their
// (name, constraint, kind, provides, features) tuples match.
type Dependency struct {
	Name       Name
	Constraint VersionReq
	Kind       DependencyKind
	Provides   string
	Features   []string
}

// Key returns the tuple that determines set-collapse equality for this
// dependency, per §3's "Set semantics" note.
func (d Dependency) Key() string {
	return strings.Join([]string{
		string(d.Name), d.Constraint.String(), d.Kind.String(), d.Provides, strings.Join(d.Features, ","),
	}, "\x1f")
}

// PackageReference is the {name, version} pair, the value type used across
// the wire, cache keys, and public APIs (§3).
type PackageReference struct {
	Name    Name
	Version Version
}

// String renders the canonical "name@version" external form.
func (r PackageReference) String() string {
	return fmt.Sprintf("%s@%s", r.Name, r.Version.String())
}

// ParsePackageReference parses the "name@version" external form (§6),
// implementing the round-trip required by Testable Property 4.
func ParsePackageReference(s string) (PackageReference, error) {
	idx := strings.LastIndex(s, "@")
	if idx <= 0 || idx == len(s)-1 {
		return PackageReference{}, ErrInvalidPath{Path: s, Reason: "reference must be of the form name@version"}
	}
	name, err := ParseName(s[:idx])
	if err != nil {
		return PackageReference{}, err
	}
	version, err := ParseVersion(s[idx+1:])
	if err != nil {
		return PackageReference{}, err
	}
	return PackageReference{Name: name, Version: version}, nil
}

// ID returns the canonical PackageId, equivalent to String() (§3, §GLOSSARY).
func (r PackageReference) ID() string { return r.String() }

// Package is the immutable description of a unit of software (§3).
// installed/active are projections read from the ledger at query time
// (§9 "Package entity bloat") -- callers that need them populate
// PackageStatus separately rather than mutating this struct.
type Package struct {
	Name         Name
	Version      Version
	Author       string
	Description  string
	Source       Source
	Target       Target
	Checksum     Checksum
	Dependencies []Dependency
	Provides     []string
	Conflicts    []string
}

// Reference returns the PackageReference identifying this package.
func (p Package) Reference() PackageReference {
	return PackageReference{Name: p.Name, Version: p.Version}
}

// ID returns the canonical PackageId "{name}@{version}" (§3).
func (p Package) ID() string {
	return p.Reference().String()
}

// PackageStatus is the ledger-derived installed/active projection for a
// package, kept separate from Package per §9's entity-bloat guidance.
type PackageStatus struct {
	Installed bool
	Active    bool
}
