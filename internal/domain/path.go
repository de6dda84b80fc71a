package domain

import "path/filepath"

// StorePath is an absolute path inside the content-addressed package store
// (packages_dir/{name}/{version}/...).
type StorePath struct{ path string }

// TargetPath is an absolute path in the user's filesystem where a package
// file is materialized (via symlink or copy).
type TargetPath struct{ path string }

// FilePath is a generic absolute filesystem path used where the role
// (store vs. target) does not matter, e.g. cache and temp file locations.
type FilePath struct{ path string }

func newAbsPath(path string) (string, error) {
	if path == "" {
		return "", ErrInvalidPath{Path: path, Reason: "path cannot be empty"}
	}
	if !filepath.IsAbs(path) {
		return "", ErrInvalidPath{Path: path, Reason: "path must be absolute"}
	}
	return filepath.Clean(path), nil
}

// NewStorePath validates and constructs a StorePath.
func NewStorePath(path string) Result[StorePath] {
	clean, err := newAbsPath(path)
	if err != nil {
		return Err[StorePath](err)
	}
	return Ok(StorePath{path: clean})
}

// NewTargetPath validates and constructs a TargetPath.
func NewTargetPath(path string) Result[TargetPath] {
	clean, err := newAbsPath(path)
	if err != nil {
		return Err[TargetPath](err)
	}
	return Ok(TargetPath{path: clean})
}

// NewFilePath validates and constructs a FilePath.
func NewFilePath(path string) Result[FilePath] {
	clean, err := newAbsPath(path)
	if err != nil {
		return Err[FilePath](err)
	}
	return Ok(FilePath{path: clean})
}

func (p StorePath) String() string  { return p.path }
func (p TargetPath) String() string { return p.path }
func (p FilePath) String() string   { return p.path }

func (p StorePath) Equals(o StorePath) bool   { return p.path == o.path }
func (p TargetPath) Equals(o TargetPath) bool { return p.path == o.path }
func (p FilePath) Equals(o FilePath) bool     { return p.path == o.path }

// Join appends a relative segment to the path.
func (p StorePath) Join(seg string) StorePath {
	return StorePath{path: filepath.Join(p.path, seg)}
}

func (p FilePath) Join(seg string) FilePath {
	return FilePath{path: filepath.Join(p.path, seg)}
}

// Join appends a relative segment to the path.
func (p TargetPath) Join(seg string) TargetPath {
	return TargetPath{path: filepath.Join(p.path, seg)}
}

// Parent returns the parent directory, or Err if p is the filesystem root.
func (p TargetPath) Parent() Result[TargetPath] {
	parent := filepath.Dir(p.path)
	if parent == p.path {
		return Err[TargetPath](ErrInvalidPath{Path: p.path, Reason: "no parent of root"})
	}
	return Ok(TargetPath{path: parent})
}

func (p FilePath) Parent() Result[FilePath] {
	parent := filepath.Dir(p.path)
	if parent == p.path {
		return Err[FilePath](ErrInvalidPath{Path: p.path, Reason: "no parent of root"})
	}
	return Ok(FilePath{path: parent})
}

// HasPrefix reports whether the target path begins with one of the given
// absolute prefixes (§4.6 safety rule).
func (p TargetPath) HasPrefix(prefixes []string) bool {
	for _, prefix := range prefixes {
		prefix = filepath.Clean(prefix)
		if p.path == prefix {
			return true
		}
		if len(p.path) > len(prefix) && p.path[:len(prefix)] == prefix && p.path[len(prefix)] == filepath.Separator {
			return true
		}
	}
	return false
}

// DefaultProhibitedPrefixes is the default set of system-directory prefixes
// an instlist target may not map onto (§4.6). Configurable per §9.
func DefaultProhibitedPrefixes() []string {
	return []string{"/bin", "/sbin", "/usr/bin", "/usr/sbin", "/lib", "/usr/lib", "/etc", "/var"}
}
