package domain

import (
	"context"
	"path/filepath"
)

// Paths is the directory layout capability (§4.1): a single source of
// truth for where the store, ledger, cache, and transient files live under
// one base directory, grounded on original_source/src/paths.rs's
// UhpmPaths trait (base_dir/packages_dir/db_path/config_path/cache_dir/
// temp_dir/log_dir + create_directories).
type Paths struct {
	base       string
	configPath string
}

// NewPaths constructs a Paths rooted at base, with the config file
// resolved separately since it may live outside base (e.g. XDG config
// home) per the teacher's config-loading precedence.
func NewPaths(base, configPath string) Paths {
	return Paths{base: filepath.Clean(base), configPath: configPath}
}

// BaseDir is the root directory owning every other path below.
func (p Paths) BaseDir() string { return p.base }

// PackagesDir is the content-addressed store root (§4.5):
// base_dir/packages.
func (p Paths) PackagesDir() string { return filepath.Join(p.base, "packages") }

// PackageDir is the store location for one package version:
// packages_dir/{name}/{version}.
func (p Paths) PackageDir(name, version string) string {
	return filepath.Join(p.PackagesDir(), name, version)
}

// DBPath is the installation ledger's sqlite file: base_dir/packages.db.
func (p Paths) DBPath() string { return filepath.Join(p.base, "packages.db") }

// ConfigPath is the configuration file location.
func (p Paths) ConfigPath() string { return p.configPath }

// CacheDir is the download/index cache root (§4.3): base_dir/cache.
func (p Paths) CacheDir() string { return filepath.Join(p.base, "cache") }

// TempDir is scratch space for in-flight downloads and extraction
// staging: base_dir/tmp.
func (p Paths) TempDir() string { return filepath.Join(p.base, "tmp") }

// LogDir is where log files are written: base_dir/logs.
func (p Paths) LogDir() string { return filepath.Join(p.base, "logs") }

// CreateDirectories ensures base_dir, packages_dir, cache_dir, temp_dir,
// log_dir, and the config file's parent all exist.
func (p Paths) CreateDirectories(ctx context.Context, fs FS) error {
	dirs := []string{p.base, p.PackagesDir(), p.CacheDir(), p.TempDir(), p.LogDir()}
	if parent := filepath.Dir(p.configPath); parent != "" && parent != "." {
		dirs = append(dirs, parent)
	}
	for _, dir := range dirs {
		if err := fs.MkdirAll(ctx, dir, 0o755); err != nil {
			return ErrFilesystem{Operation: "mkdir_all", Path: dir, Err: err}
		}
	}
	return nil
}
