// Package parcel is the public facade over the package manager's core
// (§1, §6): a Client wraps a configured Federation, Cache, Store, Ledger,
// and Installer behind a small, stable API, the way
// github.com/jamesainslie/dot/pkg/dot.Client wraps its own internal
// services.
package parcel

import (
	"github.com/parcelhq/parcel/internal/domain"
)

// Config configures a Client (§4.1, §6).
type Config struct {
	// BaseDir roots every on-disk artifact: packages_dir, packages.db,
	// cache_dir, temp_dir, log_dir (§4.1). Must be an absolute path.
	BaseDir string

	// TargetDir is the destination directory packages are materialized
	// into, as symlinks or copies depending on InstallMode. Must be an
	// absolute path.
	TargetDir string

	// RemoteURL is the base URL of the configured remote repository
	// (§4.8). Empty disables the remote repository; Install/Switch then
	// only consult the local store.
	RemoteURL string

	// NetworkTimeout bounds each HTTP request to the remote repository.
	NetworkTimeout int // seconds; 0 uses the default (30s)

	// Verbosity controls logging detail (0=error, 1=info, 2=debug).
	Verbosity int

	// LogJSON selects structured JSON logging over text.
	LogJSON bool

	// InstallMode selects how package files are materialized (§4.6):
	// "symlink", "direct", or "auto". Empty defaults to "symlink".
	InstallMode string

	FS      domain.FS
	Network domain.Network
	Logger  domain.Logger
	Tracer  domain.Tracer
	Metrics domain.Metrics
	Sink    domain.Sink
}

// Validate reports whether cfg has the fields a Client requires.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return domain.ErrConfig{Field: "BaseDir", Reason: "must not be empty"}
	}
	if c.TargetDir == "" {
		return domain.ErrConfig{Field: "TargetDir", Reason: "must not be empty"}
	}
	if c.InstallMode != "" {
		if _, err := domain.ParseInstallMode(c.InstallMode); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaults sets NetworkTimeout to 30 seconds when it is zero. It does
// not fill in adapter fields; NewClient supplies the standard adapters for
// any left nil.
func (c Config) WithDefaults() Config {
	if c.NetworkTimeout == 0 {
		c.NetworkTimeout = 30
	}
	return c
}
