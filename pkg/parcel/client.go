package parcel

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/parcelhq/parcel/internal/adapters"
	"github.com/parcelhq/parcel/internal/cache"
	"github.com/parcelhq/parcel/internal/doctor"
	"github.com/parcelhq/parcel/internal/domain"
	"github.com/parcelhq/parcel/internal/executor"
	"github.com/parcelhq/parcel/internal/install"
	"github.com/parcelhq/parcel/internal/ledger"
	"github.com/parcelhq/parcel/internal/repository"
	"github.com/parcelhq/parcel/internal/resolver"
	"github.com/parcelhq/parcel/internal/store"
)

// Client is the public entry point: install, remove, switch, list, and
// search packages against a configured local store and remote repository.
//
// A Client owns a sqlite connection (via its Ledger) and must be closed.
type Client struct {
	config     Config
	paths      domain.Paths
	fs         domain.FS
	cache      domain.Cache
	store      *store.Store
	federation *repository.Federation
	ledger     *ledger.Ledger
	installer  *install.Installer
	target     domain.TargetPath
}

// NewClient wires a Client's components from cfg (§6). The caller must
// call Close when finished.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	if cfg.FS == nil {
		cfg.FS = adapters.NewOSFilesystem()
	}
	if cfg.Logger == nil {
		level := adapters.ParseLogLevel(verbosityToLevel(cfg.Verbosity))
		if cfg.LogJSON {
			cfg.Logger = adapters.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		} else {
			cfg.Logger = adapters.NewConsoleLogger(os.Stderr, verbosityToLevel(cfg.Verbosity))
		}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = adapters.NewNoopTracer()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = adapters.NewNoopMetrics()
	}
	if cfg.Network == nil {
		cfg.Network = adapters.NewHTTPNetwork(time.Duration(cfg.NetworkTimeout) * time.Second)
	}
	if cfg.Sink == nil {
		cfg.Sink = domain.NoopSink{}
	}

	targetResult := domain.NewTargetPath(cfg.TargetDir)
	if targetResult.IsErr() {
		return nil, targetResult.UnwrapErr()
	}
	target := targetResult.Unwrap()

	paths := domain.NewPaths(cfg.BaseDir, "")
	if err := paths.CreateDirectories(ctx, cfg.FS); err != nil {
		return nil, err
	}

	fsCache := cache.New(cfg.FS, paths.CacheDir())
	st := store.New(cfg.FS, paths.PackagesDir())

	local := repository.NewLocalRepository(cfg.FS, st, paths.PackagesDir())

	var remote domain.PackageRepository
	if cfg.RemoteURL != "" {
		remote = repository.NewRemoteRepository(cfg.Network, fsCache, cfg.RemoteURL)
	}
	federation := repository.NewFederation(local, remote)

	led, err := ledger.Open(ctx, paths.DBPath())
	if err != nil {
		return nil, err
	}

	exec := executor.New(executor.Opts{
		FS:      cfg.FS,
		Logger:  cfg.Logger,
		Tracer:  cfg.Tracer,
		Metrics: cfg.Metrics,
	})

	mode := domain.InstallModeSymlink
	if cfg.InstallMode != "" {
		mode, _ = domain.ParseInstallMode(cfg.InstallMode)
	}
	installer := install.New(federation, fsCache, st, led, cfg.FS, exec, cfg.Sink, mode)

	return &Client{
		config:     cfg,
		paths:      paths,
		fs:         cfg.FS,
		cache:      fsCache,
		store:      st,
		federation: federation,
		ledger:     led,
		installer:  installer,
		target:     target,
	}, nil
}

// Close releases the ledger's database connection.
func (c *Client) Close() error {
	return c.ledger.Close()
}

// Install installs ref and its transitive Required dependencies (§4.12).
func (c *Client) Install(ctx context.Context, ref domain.PackageReference) error {
	return c.installer.Install(ctx, ref, c.target)
}

// Remove removes ref, refusing to remove an active installation (§4.13).
func (c *Client) Remove(ctx context.Context, ref domain.PackageReference) error {
	return c.installer.Remove(ctx, ref)
}

// Switch switches name's active version to target (§4.13).
func (c *Client) Switch(ctx context.Context, name domain.Name, target domain.PackageReference) (install.SwitchResult, error) {
	return c.installer.Switch(ctx, name, target, c.target)
}

// List returns every installation currently recorded in the ledger.
func (c *Client) List(ctx context.Context) ([]domain.Installation, error) {
	return c.ledger.List(ctx)
}

// Search searches both the local and remote repositories for query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Package, error) {
	return c.federation.SearchAllPackages(ctx, query)
}

// Sync refreshes both repositories' indices (§4.9).
func (c *Client) Sync(ctx context.Context) error {
	return c.federation.SyncRepositories(ctx)
}

// Resolve computes the installation plan for ref without applying it,
// the read-only counterpart to Install (§4.10).
func (c *Client) Resolve(ctx context.Context, ref domain.PackageReference) (resolver.ResolutionResult, error) {
	installations, err := c.ledger.List(ctx)
	if err != nil {
		return resolver.ResolutionResult{}, err
	}
	installed := make([]resolver.InstalledPackage, 0, len(installations))
	for _, inst := range installations {
		instRef, err := domain.ParsePackageReference(inst.PackageID)
		if err != nil {
			continue
		}
		installed = append(installed, resolver.InstalledPackage{Name: instRef.Name, Version: instRef.Version})
	}
	return resolver.ResolveForInstallation(ctx, c.federation, []domain.PackageReference{ref}, installed)
}

// VerifyIntegrity reports whether ref's extracted store contents are
// intact (§4.5).
func (c *Client) VerifyIntegrity(ctx context.Context, ref domain.PackageReference) (bool, error) {
	return c.store.VerifyIntegrity(ctx, ref)
}

// CacheSize reports the total size of cached archives and indices (§4.3).
func (c *Client) CacheSize(ctx context.Context) (int64, error) {
	return c.cache.Size(ctx)
}

// CleanCache evicts cache entries older than maxAge (§4.3).
func (c *Client) CleanCache(ctx context.Context, maxAge time.Duration) error {
	return c.cache.CleanupOldEntries(ctx, maxAge)
}

// Diagnose runs the registered health checks (currently: broken/wrong-
// target symlinks across every recorded installation) and returns the
// aggregate report.
func (c *Client) Diagnose(ctx context.Context) (doctor.DiagnosticReport, error) {
	engine := doctor.NewDiagnosticEngine()
	engine.RegisterCheck(doctor.NewInstalledLinkCheck(c.fs, c.ledger))
	return engine.Run(ctx, doctor.RunOptions{})
}

func verbosityToLevel(v int) string {
	switch {
	case v >= 2:
		return "DEBUG"
	case v == 1:
		return "INFO"
	default:
		return "ERROR"
	}
}
