// Package install implements the installer (C12) and switcher/remover
// (C13): the orchestration layer tying federation, the resolver, the
// local store, the planner, and the ledger into the install/remove/switch
// operations (§4.12, §4.13), grounded on
// original_source/src/application/package_manager.rs's PackageManager.
//
// Unlike the Rust source -- whose install_single_package/
// remove_single_package are stubs and whose download loop iterates the
// root package before its dependencies, contradicting the materialization
// loop's deps-first order -- this package fully implements the
// materialization step and applies a single deps-first order throughout,
// and it actually calls domain.Sink.Emit at every lifecycle point.
package install

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelhq/parcel/internal/domain"
	"github.com/parcelhq/parcel/internal/executor"
	"github.com/parcelhq/parcel/internal/ledger"
	"github.com/parcelhq/parcel/internal/planner"
	"github.com/parcelhq/parcel/internal/repository"
	"github.com/parcelhq/parcel/internal/resolver"
	"github.com/parcelhq/parcel/internal/store"
)

// Installer orchestrates package installation end to end.
type Installer struct {
	Federation  *repository.Federation
	Cache       domain.Cache
	Store       *store.Store
	Ledger      *ledger.Ledger
	FS          domain.FS
	Executor    *executor.Executor
	Sink        domain.Sink
	InstallMode domain.InstallMode
}

// New constructs an Installer. sink may be domain.NoopSink{} when no
// caller is listening for progress events. mode selects the
// materialization primitive (§4.6); domain.InstallModeAuto is resolved
// per install call by probing the target directory.
func New(federation *repository.Federation, cache domain.Cache, st *store.Store, led *ledger.Ledger, fs domain.FS, exec *executor.Executor, sink domain.Sink, mode domain.InstallMode) *Installer {
	if sink == nil {
		sink = domain.NoopSink{}
	}
	if mode == "" {
		mode = domain.InstallModeSymlink
	}
	return &Installer{Federation: federation, Cache: cache, Store: st, Ledger: led, FS: fs, Executor: exec, Sink: sink, InstallMode: mode}
}

func (in *Installer) installedPackages(ctx context.Context) ([]resolver.InstalledPackage, error) {
	installations, err := in.Ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	installed := make([]resolver.InstalledPackage, 0, len(installations))
	for _, inst := range installations {
		ref, err := domain.ParsePackageReference(inst.PackageID)
		if err != nil {
			continue
		}
		installed = append(installed, resolver.InstalledPackage{Name: ref.Name, Version: ref.Version})
	}
	return installed, nil
}

// Install resolves ref's full dependency closure, downloads and
// materializes every package it and its dependencies need, deps-first,
// and records each in the ledger (§4.12).
func (in *Installer) Install(ctx context.Context, ref domain.PackageReference, target domain.TargetPath) error {
	pkg, err := in.Federation.FindBestPackage(ctx, ref)
	if err != nil {
		return err
	}

	in.Sink.Emit(domain.Event{Kind: domain.EventInstallationStarted, Reference: ref, Package: &pkg})

	status, err := in.Ledger.GetPackageStatus(ctx, ref.ID())
	if err == nil && status.Installed {
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: domain.ErrPackageAlreadyInstalled{}})
		return domain.ErrPackageAlreadyInstalled{}
	}

	installed, err := in.installedPackages(ctx)
	if err != nil {
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}

	result, err := resolver.ResolveForInstallation(ctx, in.Federation, []domain.PackageReference{ref}, installed)
	if err != nil {
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}
	if len(result.Conflicts) > 0 {
		err := result.Conflicts[0]
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}

	// deps-first: everything ToInstall except ref itself, then ref last.
	var plan []domain.PackageReference
	for _, r := range result.ToInstall {
		if r.ID() != ref.ID() {
			plan = append(plan, r)
			in.Sink.Emit(domain.Event{Kind: domain.EventDependencyResolved, Reference: r, DependencyName: r.Name.String()})
		}
	}
	plan = append(plan, ref)

	for _, r := range plan {
		if err := in.installOne(ctx, r, target); err != nil {
			in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
			return err
		}
	}

	in.Sink.Emit(domain.Event{Kind: domain.EventInstallationCompleted, Reference: ref, Package: &pkg})
	return nil
}

// installOne downloads (if needed), extracts, materializes, and records a
// single package -- the unit both Install's dependency loop and Switch
// apply.
func (in *Installer) installOne(ctx context.Context, ref domain.PackageReference, target domain.TargetPath) error {
	pkg, err := in.Federation.FindBestPackage(ctx, ref)
	if err != nil {
		return err
	}

	if err := in.downloadIfNeeded(ctx, ref); err != nil {
		return err
	}

	if !in.Store.PackageExists(ctx, ref) {
		data, ok, err := in.Cache.GetPackage(ctx, ref)
		if err != nil || !ok {
			return domain.ErrInstallation{Reference: ref.String(), Reason: "package archive unavailable after download", Err: err}
		}
		if err := in.Store.Extract(ctx, ref, data); err != nil {
			return domain.ErrInstallation{Reference: ref.String(), Reason: "extract failed", Err: err}
		}
		meta := store.Meta{
			Name: pkg.Name.String(), Version: pkg.Version.String(), Author: pkg.Author, Description: pkg.Description,
			Provides: pkg.Provides, Conflicts: pkg.Conflicts,
		}
		for _, dep := range pkg.Dependencies {
			meta.Dependencies = append(meta.Dependencies, fmt.Sprintf("%s@%s", dep.Name, dep.Constraint.String()))
		}
		if err := in.Store.SaveMeta(ctx, ref, meta); err != nil {
			return err
		}
	}

	root, nodes, err := in.Store.Manifest(ctx, ref)
	if err != nil {
		return domain.ErrInstallation{Reference: ref.String(), Reason: "manifest failed", Err: err}
	}

	desiredResult := planner.ComputeDesiredState(planner.StoreManifest{Root: root, Files: nodes}, target)
	if desiredResult.IsErr() {
		return domain.ErrInstallation{Reference: ref.String(), Reason: "planning failed", Err: desiredResult.UnwrapErr()}
	}
	desired := desiredResult.Unwrap()

	mode := in.resolveInstallMode(ctx, target)
	ops := planner.ComputeOperationsFromDesiredState(desired, mode)

	installation := domain.Installation{
		InstallationID: ref.ID(),
		PackageID:      ref.ID(),
		InstallMode:    string(mode),
		InstalledAt:    time.Now(),
		Active:         true,
		InstalledFiles: make(map[string]domain.FileMetadata),
	}

	if len(ops) > 0 {
		plan := domain.Plan{Operations: ops}
		execResult := in.Executor.Execute(ctx, plan)
		if execResult.IsErr() {
			return domain.ErrInstallation{Reference: ref.String(), Reason: "materialization failed", Err: execResult.UnwrapErr()}
		}
	}

	fileType := domain.FileTypeSymlink
	if mode == domain.InstallModeDirect {
		fileType = domain.FileTypeRegular
	}
	for _, link := range desired.Links {
		info, err := in.FS.Stat(ctx, link.Source.String())
		var size int64
		if err == nil {
			size = info.Size()
		}
		installation.InstalledFiles[link.Target.String()] = domain.FileMetadata{
			Size:        size,
			Permissions: domain.Permissions{Read: true, Write: true, Execute: false},
			FileType:    fileType,
			CreatedAt:   time.Now(),
			ModifiedAt:  time.Now(),
		}
		installation.Symlinks = append(installation.Symlinks, domain.Symlink{
			Source:   link.Source.String(),
			Target:   link.Target.String(),
			LinkType: domain.LinkTypeFile,
		})
	}

	if err := in.Ledger.Record(ctx, installation); err != nil {
		return err
	}
	if err := in.Ledger.SavePackage(ctx, pkg, domain.PackageStatus{Installed: true, Active: true}); err != nil {
		return err
	}

	return nil
}

func (in *Installer) downloadIfNeeded(ctx context.Context, ref domain.PackageReference) error {
	if in.Cache.HasPackage(ctx, ref) || in.Store.PackageExists(ctx, ref) {
		return nil
	}

	in.Sink.Emit(domain.Event{Kind: domain.EventDownloadStarted, Reference: ref, TotalKnown: false})

	data, err := in.Federation.Remote.DownloadPackage(ctx, ref)
	if err != nil {
		if in.Federation.Local != nil {
			if localData, localErr := in.Federation.Local.DownloadPackage(ctx, ref); localErr == nil {
				data, err = localData, nil
			}
		}
	}
	if err != nil {
		return err
	}

	if err := in.Cache.PutPackage(ctx, ref, data); err != nil {
		return err
	}

	in.Sink.Emit(domain.Event{Kind: domain.EventDownloadCompleted, Reference: ref, Downloaded: int64(len(data)), Total: int64(len(data)), TotalKnown: true})
	return nil
}
