package install

import (
	"context"

	"github.com/parcelhq/parcel/internal/domain"
)

// Remove deletes ref's materialized files and ledger rows. It refuses to
// remove an active installation -- callers must Switch to another version
// first (§4.13 "a package's active version cannot be removed directly").
func (in *Installer) Remove(ctx context.Context, ref domain.PackageReference) error {
	in.Sink.Emit(domain.Event{Kind: domain.EventRemoveStarted, Reference: ref})

	inst, err := in.Ledger.Get(ctx, ref.ID())
	if err != nil {
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}
	if inst.Active {
		err := domain.ErrPackageIsActive{Reference: ref.String()}
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}

	if err := in.removeMaterialized(ctx, inst); err != nil {
		in.Sink.Emit(domain.Event{Kind: domain.EventInstallationFailed, Reference: ref, Err: err})
		return err
	}

	if err := in.Store.RemovePackageFiles(ctx, ref); err != nil {
		return err
	}
	if err := in.Ledger.Remove(ctx, ref.ID()); err != nil {
		return err
	}
	if err := in.Ledger.RemovePackage(ctx, ref.ID()); err != nil {
		return err
	}

	in.Sink.Emit(domain.Event{Kind: domain.EventRemoveCompleted, Reference: ref})
	return nil
}

func (in *Installer) removeMaterialized(ctx context.Context, inst domain.Installation) error {
	for _, link := range inst.ReverseSymlinks() {
		if in.FS.Exists(ctx, link.Target) {
			if err := in.FS.Remove(ctx, link.Target); err != nil {
				return domain.ErrRemoval{Reference: inst.PackageID, Err: err}
			}
		}
	}
	return nil
}

// SwitchResult reports the outcome of switching a package name's active
// version (§4.13).
type SwitchResult struct {
	PackageName    string
	FromVersion    string
	ToVersion      string
	RemovedFiles   int
	InstalledFiles int
	Warnings       []string
}

// Switch removes the currently active version of name (if any) and
// installs target in its place, non-atomically: a failure partway through
// leaves the package removed but not reinstalled, recorded in
// SwitchResult.Warnings rather than silently rolled back, matching
// original_source/src/application/package_manager.rs's switch().
func (in *Installer) Switch(ctx context.Context, name domain.Name, target domain.PackageReference, installTarget domain.TargetPath) (SwitchResult, error) {
	result := SwitchResult{PackageName: name.String(), ToVersion: target.Version.String()}

	current, found, err := in.currentVersion(ctx, name)
	if err != nil {
		return result, err
	}

	if found {
		result.FromVersion = current.Version.String()
		if err := in.Ledger.SetActive(ctx, current.ID(), false); err != nil {
			return result, err
		}
		if err := in.Ledger.SetPackageActive(ctx, current.ID(), false); err != nil {
			return result, err
		}
		if err := in.Remove(ctx, current); err != nil {
			result.Warnings = append(result.Warnings, "failed to remove previous version: "+err.Error())
			return result, err
		}
		result.RemovedFiles = 1
	}

	if err := in.Install(ctx, target, installTarget); err != nil {
		result.Warnings = append(result.Warnings, "failed to install target version: "+err.Error())
		return result, err
	}
	result.InstalledFiles = 1

	return result, nil
}

func (in *Installer) currentVersion(ctx context.Context, name domain.Name) (domain.PackageReference, bool, error) {
	installations, err := in.Ledger.List(ctx)
	if err != nil {
		return domain.PackageReference{}, false, err
	}
	for _, inst := range installations {
		ref, err := domain.ParsePackageReference(inst.PackageID)
		if err != nil {
			continue
		}
		if ref.Name == name && inst.Active {
			return ref, true, nil
		}
	}
	return domain.PackageReference{}, false, nil
}
