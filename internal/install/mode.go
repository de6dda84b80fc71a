package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parcelhq/parcel/internal/domain"
)

// resolveInstallMode turns a configured domain.InstallModeAuto into a
// concrete symlink-or-direct decision for dir, the directory files will
// be materialized under (§4.6, Open Question 2). Symlink and Direct
// pass through unchanged.
func (in *Installer) resolveInstallMode(ctx context.Context, dir domain.TargetPath) domain.InstallMode {
	if in.InstallMode != domain.InstallModeAuto {
		if in.InstallMode == "" {
			return domain.InstallModeSymlink
		}
		return in.InstallMode
	}

	if capable, ok := platformSymlinkCapable(dir.String()); ok {
		if capable {
			return domain.InstallModeSymlink
		}
		return domain.InstallModeDirect
	}

	if probeSymlinkSupport(ctx, in.FS, dir.String()) {
		return domain.InstallModeSymlink
	}
	return domain.InstallModeDirect
}

// probeSymlinkSupport attempts to create and remove a throwaway symlink
// in dir, the portable fallback for platforms/filesystems statfs can't
// classify directly.
func probeSymlinkSupport(ctx context.Context, fs domain.FS, dir string) bool {
	probePath := filepath.Join(dir, fmt.Sprintf(".parcel-symlink-probe-%d", os.Getpid()))
	if err := fs.Symlink(ctx, probePath+"-target", probePath); err != nil {
		return false
	}
	_ = fs.Remove(ctx, probePath)
	return true
}
