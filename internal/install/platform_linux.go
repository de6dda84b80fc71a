//go:build linux

package install

import "golang.org/x/sys/unix"

// noSymlinkFilesystems lists filesystem magic numbers (statfs(2) f_type)
// that are known not to support symbolic links: FAT variants and exFAT,
// the common case of a target directory mounted from a USB stick or a
// Windows-shared volume.
var noSymlinkFilesystems = map[int64]bool{
	0x4d44:     true, // MSDOS_SUPER_MAGIC (vfat)
	0x2011BAB0: true, // EXFAT_SUPER_MAGIC
}

// platformSymlinkCapable reports whether dir's filesystem is known to
// lack symlink support, consulting statfs before falling back to the
// portable try-then-clean-up probe for anything statfs doesn't flag.
func platformSymlinkCapable(dir string) (bool, bool) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return false, false
	}
	if noSymlinkFilesystems[int64(stat.Type)] {
		return false, true
	}
	return false, false
}
