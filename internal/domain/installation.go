package domain

import "time"

// FileType classifies a materialized filesystem entry recorded in the
// ledger (§3, §4.11).
type FileType string

const (
	FileTypeRegular    FileType = "regular"
	FileTypeDirectory  FileType = "directory"
	FileTypeSymlink    FileType = "symlink"
	FileTypeExecutable FileType = "executable"
)

// ParseFileType maps a stored token back to a FileType, defaulting unknown
// tokens to FileTypeRegular per §4.11's serialization rules.
func ParseFileType(s string) FileType {
	switch FileType(s) {
	case FileTypeRegular, FileTypeDirectory, FileTypeSymlink, FileTypeExecutable:
		return FileType(s)
	default:
		return FileTypeRegular
	}
}

// InstallMode selects how a package's files are materialized under a
// target directory (§4.6): as symlinks into the content-addressed
// store, as independent copies, or auto-detected per target filesystem.
type InstallMode string

const (
	InstallModeSymlink InstallMode = "symlink"
	InstallModeDirect  InstallMode = "direct"
	InstallModeAuto    InstallMode = "auto"
)

// ParseInstallMode maps a configured token to an InstallMode, returning
// an error for anything else rather than silently defaulting -- an
// unrecognized install_mode is a configuration mistake, not a degraded
// mode to tolerate.
func ParseInstallMode(s string) (InstallMode, error) {
	switch InstallMode(s) {
	case InstallModeSymlink, InstallModeDirect, InstallModeAuto:
		return InstallMode(s), nil
	default:
		return "", ErrConfig{Field: "install_mode", Reason: "must be one of symlink, direct, auto"}
	}
}

// Permissions captures the read/write/execute bits recorded for an
// installed file (§3).
type Permissions struct {
	Read    bool
	Write   bool
	Execute bool
}

// FileMetadata describes one file the installer materialized, keyed in
// Installation.InstalledFiles by its absolute path (§3).
type FileMetadata struct {
	Size        int64
	Checksum    Checksum
	Permissions Permissions
	FileType    FileType
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// LinkType classifies whether a Symlink points at a file or a directory
// (§3, §4.6 "Link-type inference").
type LinkType string

const (
	LinkTypeFile      LinkType = "file"
	LinkTypeDirectory LinkType = "directory"
)

// SymlinkMetadata carries auxiliary, non-authoritative information about a
// materialized link (§3).
type SymlinkMetadata struct {
	CreatedAt   time.Time
	Owner       string
	Group       string
	Description string
}

// Symlink is one materialized link recorded against an installation (§3).
// "Symlink" is retained even for Direct install_mode copies: the ledger
// uses the same row shape for both, with LinkType describing the target's
// kind rather than the materialization technique.
type Symlink struct {
	Source   string
	Target   string
	LinkType LinkType
	Metadata SymlinkMetadata
}

// Installation is a lifecycle record in the ledger (§3, §4.11).
type Installation struct {
	InstallationID string // UUID v4, assigned once
	PackageID      string
	InstallMode    string
	InstalledAt    time.Time // UTC, persisted RFC-3339
	Active         bool

	InstalledFiles map[string]FileMetadata
	Symlinks       []Symlink
}

// ReverseSymlinks returns Symlinks in reverse order, the traversal order
// required for idempotent removal (§4.6 "Removal of materialized paths")
// and compensating cleanup (§7).
func (i Installation) ReverseSymlinks() []Symlink {
	out := make([]Symlink, len(i.Symlinks))
	for idx, s := range i.Symlinks {
		out[len(i.Symlinks)-1-idx] = s
	}
	return out
}
