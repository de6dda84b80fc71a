package domain

import "os"

// DefaultDirPerms is the permission mode used when materializing directories
// that the package store or install list does not specify explicitly.
const DefaultDirPerms os.FileMode = 0o755

// DefaultFilePerms is the permission mode used for files written without an
// explicit mode (config files, ledger-adjacent scratch files).
const DefaultFilePerms os.FileMode = 0o644

// Owner permission bits used for private files and write-permission checks.
const (
	PermUserW   os.FileMode = 0o200
	PermUserRW  os.FileMode = 0o600
	PermUserRWX os.FileMode = 0o700
)
