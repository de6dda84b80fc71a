package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DotOperationalPaths returns the paths that parcel uses for its own operation.
// Packages cannot create symlinks into these directories.
func DotOperationalPaths() []string {
	homeDir, _ := os.UserHomeDir()

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(homeDir, ".config")
	}

	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		xdgData = filepath.Join(homeDir, ".local", "share")
	}

	return []string{
		filepath.Join(xdgConfig, "parcel"),
		filepath.Join(xdgData, "parcel"),
	}
}

// ValidateNoSelfManagement validates that a package does not attempt to manage
// parcel's own operational directories.
//
// Returns an error if:
// - Any link or directory would be created inside parcel's config directory ($XDG_CONFIG_HOME/parcel, default ~/.config/parcel/)
// - Any link or directory would be created inside parcel's data directory ($XDG_DATA_HOME/parcel, default ~/.local/share/parcel/)
// - Any link or directory would override parcel's operational directories
func ValidateNoSelfManagement(packageName string, desired DesiredState) error {
	protectedPaths := DotOperationalPaths()

	// Check all desired links
	for linkPath := range desired.Links {
		absPath, err := filepath.Abs(linkPath)
		if err != nil {
			continue // Skip if we can't resolve path
		}

		for _, protected := range protectedPaths {
			absProtected, err := filepath.Abs(protected)
			if err != nil {
				continue
			}

			// Check if link would be inside protected path
			if strings.HasPrefix(absPath, absProtected+string(filepath.Separator)) ||
				absPath == absProtected {
				return fmt.Errorf(
					"package %q attempts to create symlinks in parcel's operational directory: %s\n"+
						"Packages cannot manage parcel's configuration or data directories.\n"+
						"Remove these paths from the package",
					packageName, protected,
				)
			}

			// Check if protected path would be inside link path
			if strings.HasPrefix(absProtected, absPath+string(filepath.Separator)) {
				return fmt.Errorf(
					"package %q would override parcel's operational directory: %s",
					packageName, protected,
				)
			}
		}
	}

	// Also check directories
	for dirPath := range desired.Dirs {
		absPath, err := filepath.Abs(dirPath)
		if err != nil {
			continue
		}

		for _, protected := range protectedPaths {
			absProtected, err := filepath.Abs(protected)
			if err != nil {
				continue
			}

			// Check if directory would be inside protected path
			if strings.HasPrefix(absPath, absProtected+string(filepath.Separator)) ||
				absPath == absProtected {
				return fmt.Errorf(
					"package %q attempts to create directories in parcel's operational path: %s",
					packageName, protected,
				)
			}

			// Check if protected path would be inside directory path
			if strings.HasPrefix(absProtected, absPath+string(filepath.Separator)) {
				return fmt.Errorf(
					"package %q would override parcel's operational directory: %s",
					packageName, protected,
				)
			}
		}
	}

	return nil
}
