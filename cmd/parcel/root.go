package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parcelhq/parcel/pkg/parcel"
)

// globalConfig holds flags shared across every subcommand, grounded on
// the teacher's cmd/dot/root.go globalConfig pattern.
type globalConfig struct {
	baseDir     string
	targetDir   string
	remoteURL   string
	verbose     int
	quiet       bool
	logJSON     bool
	installMode string
}

var globalCfg globalConfig

// NewRootCommand creates the root cobra command.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "parcel",
		Short: "Content-addressed package manager",
		Long: `parcel is a package manager that installs, removes, and switches
between versions of packages fetched from a local store or a remote HTTP
repository, materializing each package's files under a target directory
as symlinks or copies, depending on --install-mode.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	homeDir, _ := os.UserHomeDir()
	defaultBase := filepath.Join(homeDir, ".parcel")

	rootCmd.PersistentFlags().StringVar(&globalCfg.baseDir, "base-dir", defaultBase,
		"Base directory for the package store, ledger, and cache")
	rootCmd.PersistentFlags().StringVarP(&globalCfg.targetDir, "target", "t", homeDir,
		"Target directory packages are materialized into")
	rootCmd.PersistentFlags().StringVar(&globalCfg.remoteURL, "remote", "",
		"Base URL of the remote repository (disabled if empty)")
	rootCmd.PersistentFlags().CountVarP(&globalCfg.verbose, "verbose", "v",
		"Increase verbosity: -v (info), -vv (debug)")
	rootCmd.PersistentFlags().BoolVarP(&globalCfg.quiet, "quiet", "q", false,
		"Suppress all non-error output")
	rootCmd.PersistentFlags().BoolVar(&globalCfg.logJSON, "log-json", false,
		"Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&globalCfg.installMode, "install-mode", "symlink",
		"Materialization mode: symlink, direct, or auto")

	rootCmd.AddCommand(
		newInstallCommand(),
		newRemoveCommand(),
		newSwitchCommand(),
		newListCommand(),
		newSearchCommand(),
		newSyncCommand(),
		newDoctorCommand(),
	)

	return rootCmd
}

// buildConfig assembles a parcel.Config from global flags.
func buildConfig() (parcel.Config, error) {
	baseDir, err := filepath.Abs(globalCfg.baseDir)
	if err != nil {
		return parcel.Config{}, fmt.Errorf("invalid base directory: %w", err)
	}
	targetDir, err := filepath.Abs(globalCfg.targetDir)
	if err != nil {
		return parcel.Config{}, fmt.Errorf("invalid target directory: %w", err)
	}

	verbosity := globalCfg.verbose
	if globalCfg.quiet {
		verbosity = 0
	}

	return parcel.Config{
		BaseDir:     baseDir,
		TargetDir:   targetDir,
		RemoteURL:   globalCfg.remoteURL,
		Verbosity:   verbosity,
		LogJSON:     globalCfg.logJSON,
		InstallMode: globalCfg.installMode,
	}.WithDefaults(), nil
}

// newClient builds a Client from global flags and returns a cleanup func.
func newClient(ctx context.Context) (*parcel.Client, func(), error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := parcel.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}
