package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelhq/parcel/internal/domain"
)

// newDoctorCommand reports cache health, runs the registered
// installation health checks (broken/wrong-target symlinks across
// every recorded installation, via pkg/parcel.Client.Diagnose), and,
// when given a package reference, verifies that package's extracted
// store contents against its recorded checksum. It runs
// internal/doctor's DiagnosticEngine but not its teacher-era checks
// (orphan/permission/platform scans over a live manifest tree) --
// those are grounded in a dotfile-symlink domain this repository no
// longer has; only the ledger-backed link check (C11-aware) is
// registered.
func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [name@version]",
		Short: "Check cache and package store health",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			size, err := client.CacheSize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cache size: %d bytes\n", size)

			report, err := client.Diagnose(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "diagnostics: %s\n", report.OverallStatus)
			for _, res := range report.Results {
				for _, issue := range res.Issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s: %s (%s)\n", issue.Severity, res.CheckName, issue.Message, issue.Path)
				}
			}

			if len(args) == 0 {
				return nil
			}

			ref, err := domain.ParsePackageReference(args[0])
			if err != nil {
				return err
			}

			ok, err := client.VerifyIntegrity(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: integrity OK\n", ref.String())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: integrity FAILED\n", ref.String())
			}
			return nil
		},
	}
}
