package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelhq/parcel/internal/domain"
)

func newSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name@version>",
		Short: "Switch a package's active version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParsePackageReference(args[0])
			if err != nil {
				return err
			}

			client, cleanup, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := client.Switch(cmd.Context(), target.Name, target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "switched %s: %s -> %s\n", result.PackageName, result.FromVersion, result.ToVersion)
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		},
	}
}
