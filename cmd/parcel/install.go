package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelhq/parcel/internal/domain"
)

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <name@version>",
		Short: "Install a package and its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParsePackageReference(args[0])
			if err != nil {
				return err
			}

			client, cleanup, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := client.Install(cmd.Context(), ref); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", ref.String())
			return nil
		},
	}
}
