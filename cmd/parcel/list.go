package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			installations, err := client.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, inst := range installations {
				active := ""
				if inst.Active {
					active = " (active)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", inst.PackageID, active)
			}
			return nil
		},
	}
}
