package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search local and remote repositories for packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := client.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, pkg := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s@%s - %s\n", pkg.Name, pkg.Version, pkg.Description)
			}
			return nil
		},
	}
}
