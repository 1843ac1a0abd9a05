package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"status"},
		Short:   "List your clouds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context())
		},
	}
}

func runList(ctx context.Context) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	clouds, err := client.Clouds(ctx)
	if err != nil {
		return err
	}

	if len(clouds) == 0 {
		sayGreen("You have no clouds yet")

		return nil
	}

	sayGreen("You have following clouds available:")
	renderCloudListing(clouds)

	return nil
}
