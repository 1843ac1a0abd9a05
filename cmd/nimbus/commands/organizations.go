package commands

import (
	"context"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewOrganizationsCommand creates the organizations command.
func NewOrganizationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "organizations",
		Short: "List your organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizations(cmd.Context())
		},
	}
}

func runOrganizations(ctx context.Context) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	organizations, err := client.Organizations(ctx)
	if err != nil {
		return err
	}

	if len(organizations) == 0 {
		sayGreen("You have no organizations yet")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Organization", "Credit", "Billing details")

	for _, org := range organizations {
		details := "complete"
		if !org.DetailsPresent {
			details = "missing"
		}

		_ = table.Append(org.Name, org.Credit, details)
	}

	_ = table.Render()

	return nil
}
