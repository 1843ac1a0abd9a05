package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage cloud collaborators",
	}

	cmd.AddCommand(newUserListCommand())
	cmd.AddCommand(newUserAddCommand())

	return cmd
}

func newUserListCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users with access to the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserList(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runUserList(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "user list")
	if err != nil {
		return err
	}

	collaborators, err := client.Collaborators(ctx, codeName)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Email", "Status")

	for _, collaborator := range collaborators {
		status := "active"
		if !collaborator.Active {
			status = "invited"
		}

		_ = table.Append(collaborator.Email, status)
	}

	_ = table.Render()

	return nil
}

func newUserAddCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "add EMAIL",
		Short: "Invite a user to the cloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd.Context(), cloud, args[0])
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runUserAdd(ctx context.Context, cloud, email string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "user add")
	if err != nil {
		return err
	}

	if err := client.InviteCollaborator(ctx, codeName, email); err != nil {
		return err
	}

	sayGreen(fmt.Sprintf("Sending invitation to %s to work on %s", email, codeName))

	return nil
}
