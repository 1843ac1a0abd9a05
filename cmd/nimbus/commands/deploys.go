package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewDeploysCommand creates the deploys command group.
func NewDeploysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploys",
		Short: "Inspect deployments",
	}

	cmd.AddCommand(newDeploysLastCommand())

	return cmd
}

func newDeploysLastCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the log of the most recent deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploysLast(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runDeploysLast(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "deploys last")
	if err != nil {
		return err
	}

	deployment, err := client.LastDeployment(ctx, codeName)
	if err != nil {
		return err
	}

	for _, msg := range deployment.Messages {
		say(msg)
	}

	if deployment.Terminal() && !deployment.Succeeded() {
		sayRed("Deployment failed")

		return ErrAborted
	}

	return nil
}
