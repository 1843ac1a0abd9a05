package commands

import (
	"context"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewRakeCommand creates the rake command.
func NewRakeCommand() *cobra.Command {
	var (
		cloud  string
		server string
	)

	cmd := &cobra.Command{
		Use:   "rake [TASK...]",
		Short: "Run a rake task on the cloud",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRake(cmd.Context(), cloud, server, args)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")
	cmd.Flags().StringVarP(&server, "server", "s", "", "virtual server to run the task on")

	return cmd
}

func runRake(ctx context.Context, cloud, server string, tasks []string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "rake")
	if err != nil {
		return err
	}

	tunnel, err := client.Tunnel(ctx, codeName, "ssh", server)
	if err != nil {
		switch nimbus.ClassifyErr(err) {
		case nimbus.KindUnauthorized:
			return notLoggedIn()
		case nimbus.KindConflict:
			sayRed(fmt.Sprintf("Cloud %s is not running. Cannot run rake task.", codeName))

			return ErrAborted
		default:
			return err
		}
	}

	return sshExec(tunnel, append([]string{"rake"}, tasks...))
}
