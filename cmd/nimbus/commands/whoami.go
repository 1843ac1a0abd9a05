package commands

import (
	"context"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account you are logged in as",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context())
		},
	}
}

func runWhoami(ctx context.Context) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	user, err := client.Authorize(ctx)
	if err != nil {
		if nimbus.ClassifyErr(err) == nimbus.KindUnauthorized {
			sayRed("You are not logged in. To log in use: `nimbus login`")

			return ErrAborted
		}

		return err
	}

	say("Logged in as " + user.Email)

	return nil
}
