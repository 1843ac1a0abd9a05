package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out from Nimbus Cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	}
}

func runLogout(ctx context.Context) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	// Invalidate server-side; a stale token is not worth failing over.
	_ = client.Logout(ctx)

	if err := saveToken(""); err != nil {
		return err
	}

	say("You have been successfully logged out")

	return nil
}
