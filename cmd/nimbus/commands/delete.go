package commands

import (
	"context"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/internal/manifest"
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the cloud",
		Long:  "Permanently remove a cloud, its databases, and its stored files from Nimbus Cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runDelete(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "delete")
	if err != nil {
		return err
	}

	say("You are going to:")
	say(fmt.Sprintf(" * remove all files stored in the persistent storage for %s,", codeName))
	say(fmt.Sprintf(" * remove all database data for %s,", codeName))
	say(fmt.Sprintf(" * remove %s cloud from Nimbus Cloud", codeName))
	say("")
	sayRed("This action is permanent and can not be undone.")
	say("")

	confirmed, err := newPrompter().ConfirmByName("Please confirm with the name of the cloud:", codeName)
	if err != nil {
		return err
	}

	if !confirmed {
		sayRed("The name does not match. Operation aborted.")

		return ErrAborted
	}

	if err := client.DeleteCloud(ctx, codeName); err != nil {
		return err
	}

	say("Scheduling application delete - done")

	repo := gitx.New("")
	if repo.Exists() {
		if err := repo.RemoveRemote(defaultRemoteName); err != nil {
			return err
		}

		say("Removing git remote - done")
	} else {
		say("Missing git remote")
	}

	return manifest.New("").Remove(codeName)
}
