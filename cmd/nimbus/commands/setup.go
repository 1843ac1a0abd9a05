package commands

import (
	"context"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/spf13/cobra"
)

// NewSetupCommand creates the setup command.
func NewSetupCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up clouds in the current project",
		Long:  "Configure the deployment git remote for a cloud that already exists on Nimbus Cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runSetup(ctx context.Context, cloud string) error {
	repo := gitx.New("")
	if err := requireGitRepository(repo); err != nil {
		return err
	}

	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "setup")
	if err != nil {
		return err
	}

	sayGreen(fmt.Sprintf("Setting up %s cloud", codeName))

	attributes, err := client.Cloud(ctx, codeName)
	if err != nil {
		return err
	}

	remoteURL := attributes.GitInfo.RepositoryURL
	if remoteURL == "" {
		remoteURL = gitURL(codeName)
	}

	remoteName, err := newPrompter().AskGitRemoteName(defaultRemoteName, repo.RemoteExists)
	if err != nil {
		return err
	}

	say(fmt.Sprintf("Running: git remote add %s %s", remoteName, remoteURL))

	if err := repo.AddRemote(remoteName, remoteURL); err != nil {
		return err
	}

	say(fmt.Sprintf("Running: git fetch %s", remoteName))

	if err := repo.FetchRemote(remoteName); err != nil {
		return err
	}

	sayGreen("Your application is set up.")

	return nil
}
