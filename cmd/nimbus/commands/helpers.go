// Package commands implements the nimbus command surface. Each command is
// a fixed sequence: precondition checks, cloud resolution for cloud-scoped
// commands, one or more API calls, then a per-command narrative for every
// classified failure.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/nimbus-cloud/nimbus-cli/internal/api"
	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/internal/manifest"
	"github.com/nimbus-cloud/nimbus-cli/internal/prompt"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
)

// ErrAborted signals that a command already printed its failure narrative.
// main exits non-zero without printing the error again.
var ErrAborted = errors.New("aborted")

// defaultRemoteName is the git remote commands offer for the deployment
// repository.
const defaultRemoteName = "nimbus"

func say(text string) {
	fmt.Fprintln(os.Stdout, text)
}

func sayGreen(text string) {
	color.New(color.FgGreen).Fprintln(os.Stdout, text)
}

func sayRed(text string) {
	color.New(color.FgRed).Fprintln(os.Stdout, text)
}

// apiClient builds a gateway client from the active configuration.
func apiClient() *api.Client {
	return api.NewClient(viper.GetString("api"), viper.GetString("token"),
		api.WithUserAgent("nimbus-cli"))
}

const notLoggedInText = "You are not logged in. To log in use: `nimbus login`"

// notLoggedIn prints the re-login instruction. It covers both a missing
// local token and a stored token the server rejects.
func notLoggedIn() error {
	sayRed(notLoggedInText)

	return ErrAborted
}

// requireLogin is the precondition for every authenticated command.
func requireLogin() (*api.Client, error) {
	if viper.GetString("token") == "" {
		return nil, notLoggedIn()
	}

	return apiClient(), nil
}

// SessionRejected renders the re-login instruction when an error is a
// server-side session rejection. main uses it as the last-resort handler
// for commands without their own unauthorized narrative.
func SessionRejected(err error) bool {
	if nimbus.ClassifyErr(err) != nimbus.KindUnauthorized {
		return false
	}

	sayRed(notLoggedInText)

	return true
}

// requireGitRepository is the precondition for commands that touch git
// remotes.
func requireGitRepository(repo *gitx.Repo) error {
	if repo.Exists() {
		return nil
	}

	sayRed("Current directory is not a git repository.\n" +
		"You need to initialize repository with `git init`.")

	return ErrAborted
}

// resolveCloud picks the target cloud for a cloud-scoped command. An
// explicit --cloud flag always wins; otherwise the Cloudfile must name
// exactly one cloud. commandName is used in the disambiguation hints.
func resolveCloud(ctx context.Context, client *api.Client, explicit, commandName string) (string, error) {
	clouds, err := manifest.New("").Clouds()
	if err != nil {
		return "", fmt.Errorf("reading Cloudfile: %w", err)
	}

	target, err := manifest.Resolve(clouds, explicit)
	if err == nil {
		return target, nil
	}

	var ambiguous *manifest.AmbiguousCloudError
	if errors.As(err, &ambiguous) {
		sayRed("You have multiple clouds in Cloudfile.")
		say(fmt.Sprintf("Select cloud using `nimbus %s --cloud %s`", commandName, ambiguous.Clouds[0]))
		say("Available clouds:")

		for _, name := range ambiguous.Clouds {
			say(" * " + name)
		}

		return "", ErrAborted
	}

	var noCloud *manifest.NoCloudError
	if errors.As(err, &noCloud) {
		sayRed("You have to specify cloud.")
		say(fmt.Sprintf("Select cloud using `nimbus %s --cloud CLOUD_NAME`", commandName))

		if remote, err := client.Clouds(ctx); err == nil && len(remote) > 0 {
			sayGreen("You have following clouds available:")
			renderCloudListing(remote)
		}

		return "", ErrAborted
	}

	return "", err
}

// renderCloudListing prints a two-column cloud table with the deploy-log
// hint appended to failed clouds.
func renderCloudListing(clouds []nimbus.Cloud) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Cloud", "State")

	for _, cloud := range clouds {
		_ = table.Append(cloud.CodeName, describeState(&cloud))
	}

	_ = table.Render()
}

// describeState renders a cloud's state description, pointing at the
// deployment log after a failed deploy unless the platform is doing
// maintenance on the cloud.
func describeState(cloud *nimbus.Cloud) string {
	description := cloud.StateDescription
	if cloud.State == nimbus.StateDeployFailed && !cloud.Maintenance {
		description += fmt.Sprintf(" (deployment log: `nimbus deploys last -c %s`)", cloud.CodeName)
	}

	return description
}

func deployLogHint(codeName string) string {
	return fmt.Sprintf("`nimbus deploys last --cloud %s`", codeName)
}

// gitURL is the deployment repository address of a cloud.
func gitURL(codeName string) string {
	return fmt.Sprintf("git@%s:%s.git", viper.GetString("git_host"), codeName)
}

// billingURL is the page where an organization completes billing details.
func billingURL(organization string) string {
	if organization == "" {
		return viper.GetString("web_url") + "/billing"
	}

	return fmt.Sprintf("%s/organizations/%s/edit", viper.GetString("web_url"), organization)
}

// saveToken persists the session token to the config file.
func saveToken(token string) error {
	viper.Set("token", token)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating home directory: %w", err)
		}

		configDir := filepath.Join(home, ".nimbus")
		if err := os.MkdirAll(configDir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	return nil
}

// defaultCodeName derives the code name offered during `add` from the
// project directory.
func defaultCodeName() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	return filepath.Base(dir)
}

// newPrompter binds the interactive loops to the terminal. Tests replace
// it with a prompter over scripted streams.
var newPrompter = func() *prompt.Prompter {
	return prompt.New()
}
