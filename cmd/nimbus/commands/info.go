package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show basic information about the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runInfo(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "info")
	if err != nil {
		return err
	}

	attributes, err := client.Cloud(ctx, codeName)
	if err != nil {
		if nimbus.ClassifyErr(err) == nimbus.KindNotFound {
			sayRed(fmt.Sprintf("You have no access to '%s' cloud defined in Cloudfile", codeName))

			return ErrAborted
		}

		return err
	}

	header := fmt.Sprintf("Cloud %s:", attributes.CodeName)
	if attributes.State == nimbus.StateDeployFailed {
		sayRed(header)
	} else {
		sayGreen(header)
	}

	if attributes.Zone != "" {
		say("  Zone: " + attributes.Zone)
	} else {
		say("  Region: " + attributes.Region)
	}

	say("  State: " + describeState(attributes))

	if attributes.GitInfo.DeployedCommitSHA != "" {
		say("  Deployed commit sha: " + attributes.GitInfo.DeployedCommitSHA)
		say("  Deployed commit message: " + attributes.GitInfo.DeployedCommitMessage)
		say("  Deployed by: " + attributes.GitInfo.DeployedPushAuthor)
	}

	if attributes.GitInfo.RepositoryURL != "" {
		say("  Repository URL: " + attributes.GitInfo.RepositoryURL)
	}

	if len(attributes.WebServerIPs) > 0 {
		say("  Web server IP: " + strings.Join(attributes.WebServerIPs, ", "))
	}

	statistics, err := client.Statistics(ctx, codeName)
	if err != nil {
		if nimbus.ClassifyErr(err) == nimbus.KindGatewayTimeout {
			sayRed("Server statistics temporarily unavailable")

			return ErrAborted
		}

		return err
	}

	printStatistics(statistics)

	return nil
}

func printStatistics(statistics []nimbus.ServerStatistics) {
	if len(statistics) == 0 {
		return
	}

	say("  Statistics:")

	for _, server := range statistics {
		say(fmt.Sprintf("    %s:", server.Name))
		say(fmt.Sprintf("      Load average: 1m: %s, 5m: %s, 15m: %s",
			server.Load.Avg01, server.Load.Avg05, server.Load.Avg15))
		say(fmt.Sprintf("      CPU: %s%%, MEM: %s%%, SWAP: %s%%",
			server.CPU.Wait, server.Memory.Percent, server.Swap.Percent))
	}
}
