package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/internal/api"
	"github.com/nimbus-cloud/nimbus-cli/internal/deploy"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewStartCommand creates the start command.
func NewStartCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the cloud",
		Long:  "Ask the platform to start the cloud and follow the deployment until it finishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runStart(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "start")
	if err != nil {
		return err
	}

	sayGreen(fmt.Sprintf("Starting cloud %s.", codeName))

	deploymentID, err := client.StartCloud(ctx, codeName)
	if err != nil {
		return startFailure(ctx, client, codeName, err)
	}

	return watchDeployment(ctx, client, codeName, deploymentID,
		"Starting cloud successful",
		fmt.Sprintf("Starting cloud failed. See logs with %s", deployLogHint(codeName)))
}

func startFailure(ctx context.Context, client *api.Client, codeName string, err error) error {
	failure, _ := nimbus.AsFailure(err)

	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized:
		return notLoggedIn()
	case nimbus.KindNotFound:
		sayRed(fmt.Sprintf("You have no access to '%s' cloud defined in Cloudfile", codeName))
	case nimbus.KindLocked:
		sayRed("Deployment is currently blocked:")
		sayRed(failure.Message)
	case nimbus.KindConflict:
		switch nimbus.CloudState(failure.State) {
		case nimbus.StateRunning:
			sayRed(fmt.Sprintf("Not starting: cloud '%s' is already running", codeName))
		case nimbus.StateDeploying:
			sayRed(fmt.Sprintf("Not starting: cloud '%s' is currently deploying", codeName))
		case nimbus.StateDeployFailed:
			sayRed("Not starting: deployment failed")
			sayRed("Support has been notified")
			sayRed(fmt.Sprintf("Check %s for reasons of failure", deployLogHint(codeName)))
		case nimbus.StateNotEnoughResources:
			sayRed("Sorry, There are no resources for your servers.\n" +
				"We have been notified about it. We will be adding new resources shortly")
		case nimbus.StateNoBilling:
			sayRed(fmt.Sprintf("Please fill in billing details to start %s.", codeName))
			sayRed("Visit: " + cloudBillingURL(ctx, client, codeName))
		case nimbus.StateTurningOff:
			sayRed(fmt.Sprintf("Not starting: cloud '%s' is turning off.\n"+
				"Wait until cloud is in 'turned off' state and try again.", codeName))
		default:
			// Unmapped states get the no_code narrative.
			sayRed("Not starting: no source code provided")
			sayRed("Push source code using:")
			say(fmt.Sprintf("`git push %s master`", defaultRemoteName))
		}
	default:
		return err
	}

	return ErrAborted
}

// NewStopCommand creates the stop command.
func NewStopCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Shut down the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runStop(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "stop")
	if err != nil {
		return err
	}

	confirmed, err := newPrompter().ConfirmYesNo(
		fmt.Sprintf("Are you sure you want to shut down '%s' cloud", codeName))
	if err != nil {
		return err
	}

	if !confirmed {
		return ErrAborted
	}

	deploymentID, err := client.StopCloud(ctx, codeName)
	if err != nil {
		return stopFailure(codeName, err)
	}

	return watchDeployment(ctx, client, codeName, deploymentID,
		"Stopping cloud successful",
		fmt.Sprintf("Stopping cloud failed. See logs with %s", deployLogHint(codeName)))
}

func stopFailure(codeName string, err error) error {
	failure, _ := nimbus.AsFailure(err)

	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized:
		return notLoggedIn()
	case nimbus.KindNotFound:
		sayRed(fmt.Sprintf("You have no access to '%s' cloud defined in Cloudfile", codeName))
	case nimbus.KindConflict:
		switch nimbus.CloudState(failure.State) {
		case nimbus.StateDeploying:
			sayRed("Your cloud is currently being deployed and it can not be stopped.")
		case nimbus.StateTurningOff:
			sayRed("Your cloud is turning off.")
		default:
			sayRed("You need to deploy your cloud first.")
		}
	default:
		return err
	}

	return ErrAborted
}

// NewRedeployCommand creates the redeploy command.
func NewRedeployCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "redeploy",
		Short: "Redeploy the cloud",
		Long:  "Redeploy the currently pushed code without starting or stopping the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRedeploy(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runRedeploy(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "redeploy")
	if err != nil {
		return err
	}

	sayGreen(fmt.Sprintf("Redeploying your application for cloud '%s'", codeName))

	deploymentID, err := client.RedeployCloud(ctx, codeName)
	if err != nil {
		return redeployFailure(codeName, err)
	}

	return watchDeployment(ctx, client, codeName, deploymentID,
		"Cloud redeploy successful",
		fmt.Sprintf("Cloud redeploy failed. See logs with %s", deployLogHint(codeName)))
}

func redeployFailure(codeName string, err error) error {
	failure, _ := nimbus.AsFailure(err)

	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized:
		return notLoggedIn()
	case nimbus.KindNotFound:
		sayRed(fmt.Sprintf("You have no access to '%s' cloud defined in Cloudfile", codeName))
	case nimbus.KindLocked:
		sayRed("Deployment is currently blocked:")
		sayRed(failure.Message)
	case nimbus.KindConflict:
		switch nimbus.CloudState(failure.State) {
		case nimbus.StateDeploying:
			sayRed("Your application is being redeployed at the moment")
		case nimbus.StateNoCode, nimbus.StateNoBilling, nimbus.StateTurnedOff:
			sayRed(fmt.Sprintf("Cloud %s is not running", codeName))
			say(fmt.Sprintf("Start your cloud with `nimbus start --cloud %s`", codeName))
		default:
			// An unmapped state here signals a client/server version
			// mismatch; surface it instead of guessing a narrative.
			return err
		}
	default:
		return err
	}

	return ErrAborted
}

// watchDeployment follows a deployment to its terminal state, streaming
// progress messages as they appear.
func watchDeployment(ctx context.Context, client *api.Client, codeName, deploymentID, successText, failureText string) error {
	poller := deploy.NewPoller(client)

	deployment, err := poller.Wait(ctx, codeName, deploymentID, func(msg string) {
		sayGreen(" ---> " + msg)
	})
	if err != nil {
		if errors.Is(err, deploy.ErrTimedOut) {
			sayRed(fmt.Sprintf("Deployment is taking longer than expected. Check %s later", deployLogHint(codeName)))

			return ErrAborted
		}

		return err
	}

	if !deployment.Succeeded() {
		sayRed(failureText)

		return ErrAborted
	}

	sayGreen(successText)

	return nil
}

// cloudBillingURL resolves the billing page for the organization owning a
// cloud, falling back to the generic billing page when the lookup fails.
func cloudBillingURL(ctx context.Context, client *api.Client, codeName string) string {
	cloud, err := client.Cloud(ctx, codeName)
	if err != nil || cloud.OrganizationName == "" {
		return billingURL("")
	}

	return billingURL(cloud.OrganizationName)
}
