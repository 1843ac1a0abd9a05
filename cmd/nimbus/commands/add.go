package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbus-cloud/nimbus-cli/internal/api"
	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/internal/manifest"
	"github.com/nimbus-cloud/nimbus-cli/internal/prompt"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

type addOptions struct {
	codeName     string
	databases    []string
	size         string
	organization string
	region       string
	zone         string
	redeemCode   string
	referralCode string
}

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new cloud",
		Long:  "Create a new cloud on Nimbus Cloud and configure the current project to deploy to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.codeName, "code-name", "", "unique code name for the cloud")
	cmd.Flags().StringSliceVarP(&opts.databases, "databases", "d", nil, "databases to use")
	cmd.Flags().StringVarP(&opts.size, "size", "s", "", "server size (small or large)")
	cmd.Flags().StringVarP(&opts.organization, "organization", "o", "", "organization the cloud belongs to")
	cmd.Flags().StringVar(&opts.region, "region", "", "region to provision the cloud in")
	cmd.Flags().StringVar(&opts.zone, "zone", "", "specific zone to provision the cloud in")
	cmd.Flags().StringVar(&opts.redeemCode, "redeem-code", "", "promotional code used when creating an organization")
	cmd.Flags().StringVar(&opts.referralCode, "referral-code", "", "referral code used when creating an organization")
	cmd.MarkFlagsMutuallyExclusive("region", "zone")

	return cmd
}

func runAdd(ctx context.Context, opts *addOptions) error {
	repo := gitx.New("")
	if err := requireGitRepository(repo); err != nil {
		return err
	}

	client, err := requireLogin()
	if err != nil {
		return err
	}

	prompter := newPrompter()

	attempt, err := buildCloudRequest(ctx, client, prompter, opts)
	if err != nil {
		return err
	}

	cloud, err := client.CreateCloud(ctx, attempt)
	if err != nil {
		return addFailure(opts, attempt, err)
	}

	sayGreen(fmt.Sprintf("Cloud '%s' created in '%s' organization", cloud.CodeName, cloud.OrganizationName))

	printBillingNotice(&cloud.Organization, cloud.OrganizationName)

	remoteName, err := prompter.AskGitRemoteName(defaultRemoteName, repo.RemoteExists)
	if err != nil {
		return err
	}

	remoteURL := gitURL(cloud.CodeName)

	sayGreen(fmt.Sprintf("Running: git remote add %s %s", remoteName, remoteURL))

	if err := repo.AddRemote(remoteName, remoteURL); err != nil {
		return err
	}

	entry := manifest.Entry{Size: attempt.Size, Databases: attempt.Databases}
	if err := manifest.New("").Append(cloud.CodeName, entry); err != nil {
		return err
	}

	sayGreen("Project is now configured for use with Nimbus Cloud:")
	sayGreen("You can review changes using")
	say("  git status")
	sayGreen("When you make sure all settings are correct, add changes to your repository:")
	say("  git add .")
	say(`  git commit -m "Application added to Nimbus Cloud"`)
	sayGreen("Deploy to your cloud using:")
	say(fmt.Sprintf("  git push %s master", remoteName))

	return nil
}

// buildCloudRequest gathers cloud attributes from flags, prompting for
// whatever was not given. Flag values are validated up front; prompted
// values are validated by their ask loops.
func buildCloudRequest(ctx context.Context, client *api.Client, prompter *prompt.Prompter, opts *addOptions) (*nimbus.CloudCreateRequest, error) {
	codeName := opts.codeName
	if codeName == "" {
		name, err := prompter.AskCodeName(defaultCodeName())
		if err != nil {
			return nil, err
		}

		codeName = name
	}

	databases := nimbus.NormalizeDatabases(opts.databases)
	if len(opts.databases) > 0 {
		for _, kind := range databases {
			if !nimbus.ValidDatabase(kind) {
				sayRed("Try `nimbus help add` for more information")

				return nil, ErrAborted
			}
		}
	} else {
		kinds, err := prompter.AskDatabases()
		if err != nil {
			return nil, err
		}

		databases = kinds
	}

	size := opts.size
	if size == "" {
		size = "small"
	} else if !nimbus.ValidSize(size) {
		sayRed("Try `nimbus help add` for more information")

		return nil, ErrAborted
	}

	var placement nimbus.Placement

	switch {
	case opts.zone != "":
		placement = nimbus.ZonePlacement(opts.zone)
	case opts.region != "":
		placement = nimbus.RegionPlacement(opts.region)
	default:
		region, err := prompter.AskRegion()
		if err != nil {
			return nil, err
		}

		placement = nimbus.RegionPlacement(region)
	}

	organization := opts.organization
	if organization == "" {
		name, err := prompter.AskOrganization(ctx, client, codeName, opts.redeemCode, opts.referralCode)
		if err != nil {
			return nil, err
		}

		organization = name
	}

	return nimbus.NewCloudCreateRequest(codeName, databases, size, organization, placement), nil
}

func addFailure(opts *addOptions, attempt *nimbus.CloudCreateRequest, err error) error {
	failure, _ := nimbus.AsFailure(err)

	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized:
		return notLoggedIn()
	case nimbus.KindValidationFailed:
		for _, fieldErr := range failure.Errors {
			sayRed(fieldErr.Render())
		}

		sayRed("Fix errors in the below command and type it again to create your cloud")
		sayRed(reconstructAddInvocation(attempt))
	case nimbus.KindForbidden:
		sayRed(fmt.Sprintf("You have to be the owner of '%s' organization to add clouds", attempt.OrganizationName))
	case nimbus.KindNotFound:
		if failure.Resource == "organization" {
			sayRed(fmt.Sprintf("Organization '%s' not found", attempt.OrganizationName))
			say("You can list organizations using `nimbus organizations`")
		} else {
			sayRed(failure.Message)
		}
	case nimbus.KindConflict:
		sayRed(failure.Message)
	default:
		return err
	}

	return ErrAborted
}

// reconstructAddInvocation renders a corrected add command the user can
// edit and re-run after a validation failure. Re-parsing its flags yields
// the same cloud that was just attempted.
func reconstructAddInvocation(attempt *nimbus.CloudCreateRequest) string {
	databases := strings.Join(attempt.Databases, ",")
	if databases == "" {
		databases = "none"
	}

	invocation := fmt.Sprintf("nimbus add --code-name=%s --databases=%s --organization=%s --size=%s",
		attempt.CodeName, databases, attempt.OrganizationName, attempt.Size)

	if attempt.Zone != "" {
		return invocation + " --zone=" + attempt.Zone
	}

	return invocation + " --region=" + attempt.Region
}

// printBillingNotice reminds about billing when an organization still has
// trial credit or incomplete billing details.
func printBillingNotice(org *nimbus.OrganizationInfo, organizationName string) {
	credit := strings.TrimSpace(org.Credit)
	if (credit == "" || credit == "0") && org.DetailsPresent {
		return
	}

	sayGreen("Billing information")

	if credit != "" && credit != "0" {
		say(fmt.Sprintf("%s Euro credit remaining.", credit))
	}

	if !org.DetailsPresent {
		say("Remember to provide billing details before trial ends.")
		say(billingURL(organizationName))
	}
}
