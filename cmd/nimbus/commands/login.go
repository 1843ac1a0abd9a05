package commands

import (
	"context"

	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [EMAIL]",
		Short: "Log in to Nimbus Cloud",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			}

			return runLogin(cmd.Context(), email)
		},
	}
}

func runLogin(ctx context.Context, email string) error {
	prompter := newPrompter()

	if email == "" {
		answer, err := prompter.AskEmail(gitx.New("").UserEmail())
		if err != nil {
			sayRed("Email can't be blank, please try again")

			return ErrAborted
		}

		email = answer
	}

	password, err := prompter.Password("Password:")
	if err != nil {
		return err
	}

	client := apiClient()

	token, err := client.Login(ctx, email, password)
	if err != nil {
		return loginFailure(err)
	}

	if err := saveToken(token); err != nil {
		return err
	}

	client.SetToken(token)
	sayGreen("Login successful")

	if clouds, err := client.Clouds(ctx); err == nil && len(clouds) > 0 {
		sayGreen("You have following clouds available:")
		renderCloudListing(clouds)
	}

	return nil
}

// loginFailure distinguishes wrong credentials, which come with a
// password-reset link, from an unconfirmed account.
func loginFailure(err error) error {
	failure, ok := nimbus.AsFailure(err)
	if !ok || nimbus.Classify(failure) != nimbus.KindUnauthorized {
		return err
	}

	sayRed(failure.Message)

	if failure.URL != "" {
		sayRed("You can reset password by using link:")
		sayRed(failure.URL)
	}

	return ErrAborted
}
