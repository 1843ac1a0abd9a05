package commands

import (
	"context"
	"fmt"

	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register [EMAIL]",
		Short: "Register a new Nimbus Cloud account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			}

			return runRegister(cmd.Context(), email)
		},
	}
}

func runRegister(ctx context.Context, email string) error {
	prompter := newPrompter()

	if email != "" {
		say("Registering with email: " + email)
	} else {
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

	confirmation, err := prompter.Password("Password confirmation:")
	if err != nil {
		return err
	}

	if password == "" || password != confirmation {
		sayRed("Password and password confirmation don't match, please type them again")

		return ErrAborted
	}

	accepted, err := prompter.ConfirmYesNo("Do you accept the Terms of Service of Nimbus Cloud")
	if err != nil {
		return err
	}

	if !accepted {
		sayRed("You must accept the Terms of Service to use Nimbus Cloud")

		return ErrAborted
	}

	if err := apiClient().Register(ctx, email, password); err != nil {
		return registerFailure(err)
	}

	sayGreen("Successfully registered!")
	say(fmt.Sprintf("Check you mailbox (%s) for email address confirmation", email))

	return nil
}

func registerFailure(err error) error {
	failure, ok := nimbus.AsFailure(err)
	if !ok || nimbus.Classify(failure) != nimbus.KindValidationFailed {
		return err
	}

	for _, fieldErr := range failure.Errors {
		sayRed(fieldErr.Render())
	}

	return ErrAborted
}
