package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

// AskDatabases asks which databases the new cloud should use. Tokens may be
// separated by commas and/or spaces; "none" anywhere yields an empty
// selection; a blank answer defaults to postgresql. Any unrecognized token
// discards the whole answer and re-prompts.
func (p *Prompter) AskDatabases() ([]string, error) {
	choices := strings.Join(nimbus.DatabaseChoices, ", ")
	question := fmt.Sprintf("Which databases do you want to use %s (postgresql - default):", choices)

	for {
		answer, err := p.Ask(question)
		if err != nil {
			return nil, err
		}

		if answer == "" {
			return []string{"postgresql"}, nil
		}

		kinds := nimbus.NormalizeDatabases([]string{answer})

		valid := true

		for _, kind := range kinds {
			if !nimbus.ValidDatabase(kind) {
				valid = false

				break
			}
		}

		if valid {
			return kinds, nil
		}

		question = fmt.Sprintf("Unknown database kind. Supported are: %s:", choices)
	}
}

// AskRegion asks where the new cloud should be provisioned. Input is
// upcased before matching; a blank answer picks the first region.
func (p *Prompter) AskRegion() (string, error) {
	p.Say("Select region for this cloud:")
	p.NewLine()

	for {
		p.Say("available regions:")

		for _, region := range nimbus.Regions {
			p.Say("  ∙ " + region)
		}

		p.NewLine()

		answer, err := p.AskDefault("Region", nimbus.Regions[0])
		if err != nil {
			return "", err
		}

		selected := strings.ToUpper(answer)
		if nimbus.ValidRegion(selected) {
			return selected, nil
		}

		p.NewLine()
		p.SayWarning(selected + " region is not available")
	}
}

// AskCodeName asks for the cloud's code name, defaulting to the name
// derived from the project directory.
func (p *Prompter) AskCodeName(defaultName string) (string, error) {
	return p.AskDefault("Cloud code name", defaultName)
}

// AskEmail asks for an email address, offering guessed as the default when
// non-empty. A blank final answer is an error.
func (p *Prompter) AskEmail(guessed string) (string, error) {
	var (
		answer string
		err    error
	)

	if guessed != "" {
		answer, err = p.AskDefault("Email", guessed)
	} else {
		answer, err = p.Ask("Email:")
	}

	if err != nil {
		return "", err
	}

	if answer == "" {
		return "", fmt.Errorf("email can't be blank")
	}

	return answer, nil
}

// OrganizationService is the slice of the API the organization workflow
// needs.
type OrganizationService interface {
	Organizations(ctx context.Context) ([]nimbus.Organization, error)
	CreateOrganization(ctx context.Context, req *nimbus.OrganizationCreateRequest) (*nimbus.Organization, error)
}

// AskOrganization selects the organization for a new cloud. With no
// existing organizations it goes straight to creation; otherwise it lists
// them and accepts an exact name, or a blank answer to create a new one.
func (p *Prompter) AskOrganization(ctx context.Context, svc OrganizationService, defaultName, redeemCode, referralCode string) (string, error) {
	organizations, err := svc.Organizations(ctx)
	if err != nil {
		return "", err
	}

	if len(organizations) == 0 {
		return p.askNewOrganization(ctx, svc, defaultName, redeemCode, referralCode)
	}

	p.Say("Select organization for this cloud:")
	p.NewLine()

	for {
		p.Say("existing organizations:")

		for _, org := range organizations {
			p.Say("  ∙ " + org.Name)
		}

		p.SayGreen("Or leave empty to create a new organization")
		p.NewLine()

		selected, err := p.Ask("Organization:")
		if err != nil {
			return "", err
		}

		if selected == "" {
			p.NewLine()

			return p.askNewOrganization(ctx, svc, defaultName, redeemCode, referralCode)
		}

		for _, org := range organizations {
			if org.Name == selected {
				return selected, nil
			}
		}

		p.NewLine()
		p.SayWarning(selected + " organization does not exist")
	}
}

// askNewOrganization creates an organization, re-looping on remote
// validation failures so the user can correct the name.
func (p *Prompter) askNewOrganization(ctx context.Context, svc OrganizationService, defaultName, redeemCode, referralCode string) (string, error) {
	for {
		name, err := p.AskDefault("Organization name", defaultName)
		if err != nil {
			return "", err
		}

		_, err = svc.CreateOrganization(ctx, &nimbus.OrganizationCreateRequest{
			Name:         name,
			RedeemCode:   redeemCode,
			ReferralCode: referralCode,
		})
		if err == nil {
			p.SayGreen(fmt.Sprintf("Organization '%s' created", name))

			return name, nil
		}

		failure, ok := nimbus.AsFailure(err)
		if !ok || nimbus.Classify(failure) != nimbus.KindValidationFailed {
			return "", err
		}

		for _, fieldErr := range failure.Errors {
			p.SayError(fieldErr.Render())
		}
	}
}

// AskGitRemoteName picks the name for the deployment git remote. When the
// default is taken the user may overwrite it or supply an alternate; the
// loop continues until a usable name is chosen.
func (p *Prompter) AskGitRemoteName(defaultName string, exists func(string) bool) (string, error) {
	if !exists(defaultName) {
		return defaultName, nil
	}

	overwrite, err := p.ConfirmYesNo(fmt.Sprintf("Git remote %s exists, overwrite", defaultName))
	if err != nil {
		return "", err
	}

	if overwrite {
		return defaultName, nil
	}

	for {
		name, err := p.Ask("Specify remote name:")
		if err != nil {
			return "", err
		}

		if name == "" {
			continue
		}

		if !exists(name) {
			return name, nil
		}

		p.SayWarning(fmt.Sprintf("Git remote %s exists", name))
	}
}

// ConfirmByName requires the user to re-type the exact target name before a
// destructive operation proceeds.
func (p *Prompter) ConfirmByName(question, expected string) (bool, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return false, err
	}

	return answer == expected, nil
}
