package prompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nimbus-cloud/nimbus-cli/internal/prompt"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*prompt.Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return prompt.NewWithIO(strings.NewReader(input), out), out
}

func TestAskDatabases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"blank defaults to postgresql", "\n", []string{"postgresql"}},
		{"comma and space separated", "postgresql  ,mongodb redis\n", []string{"postgresql", "mongodb", "redis"}},
		{"none discards other selections", "postgresql, none\n", []string{}},
		{"none alone", "none\n", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newPrompter(tt.input)

			kinds, err := p.AskDatabases()
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestAskDatabasesRepromptsOnUnknownKind(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("postgresql,doesnt-exist\nnone\n")

	kinds, err := p.AskDatabases()
	require.NoError(t, err)
	assert.Empty(t, kinds)
	assert.Contains(t, out.String(), "Which databases do you want to use postgresql, mysql, mongodb, redis, none (postgresql - default):")
	assert.Contains(t, out.String(), "Unknown database kind. Supported are: postgresql, mysql, mongodb, redis, none:")
}

func TestAskRegion(t *testing.T) {
	t.Parallel()

	t.Run("blank defaults to first region without warning", func(t *testing.T) {
		t.Parallel()

		p, out := newPrompter("\n")

		region, err := p.AskRegion()
		require.NoError(t, err)
		assert.Equal(t, "EU", region)
		assert.NotContains(t, out.String(), "is not available")
	})

	t.Run("input is upcased before matching", func(t *testing.T) {
		t.Parallel()

		p, _ := newPrompter("na\n")

		region, err := p.AskRegion()
		require.NoError(t, err)
		assert.Equal(t, "NA", region)
	})

	t.Run("unknown region warns and re-prompts", func(t *testing.T) {
		t.Parallel()

		p, out := newPrompter("ASIA\nNA\n")

		region, err := p.AskRegion()
		require.NoError(t, err)
		assert.Equal(t, "NA", region)
		assert.Contains(t, out.String(), "ASIA region is not available")
	})
}

func TestAskCodeName(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("\n")

	name, err := p.AskCodeName("foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Contains(t, out.String(), "Cloud code name (foo - default):")

	p, _ = newPrompter("mycodename\n")

	name, err = p.AskCodeName("foo")
	require.NoError(t, err)
	assert.Equal(t, "mycodename", name)
}

func TestAskEmail(t *testing.T) {
	t.Parallel()

	p, out := newPrompter("\n")

	email, err := p.AskEmail("kate@example.com")
	require.NoError(t, err)
	assert.Equal(t, "kate@example.com", email)
	assert.Contains(t, out.String(), "Email (kate@example.com - default):")

	p, _ = newPrompter("\n")

	_, err = p.AskEmail("")
	require.Error(t, err)
}

type fakeOrgService struct {
	organizations []nimbus.Organization
	created       []*nimbus.OrganizationCreateRequest
	createErrs    []error
}

func (s *fakeOrgService) Organizations(_ context.Context) ([]nimbus.Organization, error) {
	return s.organizations, nil
}

func (s *fakeOrgService) CreateOrganization(_ context.Context, req *nimbus.OrganizationCreateRequest) (*nimbus.Organization, error) {
	s.created = append(s.created, req)

	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]

		if err != nil {
			return nil, err
		}
	}

	return &nimbus.Organization{Name: req.Name}, nil
}

func TestAskOrganizationSelectsExisting(t *testing.T) {
	t.Parallel()

	svc := &fakeOrgService{organizations: []nimbus.Organization{{Name: "aaa"}}}
	p, out := newPrompter("aaa\n")

	name, err := p.AskOrganization(context.Background(), svc, "foo", "", "")
	require.NoError(t, err)
	assert.Equal(t, "aaa", name)
	assert.Contains(t, out.String(), "Select organization for this cloud:")
	assert.Contains(t, out.String(), "∙ aaa")
	assert.Empty(t, svc.created)
}

func TestAskOrganizationKeepsAskingUntilValid(t *testing.T) {
	t.Parallel()

	svc := &fakeOrgService{organizations: []nimbus.Organization{{Name: "aaa"}}}
	p, out := newPrompter("bbb\naaa\n")

	name, err := p.AskOrganization(context.Background(), svc, "foo", "", "")
	require.NoError(t, err)
	assert.Equal(t, "aaa", name)
	assert.Contains(t, out.String(), "bbb organization does not exist")
}

func TestAskOrganizationBlankCreatesNew(t *testing.T) {
	t.Parallel()

	svc := &fakeOrgService{organizations: []nimbus.Organization{{Name: "aaa"}}}
	p, out := newPrompter("\norg-name\n")

	name, err := p.AskOrganization(context.Background(), svc, "foo", "discount", "ref")
	require.NoError(t, err)
	assert.Equal(t, "org-name", name)
	assert.Contains(t, out.String(), "Organization 'org-name' created")

	require.Len(t, svc.created, 1)
	assert.Equal(t, "org-name", svc.created[0].Name)
	assert.Equal(t, "discount", svc.created[0].RedeemCode)
	assert.Equal(t, "ref", svc.created[0].ReferralCode)
}

func TestAskOrganizationNoExistingGoesStraightToCreate(t *testing.T) {
	t.Parallel()

	svc := &fakeOrgService{}
	p, out := newPrompter("\n")

	name, err := p.AskOrganization(context.Background(), svc, "foo", "", "")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.NotContains(t, out.String(), "Select organization for this cloud:")
}

func TestAskOrganizationCreateReloopsOnValidationFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeOrgService{
		createErrs: []error{&nimbus.APIFailure{
			StatusClass: nimbus.StatusValidationFailed,
			Errors:      []nimbus.FieldError{{Field: "name", Reason: "has been already taken"}},
		}},
	}
	p, out := newPrompter("taken\nfresh\n")

	name, err := p.AskOrganization(context.Background(), svc, "foo", "", "")
	require.NoError(t, err)
	assert.Equal(t, "fresh", name)
	assert.Contains(t, out.String(), "Name has been already taken")
	assert.Len(t, svc.created, 2)
}

func TestAskGitRemoteName(t *testing.T) {
	t.Parallel()

	t.Run("default free", func(t *testing.T) {
		t.Parallel()

		p, _ := newPrompter("")

		name, err := p.AskGitRemoteName("nimbus", func(string) bool { return false })
		require.NoError(t, err)
		assert.Equal(t, "nimbus", name)
	})

	t.Run("overwrite accepted", func(t *testing.T) {
		t.Parallel()

		p, out := newPrompter("yes\n")

		name, err := p.AskGitRemoteName("nimbus", func(string) bool { return true })
		require.NoError(t, err)
		assert.Equal(t, "nimbus", name)
		assert.Contains(t, out.String(), "Git remote nimbus exists, overwrite (yes/no):")
	})

	t.Run("overwrite declined picks alternate", func(t *testing.T) {
		t.Parallel()

		p, out := newPrompter("no\ntest\n")

		name, err := p.AskGitRemoteName("nimbus", func(remote string) bool { return remote == "nimbus" })
		require.NoError(t, err)
		assert.Equal(t, "test", name)
		assert.Contains(t, out.String(), "Specify remote name:")
	})
}

func TestConfirmByName(t *testing.T) {
	t.Parallel()

	p, _ := newPrompter("foo-staging\n")

	ok, err := p.ConfirmByName("Please confirm with the name of the cloud:", "foo-staging")
	require.NoError(t, err)
	assert.True(t, ok)

	p, _ = newPrompter("foo-production\n")

	ok, err = p.ConfirmByName("Please confirm with the name of the cloud:", "foo-staging")
	require.NoError(t, err)
	assert.False(t, ok)
}
