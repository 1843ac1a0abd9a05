package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"os/exec"
	"testing"

	"github.com/nimbus-cloud/nimbus-cli/internal/gitx"
	"github.com/nimbus-cloud/nimbus-cli/internal/manifest"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructAddInvocation(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("big-letters", []string{"postgresql"}, "small", "org-name",
		nimbus.RegionPlacement("EU"))

	invocation := reconstructAddInvocation(attempt)
	assert.Equal(t,
		"nimbus add --code-name=big-letters --databases=postgresql --organization=org-name --size=small --region=EU",
		invocation)
}

func TestReconstructAddInvocationZone(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("foo", []string{"postgresql", "redis"}, "large", "acme",
		nimbus.ZonePlacement("eu1-a"))

	invocation := reconstructAddInvocation(attempt)
	assert.Equal(t,
		"nimbus add --code-name=foo --databases=postgresql,redis --organization=acme --size=large --zone=eu1-a",
		invocation)
}

func TestReconstructAddInvocationEmptyDatabases(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("foo", []string{}, "small", "acme",
		nimbus.RegionPlacement("EU"))

	assert.Contains(t, reconstructAddInvocation(attempt), "--databases=none")
}

func TestAddFailureValidationAborts(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("foo", []string{"postgresql"}, "small", "acme",
		nimbus.RegionPlacement("EU"))
	failure := &nimbus.APIFailure{
		StatusClass: nimbus.StatusValidationFailed,
		Errors:      []nimbus.FieldError{{Field: "code_name", Reason: "has been already taken"}},
	}

	err := addFailure(&addOptions{}, attempt, failure)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestAddFailureUnexpectedErrorsPropagate(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("foo", []string{"postgresql"}, "small", "acme",
		nimbus.RegionPlacement("EU"))
	failure := &nimbus.APIFailure{StatusClass: nimbus.StatusUnknown, Message: "boom"}

	err := addFailure(&addOptions{}, attempt, failure)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAborted)
}

func TestAddFailureRejectedSessionInstructsReLogin(t *testing.T) {
	attempt := nimbus.NewCloudCreateRequest("foo", []string{"postgresql"}, "small", "acme",
		nimbus.RegionPlacement("EU"))

	out, err := captureOutput(t, func() error {
		return addFailure(&addOptions{}, attempt, &nimbus.APIFailure{StatusClass: nimbus.StatusUnauthorized})
	})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, out, "You are not logged in. To log in use: `nimbus login`")
}

func TestRunAddWithFlagsCreatesCloudWithoutPrompts(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	chdir(t, dir)

	gitInit := exec.Command("git", "init", "--quiet")
	gitInit.Dir = dir
	require.NoError(t, gitInit.Run())

	var created nimbus.CloudCreateRequest

	newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/clouds", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code_name": "foo",
			"organization_name": "org",
			"organization": {"name": "org", "credit": "0", "details_present": true}
		}`))
	}))
	viper.Set("git_host", "git.nimbuscloud.example")

	// An empty script fails the command if anything prompts.
	scriptPrompter(t, "")

	opts := &addOptions{
		codeName:     "foo",
		databases:    []string{"postgresql"},
		size:         "small",
		organization: "org",
		region:       "EU",
	}

	out, err := captureOutput(t, func() error {
		return runAdd(context.Background(), opts)
	})
	require.NoError(t, err)

	assert.Equal(t, "foo", created.CodeName)
	assert.Equal(t, []string{"postgresql"}, created.Databases)
	assert.Equal(t, "EU", created.Region)

	assert.Contains(t, out, "Cloud 'foo' created in 'org' organization")
	assert.Contains(t, out, "git push nimbus master")

	clouds, err := manifest.New("").Clouds()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, clouds)

	assert.True(t, gitx.New("").RemoteExists("nimbus"))
}

func TestDescribeState(t *testing.T) {
	running := &nimbus.Cloud{CodeName: "foo", State: nimbus.StateRunning, StateDescription: "running"}
	assert.Equal(t, "running", describeState(running))

	failed := &nimbus.Cloud{
		CodeName:         "bar",
		State:            nimbus.StateDeployFailed,
		StateDescription: "running (last deployment failed)",
	}
	assert.Equal(t,
		"running (last deployment failed) (deployment log: `nimbus deploys last -c bar`)",
		describeState(failed))

	maintenance := &nimbus.Cloud{
		CodeName:         "baz",
		State:            nimbus.StateDeployFailed,
		StateDescription: "admin maintenance in progress",
		Maintenance:      true,
	}
	assert.Equal(t, "admin maintenance in progress", describeState(maintenance))
}
