package deploy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimbus-cloud/nimbus-cli/internal/deploy"
	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDeployments serves a scripted sequence of results, repeating the
// last one once the script is exhausted.
type fakeDeployments struct {
	results []result
	calls   int
}

type result struct {
	deployment *nimbus.Deployment
	err        error
}

func (f *fakeDeployments) Deployment(_ context.Context, _, _ string) (*nimbus.Deployment, error) {
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}

	f.calls++

	return f.results[i].deployment, f.results[i].err
}

func fastPoller(svc deploy.DeploymentService) *deploy.Poller {
	return deploy.NewPoller(svc,
		deploy.WithIntervals(time.Millisecond, 2*time.Millisecond),
		deploy.WithMaxWait(time.Second),
	)
}

func TestWaitStreamsNewMessagesUntilFinished(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentRunning, Messages: []string{"one"}}},
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentRunning, Messages: []string{"one", "two"}}},
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentFinished, Messages: []string{"one", "two", "three"}}},
	}}

	var streamed []string

	deployment, err := fastPoller(svc).Wait(context.Background(), "foo-staging", "42", func(msg string) {
		streamed = append(streamed, msg)
	})
	require.NoError(t, err)
	assert.True(t, deployment.Succeeded())
	assert.Equal(t, []string{"one", "two", "three"}, streamed)
}

func TestWaitReturnsFailedDeployment(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentFailed, Messages: []string{"boom"}}},
	}}

	deployment, err := fastPoller(svc).Wait(context.Background(), "foo-staging", "42", nil)
	require.NoError(t, err)
	assert.True(t, deployment.Terminal())
	assert.False(t, deployment.Succeeded())
}

func TestWaitRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{err: errors.New("connection reset")},
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentFinished}},
	}}

	_, err := fastPoller(svc).Wait(context.Background(), "foo-staging", "42", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.calls)
}

func TestWaitAbortsOnNotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{err: &nimbus.APIFailure{StatusClass: nimbus.StatusNotFound, Message: "Deployment not found"}},
	}}

	_, err := fastPoller(svc).Wait(context.Background(), "foo-staging", "42", nil)
	require.Error(t, err)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, nimbus.KindNotFound, nimbus.ClassifyErr(err))
}

func TestWaitTimesOut(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentRunning}},
	}}

	poller := deploy.NewPoller(svc,
		deploy.WithIntervals(time.Millisecond, time.Millisecond),
		deploy.WithMaxWait(10*time.Millisecond),
	)

	_, err := poller.Wait(context.Background(), "foo-staging", "42", nil)
	require.ErrorIs(t, err, deploy.ErrTimedOut)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	svc := &fakeDeployments{results: []result{
		{deployment: &nimbus.Deployment{State: nimbus.DeploymentRunning}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastPoller(svc).Wait(ctx, "foo-staging", "42", nil)
	require.ErrorIs(t, err, context.Canceled)
}
