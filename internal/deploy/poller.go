// Package deploy polls deployment progress after a lifecycle call and
// streams build output as it appears.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
)

// ErrTimedOut is returned when a deployment does not reach a terminal
// state within the poll window. The deployment may still be in progress
// on the platform.
var ErrTimedOut = errors.New("deployment did not finish in time")

// DeploymentService is the slice of the API the poller needs.
type DeploymentService interface {
	Deployment(ctx context.Context, codeName, deploymentID string) (*nimbus.Deployment, error)
}

// Poller repeatedly fetches deployment status until it reaches a
// terminal state.
type Poller struct {
	svc         DeploymentService
	interval    time.Duration
	maxInterval time.Duration
	maxWait     time.Duration
}

// Option configures a Poller.
type Option func(*Poller)

// WithIntervals overrides the backoff bounds, mainly for tests.
func WithIntervals(initial, max time.Duration) Option {
	return func(p *Poller) {
		p.interval = initial
		p.maxInterval = max
	}
}

// WithMaxWait overrides the total poll window.
func WithMaxWait(d time.Duration) Option {
	return func(p *Poller) {
		p.maxWait = d
	}
}

// NewPoller returns a Poller with the default backoff (1s doubling to a
// 5s cap) and a 15 minute window.
func NewPoller(svc DeploymentService, opts ...Option) *Poller {
	p := &Poller{
		svc:         svc,
		interval:    time.Second,
		maxInterval: 5 * time.Second,
		maxWait:     15 * time.Minute,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Wait polls the deployment until it is finished or failed, invoking
// onMessage once for every newly appended progress message. Transient
// fetch errors are retried within the window; authorization and
// not-found failures abort immediately. On timeout it returns
// ErrTimedOut.
func (p *Poller) Wait(ctx context.Context, codeName, deploymentID string, onMessage func(string)) (*nimbus.Deployment, error) {
	deadline := time.Now().Add(p.maxWait)
	interval := p.interval
	seen := 0

	for {
		deployment, err := p.svc.Deployment(ctx, codeName, deploymentID)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
		} else {
			for _, msg := range deployment.Messages[min(seen, len(deployment.Messages)):] {
				if onMessage != nil {
					onMessage(msg)
				}
			}

			if len(deployment.Messages) > seen {
				seen = len(deployment.Messages)
			}

			if deployment.Terminal() {
				return deployment, nil
			}
		}

		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("polling deployment %s: %w", deploymentID, ErrTimedOut)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		interval *= 2
		if interval > p.maxInterval {
			interval = p.maxInterval
		}
	}
}

// retryable reports whether a fetch error is worth another attempt.
// Failures that will not resolve on their own end the poll.
func retryable(err error) bool {
	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized, nimbus.KindForbidden, nimbus.KindNotFound, nimbus.KindValidationFailed:
		return false
	default:
		return true
	}
}
