package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/stretchr/testify/assert"
)

func TestSessionRejected(t *testing.T) {
	rejection := &nimbus.APIFailure{StatusClass: nimbus.StatusUnauthorized}

	out, _ := captureOutput(t, func() error {
		assert.True(t, SessionRejected(rejection))
		assert.True(t, SessionRejected(fmt.Errorf("listing clouds: %w", rejection)))

		return nil
	})
	assert.Contains(t, out, "You are not logged in. To log in use: `nimbus login`")

	assert.False(t, SessionRejected(errors.New("boom")))
	assert.False(t, SessionRejected(&nimbus.APIFailure{StatusClass: nimbus.StatusNotFound}))
}
