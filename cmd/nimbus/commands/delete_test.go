package commands

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/nimbus-cloud/nimbus-cli/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeleteNameMismatchMakesNoRemoteCalls(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("Cloudfile", []byte("foo-production:\n  size: small\n"), 0o644))

	var calls atomic.Int32

	newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	scriptPrompter(t, "wrong-name\n")

	out, err := captureOutput(t, func() error {
		return runDelete(context.Background(), "")
	})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, out, "The name does not match. Operation aborted.")

	// Nothing may reach the platform before the name is confirmed.
	assert.Zero(t, calls.Load())

	clouds, err := manifest.New("").Clouds()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo-production"}, clouds)
}
