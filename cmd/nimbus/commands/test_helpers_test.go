package commands

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nimbus-cloud/nimbus-cli/internal/prompt"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// newGateway serves handler as the configured API endpoint with a stored
// session token, undoing the configuration when the test finishes.
func newGateway(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Cleanup(viper.Reset)

	viper.Set("api", srv.URL)
	viper.Set("token", "secret-token")

	return srv
}

// chdir switches the working directory to dir for the duration of the
// test, restoring the original directory when it finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()

	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// scriptPrompter replaces the terminal prompter with one reading canned
// answers. An empty script makes any prompt fail the command.
func scriptPrompter(t *testing.T, input string) {
	t.Helper()

	orig := newPrompter
	newPrompter = func() *prompt.Prompter {
		return prompt.NewWithIO(strings.NewReader(input), io.Discard)
	}

	t.Cleanup(func() { newPrompter = orig })
}

// captureOutput runs fn with stdout redirected and returns what it
// printed. Colors are disabled for stable assertions.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	color.NoColor = true

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w

	runErr := fn()

	os.Stdout = orig
	require.NoError(t, w.Close())

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data), runErr
}
