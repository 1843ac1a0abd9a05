// Package gitx shells out to git for the handful of repository
// operations the CLI needs when wiring a cloud to the local checkout.
package gitx

import (
	"fmt"
	"os/exec"
	"strings"
)

// Repo runs git commands inside one working directory.
type Repo struct {
	dir string
}

// New returns a Repo bound to dir. Passing "" uses the process working
// directory.
func New(dir string) *Repo {
	return &Repo{dir: dir}
}

func (r *Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}

	return strings.TrimSpace(string(out)), nil
}

// Exists reports whether the directory is inside a git work tree.
func (r *Repo) Exists() bool {
	_, err := r.git("rev-parse", "--git-dir")
	return err == nil
}

// RemoteExists reports whether a remote with the given name is
// configured.
func (r *Repo) RemoteExists(name string) bool {
	out, err := r.git("remote")
	if err != nil {
		return false
	}

	for _, remote := range strings.Fields(out) {
		if remote == name {
			return true
		}
	}

	return false
}

// AddRemote configures a remote, replacing any existing remote with the
// same name.
func (r *Repo) AddRemote(name, url string) error {
	if r.RemoteExists(name) {
		_, err := r.git("remote", "set-url", name, url)
		return err
	}

	_, err := r.git("remote", "add", name, url)

	return err
}

// RemoveRemote drops a remote. Missing remotes are not an error.
func (r *Repo) RemoveRemote(name string) error {
	if !r.RemoteExists(name) {
		return nil
	}

	_, err := r.git("remote", "remove", name)

	return err
}

// FetchRemote fetches from a configured remote.
func (r *Repo) FetchRemote(name string) error {
	_, err := r.git("fetch", name)
	return err
}

// UserEmail returns the configured git email, empty when unset.
func (r *Repo) UserEmail() string {
	out, err := r.git("config", "user.email")
	if err != nil {
		return ""
	}

	return out
}
