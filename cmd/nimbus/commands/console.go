package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/spf13/cobra"
)

// consoleSpec describes one member of the console command family. They
// all open an SSH session through a tunnel; only the remote command and
// the failure narratives differ.
type consoleSpec struct {
	use      string
	short    string
	service  string
	what     string
	conflict string
	command  []string
}

var consoleSpecs = []consoleSpec{
	{
		use:      "console",
		short:    "Open an application console on the cloud",
		service:  "ssh",
		what:     "console",
		conflict: "Cloud %s is not running. Cannot run console.",
		command:  []string{"console"},
	},
	{
		use:      "ssh",
		short:    "Open an SSH session on the cloud",
		service:  "ssh",
		what:     "ssh console",
		conflict: "Cloud %s is not running. Cannot run ssh console.",
	},
	{
		use:      "dbconsole",
		short:    "Open a database console on the cloud",
		service:  "dbconsole",
		what:     "dbconsole",
		conflict: "Cloud %s wasn't deployed properly. Can not run dbconsole.",
		command:  []string{"dbconsole"},
	},
	{
		use:      "mongoconsole",
		short:    "Open a MongoDB console on the cloud",
		service:  "mongoconsole",
		what:     "MongoDB console",
		conflict: "Cloud %s wasn't deployed properly. Can not run MongoDB console.",
		command:  []string{"mongo"},
	},
	{
		use:      "redis-cli",
		short:    "Open a redis-cli session on the cloud",
		service:  "redis-cli",
		what:     "redis-cli",
		conflict: "Cloud %s wasn't deployed properly. Can not run redis-cli.",
		command:  []string{"redis-cli"},
	},
}

// NewConsoleCommands creates the console family of commands.
func NewConsoleCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(consoleSpecs))

	for _, spec := range consoleSpecs {
		cmds = append(cmds, newConsoleCommand(spec))
	}

	return cmds
}

func newConsoleCommand(spec consoleSpec) *cobra.Command {
	var (
		cloud  string
		server string
	)

	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), spec, cloud, server, spec.command)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")
	cmd.Flags().StringVarP(&server, "server", "s", "", "virtual server to connect to")

	return cmd
}

func runConsole(ctx context.Context, spec consoleSpec, cloud, server string, remoteCommand []string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, spec.use)
	if err != nil {
		return err
	}

	tunnel, err := client.Tunnel(ctx, codeName, spec.service, server)
	if err != nil {
		return consoleFailure(spec, codeName, server, err)
	}

	return sshExec(tunnel, remoteCommand)
}

func consoleFailure(spec consoleSpec, codeName, server string, err error) error {
	failure, _ := nimbus.AsFailure(err)

	switch nimbus.ClassifyErr(err) {
	case nimbus.KindUnauthorized:
		return notLoggedIn()
	case nimbus.KindConflict:
		sayRed(fmt.Sprintf(spec.conflict, codeName))
	case nimbus.KindNotFound:
		if failure.Resource == "virtual_server" {
			sayRed(fmt.Sprintf("Virtual server '%s' not found or not configured for running %s", server, spec.what))
		} else {
			sayRed(fmt.Sprintf("You have no access to '%s' cloud defined in Cloudfile", codeName))
		}
	default:
		return err
	}

	return ErrAborted
}

// sshExec attaches the terminal to an SSH session described by a tunnel.
func sshExec(tunnel *nimbus.Tunnel, remoteCommand []string) error {
	args := []string{
		"-o", "StrictHostKeyChecking=no",
		"-p", strconv.Itoa(tunnel.Port),
		"-t",
		fmt.Sprintf("%s@%s", tunnel.User, tunnel.Host),
	}
	args = append(args, remoteCommand...)

	cmd := exec.Command("ssh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh session: %w", err)
	}

	return nil
}
