package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewOpenCommand creates the open command.
func NewOpenCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the cloud in a browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runOpen(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "open")
	if err != nil {
		return err
	}

	appURL := fmt.Sprintf("http://%s.%s", codeName, viper.GetString("app_domain"))
	say(appURL)

	return openBrowser(appURL)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		// The URL was already printed; a missing browser is not fatal.
		return nil
	}

	return nil
}
