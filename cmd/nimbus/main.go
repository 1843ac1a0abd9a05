package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nimbus-cloud/nimbus-cli/cmd/nimbus/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nimbus",
	Short: "Nimbus Cloud CLI",
	Long: `A command-line interface for the Nimbus Cloud hosting platform.

Create, inspect, start, stop, redeploy, and delete clouds, manage
organizations, backups, and collaborators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.nimbus/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL")
	rootCmd.PersistentFlags().StringP("token", "t", "", "authentication token")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewRegisterCommand())
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewWhoamiCommand())
	rootCmd.AddCommand(commands.NewAddCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewStartCommand())
	rootCmd.AddCommand(commands.NewStopCommand())
	rootCmd.AddCommand(commands.NewRedeployCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())
	rootCmd.AddCommand(commands.NewSetupCommand())
	rootCmd.AddCommand(commands.NewOpenCommand())
	rootCmd.AddCommand(commands.NewRakeCommand())
	rootCmd.AddCommand(commands.NewDeploysCommand())
	rootCmd.AddCommand(commands.NewOrganizationsCommand())
	rootCmd.AddCommand(commands.NewBackupCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	for _, cmd := range commands.NewConsoleCommands() {
		rootCmd.AddCommand(cmd)
	}
}

func initConfig() {
	viper.SetDefault("api", "https://api.nimbuscloud.com/apiv2")
	viper.SetDefault("git_host", "git.nimbuscloud.com")
	viper.SetDefault("web_url", "https://admin.nimbuscloud.com")
	viper.SetDefault("app_domain", "nimbusapp.com")

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".nimbus")
		if err := os.MkdirAll(configDir, 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NIMBUS")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrAborted) && !commands.SessionRejected(err) {
			fmt.Fprintln(os.Stderr, err)
		}

		os.Exit(1)
	}
}
