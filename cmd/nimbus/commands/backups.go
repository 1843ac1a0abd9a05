package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/nimbus-cloud/nimbus-cli/pkg/nimbus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
	}

	cmd.AddCommand(newBackupListCommand())
	cmd.AddCommand(newBackupDownloadCommand())

	return cmd
}

func newBackupListCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List database backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupList(cmd.Context(), cloud)
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runBackupList(ctx context.Context, cloud string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "backup list")
	if err != nil {
		return err
	}

	backups, err := client.Backups(ctx, codeName)
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		say("No database backups available")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Filename", "Database", "Size", "State")

	for _, backup := range backups {
		_ = table.Append(backup.Filename, backup.Kind, backup.HumanSize, backup.State)
	}

	_ = table.Render()

	return nil
}

func newBackupDownloadCommand() *cobra.Command {
	var cloud string

	cmd := &cobra.Command{
		Use:   "download FILENAME",
		Short: "Download a database backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupDownload(cmd.Context(), cloud, args[0])
		},
	}

	cmd.Flags().StringVarP(&cloud, "cloud", "c", "", "cloud code name")

	return cmd
}

func runBackupDownload(ctx context.Context, cloud, filename string) error {
	client, err := requireLogin()
	if err != nil {
		return err
	}

	codeName, err := resolveCloud(ctx, client, cloud, "backup download")
	if err != nil {
		return err
	}

	downloadURL, err := client.BackupDownloadURL(ctx, codeName, filename)
	if err != nil {
		if failure, ok := nimbus.AsFailure(err); ok && nimbus.Classify(failure) == nimbus.KindNotFound {
			sayRed(fmt.Sprintf("Backup '%s' not found", filename))

			return ErrAborted
		}

		return err
	}

	say("Downloading backup " + filename)

	var received int64
	err = client.DownloadBackup(ctx, downloadURL, filename, func(n int64) {
		received += n
	})
	if err != nil {
		return err
	}

	sayGreen(fmt.Sprintf("Backup saved to %s (%d bytes)", filename, received))

	return nil
}
