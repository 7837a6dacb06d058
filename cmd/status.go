package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Initialize the client and print its status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logg.Sync()

		client, err := newStorageClient(cfg, logg)
		if err != nil {
			return err
		}
		defer client.Cleanup()

		if err := client.Initialize(cmd.Context()); err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(client.Status())
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}
