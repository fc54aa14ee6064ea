package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pestle/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify pestle configuration",
}

var setEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <url>",
	Short: "Persist the submit endpoint in the config file",
	Long: `Writes submit.endpoint to the active config file, preserving comments
and formatting. An empty URL switches back to demo mode (submissions are
accepted locally).`,
	Args: cobra.ExactArgs(1),
	RunE: runSetEndpoint,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setEndpointCmd)
}

func runSetEndpoint(cmd *cobra.Command, args []string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = ".pestle/config.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.WriteDefaultConfig(path); err != nil {
				return fmt.Errorf("creating config file: %w", err)
			}
		}
	}

	if err := config.SaveEndpoint(path, args[0]); err != nil {
		return fmt.Errorf("saving endpoint: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submit endpoint saved to %s\n", path)
	return nil
}
