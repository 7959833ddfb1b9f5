// Package cli implements the hwpview command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openhwp/hwpview/internal/config"
)

var (
	version    = "dev"
	configPath string
	cfg        = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:   "hwpview",
	Short: "Inspect and export HWPX/HWP documents",
	Long: `hwpview reads HWPX (and legacy HWP 5.x) documents, builds their
view-model, and exports text, Markdown, or HTML projections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hwpview version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "hwpview "+version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "yaml config file")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
