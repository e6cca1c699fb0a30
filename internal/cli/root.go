// Package cli implements the croissant command-line interface. All dataset
// logic lives in the library; the commands here only parse flags, set up
// logging and print results.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "croissant",
	Short: "Validate and load Croissant dataset metadata",
	Long: `croissant validates Croissant JSON metadata documents and materializes
the records they describe by reading, joining and transforming the
underlying files.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'")
	rootCmd.PersistentFlags().String("log-format", "text", "Log output format: 'text' or 'json'")
}
