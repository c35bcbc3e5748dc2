package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cstruct",
	Short: "Inspect and convert C-style binary records",
	Long: `cstruct compiles declarative schema files describing C-like data
shapes (structs, unions, bitfields, enums) into binary layouts and
converts records between structured values and raw bytes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			enableVerbose()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
