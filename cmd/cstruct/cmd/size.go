package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layoutlabs/cstruct-go/internal/schema"
)

// sizeCmd represents the size command
var sizeCmd = &cobra.Command{
	Use:   "size <schema> <type>",
	Short: "Print the byte size of a schema type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		codec, ok := set.Lookup(args[1])
		if !ok {
			return fmt.Errorf("unknown type %q in %s", args[1], args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec.Size())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sizeCmd)
}
