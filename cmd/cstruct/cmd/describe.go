package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/layoutlabs/cstruct-go/internal/schema"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <schema> [type]",
	Short: "Print the computed layout of schema types",
	Long: `Print the computed layout of every type in a schema file, or of a
single named type: field offsets, sizes, inserted padding, bitfield
bit positions and enum constants.

Example:
  cstruct describe telemetry.yaml frame`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		Logger().Debug("schema loaded",
			zap.String("path", args[0]),
			zap.Int("types", len(set.Names())))

		names := set.Names()
		if len(args) == 2 {
			names = args[1:]
		}
		out := cmd.OutOrStdout()
		for _, name := range names {
			codec, ok := set.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown type %q in %s", name, args[0])
			}
			fmt.Fprintf(out, "%s (%s, %d bytes)\n", name, codec.TypeName(), codec.Size())
			if s, ok := codec.(fmt.Stringer); ok {
				fmt.Fprintln(out, s.String())
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
