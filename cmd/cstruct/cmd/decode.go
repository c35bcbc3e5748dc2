package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/layoutlabs/cstruct-go/internal/schema"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <schema> <type> <data>",
	Short: "Deserialize a binary file into structured values",
	Long: `Deserialize a binary file against a schema type and print the
structured result as YAML.

Example:
  cstruct decode telemetry.yaml frame capture.bin`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		codec, ok := set.Lookup(args[1])
		if !ok {
			return fmt.Errorf("unknown type %q in %s", args[1], args[0])
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			return err
		}
		Logger().Debug("decoding record",
			zap.String("type", args[1]),
			zap.Int("size", codec.Size()),
			zap.Int("input", len(data)))

		value, err := codec.Deserialize(data)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
