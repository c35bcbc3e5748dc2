package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/layoutlabs/cstruct-go/internal/schema"
)

var encodeOutput string

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <schema> <type> <values>",
	Short: "Serialize structured values into binary",
	Long: `Serialize a YAML values file against a schema type. The resulting
record is written to the file given with -o, or hex-dumped to stdout.

Example:
  cstruct encode telemetry.yaml frame values.yaml -o frame.bin`,
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
		raw, err := os.ReadFile(args[2])
		if err != nil {
			return err
		}
		var values map[string]any
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("invalid values file %s: %w", args[2], err)
		}
		Logger().Debug("encoding record",
			zap.String("type", args[1]),
			zap.Int("size", codec.Size()))

		buf, err := codec.Serialize(values)
		if err != nil {
			return err
		}
		if encodeOutput != "" {
			return os.WriteFile(encodeOutput, buf, 0o644)
		}
		fmt.Fprint(cmd.OutOrStdout(), hex.Dump(buf))
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "write the record to a file instead of hex-dumping")
	rootCmd.AddCommand(encodeCmd)
}
