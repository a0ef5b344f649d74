package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/governor/internal/transform"
	_ "github.com/codeready-toolchain/governor/internal/transform/javapack"
	_ "github.com/codeready-toolchain/governor/internal/transform/jsts"
	_ "github.com/codeready-toolchain/governor/internal/transform/pypack"
)

var applyCmd = &cobra.Command{
	Use:   "apply <changespec.json> <workdir>",
	Short: "Apply a ChangeSpec's patches to a working directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func loadChangeSpec(path string) (transform.ChangeSpec, error) {
	var spec transform.ChangeSpec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("read change spec: %w", err)
	}
	if err := json.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("parse change spec: %w", err)
	}
	if err := transform.ValidateChangeSpec(&spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	spec, err := loadChangeSpec(args[0])
	if err != nil {
		return err
	}

	result := transform.NewEngine().Apply(spec, args[1])
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("apply failed with %d error(s)", len(result.Errors))
	}
	return nil
}
