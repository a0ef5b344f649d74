package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/governor/internal/transform"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <changespec.json> <workdir>",
	Short: "Run a ChangeSpec's invariants and mutation tests",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().String("mutation-runner", "", "shell command that runs mutation tests and prints a JSON report")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	spec, err := loadChangeSpec(args[0])
	if err != nil {
		return err
	}
	runnerCmd, _ := cmd.Flags().GetString("mutation-runner")

	result := transform.NewEngine().Verify(cmd.Context(), spec, args[1], runnerCmd)
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("verify failed with %d error(s)", len(result.Errors))
	}
	return nil
}
