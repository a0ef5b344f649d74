package main

import (
	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/governor/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "governor",
	Short: "Governance control plane for AI-assisted code modification",
	Long: `Governor mediates between agent-produced change proposals and a target
codebase. A change is described declaratively as a ChangeSpec; Governor
executes it as typed AST operations, verifies invariants, tracks cost,
and emits an immutable audit trail.

Subcommands:
  serve    start the HTTP control plane
  apply    apply a ChangeSpec to a working directory
  verify   run a ChangeSpec's invariants and mutation tests
  export   download a mission's audit pack
  status   show a mission's checkpoint progress`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}
