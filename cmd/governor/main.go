// Governor control plane server and CLI - governs AI-assisted code
// modification through typed AST operations, invariant verification, and
// an auditable evidence trail.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
