package config

import "os"

// ExpandEnv expands environment variables in YAML content using the
// standard library's shell-style expansion. Supports both ${VAR} and $VAR.
// Missing variables expand to the empty string; validation catches
// required fields left empty by a missing variable.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
