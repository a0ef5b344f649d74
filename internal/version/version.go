// Package version stamps Governor builds for logging and audit-pack
// provenance. The revision comes from the VCS metadata the Go toolchain
// embeds into the binary; no -ldflags required.
package version

import (
	"runtime/debug"

	"github.com/codeready-toolchain/governor/internal/evidence"
)

// AppName identifies this binary in version strings and audit-pack
// versions blocks.
const AppName = "governor"

type buildInfo struct {
	revision string
	modified bool
}

var build = resolve()

func resolve() buildInfo {
	out := buildInfo{revision: "dev"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if s.Value != "" {
				out.revision = shorten(s.Value)
			}
		case "vcs.modified":
			out.modified = s.Value == "true"
		}
	}
	return out
}

func shorten(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}

// GitCommit returns the short commit hash, suffixed with "+dirty" when the
// working tree had local modifications at build time, or "dev" outside a
// VCS build (e.g. `go test`).
func GitCommit() string {
	if build.modified {
		return build.revision + "+dirty"
	}
	return build.revision
}

// Full returns "governor/<commit>" for user-agent strings and logging.
func Full() string {
	return AppName + "/" + GitCommit()
}

// Block returns the versions block recorded in every exported audit pack.
// The four components ship in a single binary, so they all carry the
// binary's revision; the block still lists them individually because the
// pack format reserves room for independently-versioned components.
func Block() evidence.VersionsBlock {
	rev := GitCommit()
	return evidence.VersionsBlock{
		Governor:  Full(),
		Redactor:  rev,
		Transform: rev,
		Ledger:    rev,
	}
}
