package transform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// defaultShellTimeout bounds any typecheck invocation; callers may pass a
// context with a shorter deadline.
const defaultShellTimeout = 5 * time.Minute

// RunInvariants dispatches each invariant by type and returns one result
// per invariant. A single failure does not abort the remaining ones.
func (e *Engine) RunInvariants(ctx context.Context, spec ChangeSpec, workdir string) []InvariantResult {
	pack := PackFor(spec.Language)
	var exts []string
	if pack != nil {
		exts = pack.Extensions()
	}

	results := make([]InvariantResult, 0, len(spec.Invariants))
	for _, inv := range spec.Invariants {
		results = append(results, runInvariant(ctx, inv, workdir, exts))
	}
	return results
}

func runInvariant(ctx context.Context, inv Invariant, workdir string, exts []string) InvariantResult {
	switch inv.Type {
	case InvariantTypecheck:
		return runTypecheck(ctx, inv, workdir)
	case InvariantSymbolExists:
		return runSymbolExists(inv, workdir, exts)
	case InvariantRegex:
		return runRegexInvariant(inv, workdir, exts)
	case InvariantSemanticRule:
		return runSemanticRule(inv, workdir, exts)
	case InvariantAPICompat:
		return InvariantResult{Name: inv.Name, Passed: true, Message: "apiCompat reserved; treated as pass"}
	default:
		return InvariantResult{
			Name:    inv.Name,
			Passed:  false,
			Message: fmt.Sprintf("%s: %v", inv.Type, ErrUnknownInvariantType),
		}
	}
}

// runTypecheck executes inv.Spec as a shell command in workdir under a
// deadline; exit 0 passes, anything else fails with captured output.
func runTypecheck(ctx context.Context, inv Invariant, workdir string) InvariantResult {
	cctx, cancel := context.WithTimeout(ctx, defaultShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", inv.Spec)
	cmd.Dir = workdir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return InvariantResult{Name: inv.Name, Passed: false, Message: err.Error(), Output: string(out)}
	}
	return InvariantResult{Name: inv.Name, Passed: true, Output: string(out)}
}

// runSymbolExists does a recursive textual search for inv.Spec across
// source files with the pack's extensions; passes iff at least one match.
func runSymbolExists(inv Invariant, workdir string, exts []string) InvariantResult {
	found := false
	walkSourceFiles(workdir, exts, func(content string) bool {
		if strings.Contains(content, inv.Spec) {
			found = true
			return true
		}
		return false
	})
	if found {
		return InvariantResult{Name: inv.Name, Passed: true}
	}
	return InvariantResult{Name: inv.Name, Passed: false, Message: fmt.Sprintf("no occurrence of %q found", inv.Spec)}
}

// runRegexInvariant does a recursive regex search; passes iff matches exist.
func runRegexInvariant(inv Invariant, workdir string, exts []string) InvariantResult {
	re, err := regexp.Compile(inv.Spec)
	if err != nil {
		return InvariantResult{Name: inv.Name, Passed: false, Message: fmt.Sprintf("invalid regex: %v", err)}
	}

	found := false
	walkSourceFiles(workdir, exts, func(content string) bool {
		if re.MatchString(content) {
			found = true
			return true
		}
		return false
	})
	if found {
		return InvariantResult{Name: inv.Name, Passed: true}
	}
	return InvariantResult{Name: inv.Name, Passed: false, Message: "no match found"}
}

var noCallsToRe = regexp.MustCompile(`(?i)^no calls to (.+)$`)

// runSemanticRule decodes only "no calls to <X>"; anything else passes
// with a warning rather than attempting richer inference.
func runSemanticRule(inv Invariant, workdir string, exts []string) InvariantResult {
	m := noCallsToRe.FindStringSubmatch(strings.TrimSpace(inv.Spec))
	if m == nil {
		return InvariantResult{Name: inv.Name, Passed: true, Message: "unrecognized semantic rule; basic validation only"}
	}

	target := strings.TrimSpace(m[1])
	matched := false
	walkSourceFiles(workdir, exts, func(content string) bool {
		if strings.Contains(content, target) {
			matched = true
			return true
		}
		return false
	})
	if matched {
		return InvariantResult{Name: inv.Name, Passed: false, Message: fmt.Sprintf("found a call to %q", target)}
	}
	return InvariantResult{Name: inv.Name, Passed: true}
}

// walkSourceFiles reads every file under workdir matching one of exts
// (all files if exts is empty), calling visit(content) until it returns
// true or the walk is exhausted.
func walkSourceFiles(workdir string, exts []string, visit func(content string) bool) {
	_ = filepath.WalkDir(workdir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(exts) > 0 && !hasAnyExt(path, exts) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logSkippedPattern(path, err)
			return nil
		}
		if visit(string(content)) {
			return filepath.SkipAll
		}
		return nil
	})
}

func hasAnyExt(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
