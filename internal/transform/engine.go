package transform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
	".git":         true,
}

// Engine is the Transform Engine. It is stateless between calls; any
// per-call caching (e.g. parsed ASTs) lives on the call stack, not here.
type Engine struct{}

// NewEngine constructs a Transform Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply resolves every patch's path to a concrete file set, dispatches
// each to the registered language pack in patch-list order (files within
// a patch processed in lexicographic order), and writes the results.
func (e *Engine) Apply(spec ChangeSpec, workdir string) ApplyResult {
	result := ApplyResult{Success: true}
	modified := map[string]bool{}

	pack := PackFor(spec.Language)
	if pack == nil {
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", spec.Language, ErrUnsupportedOperation))
		return result
	}

	for i, patch := range spec.Patches {
		files, err := resolvePatchFiles(workdir, patch.Path)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("patch %d: resolve %s: %v", i, patch.Path, err))
			continue
		}

		for _, rel := range files {
			abs := filepath.Join(workdir, rel)
			content, err := os.ReadFile(abs)
			if err != nil {
				result.Errors = append(result.Errors, (&ParseError{Path: rel, Err: err}).Error())
				continue
			}

			mutated, _, err := pack.ApplyPatch(string(content), patch)
			if err != nil {
				result.Success = false
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rel, err))
				continue
			}

			if mutated == string(content) {
				continue
			}

			if err := os.WriteFile(abs, []byte(mutated), 0o644); err != nil {
				result.Success = false
				result.Errors = append(result.Errors, fmt.Sprintf("write %s: %v", rel, err))
				continue
			}
			modified[rel] = true
		}
	}

	for rel := range modified {
		result.FilesModified = append(result.FilesModified, rel)
	}
	sort.Strings(result.FilesModified)

	return result
}

// resolvePatchFiles resolves a patch's path to a concrete file set:
// literal if the path exists, glob expansion otherwise. Excludes build
// output and dependency directories. Returns paths relative to workdir,
// sorted lexicographically.
func resolvePatchFiles(workdir, path string) ([]string, error) {
	abs := filepath.Join(workdir, path)
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return []string{filepath.Clean(path)}, nil
	}

	matches, err := filepath.Glob(abs)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, m := range matches {
		rel, err := filepath.Rel(workdir, m)
		if err != nil {
			continue
		}
		if pathExcluded(rel) {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

func pathExcluded(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if excludedDirs[part] {
			return true
		}
	}
	return false
}

// logSkippedPattern is used by invariant/mutation scans to note a file
// that couldn't be read rather than aborting the whole pass.
func logSkippedPattern(path string, err error) {
	slog.Warn("transform: skipping unreadable file", "path", path, "error", err)
}
