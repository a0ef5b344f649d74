package redactor

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
)

// compiledPolicy is a Policy with its patterns pre-compiled at
// registration time, so Scan never compiles a regex on the request path.
type compiledPolicy struct {
	Policy
	regexes []*regexp.Regexp
}

// Service scans content for secrets/PII according to a configured policy
// set and applies redact/block/warn actions. Created once at startup,
// thread-safe and stateless aside from compiled patterns.
type Service struct {
	policies []compiledPolicy
}

// NewService compiles the given policies in order. Invalid regex patterns
// are logged and skipped rather than aborting construction.
func NewService(policies []Policy) *Service {
	s := &Service{}
	for _, p := range policies {
		cp := compiledPolicy{Policy: p}
		for _, pat := range p.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				slog.Error("redactor: failed to compile pattern, skipping",
					"policy", p.ID, "pattern", pat, "error", err)
				continue
			}
			cp.regexes = append(cp.regexes, re)
		}
		s.policies = append(s.policies, cp)
	}
	slog.Info("redactor service initialized", "policies", len(s.policies))
	return s
}

// PolicyCount reports how many policies are registered, enabled or not.
// Surfaced on the health endpoint.
func (s *Service) PolicyCount() int {
	return len(s.policies)
}

// match is an internal representation of one regex hit against the
// original content, before any redaction is applied.
type match struct {
	start, end int
	policy     compiledPolicy
}

// scanMatches walks all enabled policies/patterns against content and
// returns every match found, in original-content byte-offset order. All
// matches are computed against the pristine original content first;
// replacement happens afterward, from end to beginning, so earlier
// offsets never shift out from under later ones.
func (s *Service) scanMatches(content string) []match {
	var matches []match
	for _, p := range s.policies {
		if !p.Enabled {
			continue
		}
		for _, re := range p.regexes {
			for _, loc := range re.FindAllStringIndex(content, -1) {
				matches = append(matches, match{start: loc[0], end: loc[1], policy: p})
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return matches[i].end < matches[j].end
	})
	return matches
}

// Scan scans content for matches across all enabled policies, applies
// redact/block/warn per match, and returns the redacted content plus every
// finding. Positions are always computed against the original content —
// callers must not rely on position stability after redaction.
func (s *Service) Scan(content, file string) (*ScanResult, error) {
	matches := s.scanMatches(content)

	result := &ScanResult{Original: content}
	if len(matches) == 0 {
		result.Redacted = content
		return result, nil
	}

	for _, m := range matches {
		finding := Finding{
			Type:     m.policy.Type,
			Location: locationFor(content, m.start, m.end),
			Severity: m.policy.Severity,
			Message:  fmt.Sprintf("matched policy %q in %s", m.policy.Name, displayFile(file)),
			Policy:   m.policy.ID,
		}
		result.Findings = append(result.Findings, finding)

		if m.policy.Action == ActionBlock {
			return result, &PolicyViolation{Finding: finding}
		}
	}

	// Apply redactions end-to-beginning so earlier byte offsets stay valid.
	redacted := []byte(content)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m.policy.Action != ActionRedact {
			continue
		}
		placeholder := []byte(placeholderFor(m.policy.Type))
		redacted = append(redacted[:m.start], append(placeholder, redacted[m.end:]...)...)
	}
	result.Redacted = string(redacted)

	return result, nil
}

// ScanMultiple scans each file's content independently. No cross-file
// correlation in v1.
func (s *Service) ScanMultiple(files map[string]string) (map[string]*ScanResult, error) {
	results := make(map[string]*ScanResult, len(files))
	for path, content := range files {
		r, err := s.Scan(content, path)
		results[path] = r
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func displayFile(file string) string {
	if file == "" {
		return "<content>"
	}
	return file
}

// locationFor converts a byte-offset span into 1-indexed line/column
// positions against the original content.
func locationFor(content string, start, end int) Location {
	sl, sc := lineCol(content, start)
	el, ec := lineCol(content, end)
	return Location{StartLine: sl, StartColumn: sc, EndLine: el, EndColumn: ec}
}

func lineCol(content string, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
