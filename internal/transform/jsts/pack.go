// Package jsts is the JS/TS language pack: renameSymbol and replaceAPI via
// a tokenizer and regex sweep over source text. There is no AST parser in
// play here (v1 has no binding analysis — see the engine's renameSymbol
// docs), just a token-aware text rewrite.
package jsts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codeready-toolchain/governor/internal/transform"
)

func init() {
	pack := &Pack{}
	transform.Register(pack)
	transform.RegisterFor(transform.LangJavaScript, pack)
}

// Pack implements transform.LanguagePack for JavaScript and TypeScript.
// Registered under LangJavaScript; TypeScript ChangeSpecs are routed here
// too since the tokenizer does not distinguish them.
type Pack struct{}

func (p *Pack) Language() transform.Language { return transform.LangTypeScript }

func (p *Pack) Extensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx"}
}

var identifierTokenRe = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

func (p *Pack) ApplyPatch(content string, patch transform.Patch) (string, []transform.TextEdit, error) {
	sel, err := transform.ParseSelector(patch.Selector)
	if err != nil {
		return "", nil, err
	}

	switch patch.AstOp {
	case transform.OpRenameSymbol:
		return p.renameSymbol(content, sel, patch.Details)
	case transform.OpReplaceAPI:
		return p.replaceAPI(content, sel, patch.Details)
	default:
		return "", nil, fmt.Errorf("jsts: astOp %q: %w", patch.AstOp, transform.ErrUnsupportedOperation)
	}
}

// renameSymbol rewrites every identifier token equal to sel.Name to
// details.NewName. No binding/scope analysis: shadowed names are renamed
// too, a known v1 limitation.
func (p *Pack) renameSymbol(content string, sel *transform.Selector, details transform.PatchDetails) (string, []transform.TextEdit, error) {
	if sel.Kind != transform.SelectorIdentifier {
		return "", nil, &transform.SelectorError{Selector: "identifier selector required for renameSymbol"}
	}

	locs := identifierTokenRe.FindAllStringIndex(content, -1)
	var edits []transform.TextEdit
	for _, loc := range locs {
		tok := content[loc[0]:loc[1]]
		if tok == sel.Name {
			edits = append(edits, transform.TextEdit{
				StartOffset: loc[0],
				EndOffset:   loc[1],
				OldText:     tok,
				NewText:     details.NewName,
			})
		}
	}

	return applyEdits(content, edits), edits, nil
}

// callExprRe matches `O.P(` allowing intervening whitespace before the
// parenthesis, anchored so O is a full token (not a suffix of a longer
// identifier).
func calleeRe(object, property string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(object) + `\.` + regexp.QuoteMeta(property) + `\s*\(`)
}

// replaceAPI rewrites calls of the shape O.P(...) per details: renaming the
// property and/or renaming keys of an object-literal first argument.
func (p *Pack) replaceAPI(content string, sel *transform.Selector, details transform.PatchDetails) (string, []transform.TextEdit, error) {
	if sel.Kind != transform.SelectorCallExpression {
		return "", nil, &transform.SelectorError{Selector: "call expression selector required for replaceAPI"}
	}

	re := calleeRe(sel.CalleeObject, sel.CalleeProperty)
	matches := re.FindAllStringIndex(content, -1)

	var edits []transform.TextEdit
	for _, m := range matches {
		openParen := m[1] - 1
		closeParen := findMatchingParen(content, openParen)
		if closeParen < 0 {
			continue // malformed call; leave untouched, surfaced as a warning by the engine
		}

		calleeText := content[m[0]:openParen]
		argsText := content[openParen+1 : closeParen]

		newCallee := calleeText
		if details.NewProperty != "" {
			newCallee = sel.CalleeObject + "." + details.NewProperty
		}

		newArgs := argsText
		if len(details.ArgsMap) > 0 {
			newArgs = renameObjectKeys(argsText, details.ArgsMap)
		}

		edits = append(edits, transform.TextEdit{
			StartOffset: m[0],
			EndOffset:   closeParen + 1,
			OldText:     content[m[0] : closeParen+1],
			NewText:     newCallee + "(" + newArgs + ")",
		})
	}

	return applyEdits(content, edits), edits, nil
}

// findMatchingParen returns the offset of the ')' matching the '(' at
// openIdx, or -1 if unbalanced.
func findMatchingParen(content string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(content); i++ {
		switch content[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var objectKeyRe = regexp.MustCompile(`([A-Za-z_$][A-Za-z0-9_$]*)(\s*:)`)

// renameObjectKeys rewrites top-level keys of a single object-literal
// argument (e.g. `{ username: 'a', password: 'b' }`) per the given map.
// It is a textual, not structural, rewrite: nested object arguments are
// left alone.
func renameObjectKeys(argsText string, argsMap map[string]string) string {
	start := strings.IndexByte(argsText, '{')
	end := strings.LastIndexByte(argsText, '}')
	if start < 0 || end < 0 || end <= start {
		return argsText
	}

	body := argsText[start+1 : end]
	body = objectKeyRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := objectKeyRe.FindStringSubmatch(m)
		key := sub[1]
		if renamed, ok := argsMap[key]; ok {
			return renamed + sub[2]
		}
		return m
	})

	return argsText[:start+1] + body + argsText[end:]
}

// applyEdits applies edits end-to-beginning so earlier offsets stay valid,
// mirroring the same pattern the redactor uses for overlapping matches.
func applyEdits(content string, edits []transform.TextEdit) string {
	if len(edits) == 0 {
		return content
	}
	sorted := make([]transform.TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartOffset > sorted[j].StartOffset })

	out := content
	for _, e := range sorted {
		out = out[:e.StartOffset] + e.NewText + out[e.EndOffset:]
	}
	return out
}
