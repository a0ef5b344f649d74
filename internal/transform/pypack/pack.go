// Package pypack is the Python language pack stub. v1 carries no Python
// AST support; every patch fails with UnsupportedOperation so callers get
// a structured error rather than a silent no-op.
package pypack

import (
	"fmt"

	"github.com/codeready-toolchain/governor/internal/transform"
)

func init() {
	transform.Register(&Pack{})
}

// Pack is the Python stub implementation of transform.LanguagePack.
type Pack struct{}

func (p *Pack) Language() transform.Language { return transform.LangPython }

func (p *Pack) Extensions() []string { return []string{".py"} }

func (p *Pack) ApplyPatch(content string, patch transform.Patch) (string, []transform.TextEdit, error) {
	return "", nil, fmt.Errorf("pypack: %s not implemented: %w", patch.AstOp, transform.ErrUnsupportedOperation)
}
