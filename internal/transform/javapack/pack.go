// Package javapack is the Java language pack stub. v1 carries no Java AST
// support; every patch fails with UnsupportedOperation so callers get a
// structured error rather than a silent no-op.
package javapack

import (
	"fmt"

	"github.com/codeready-toolchain/governor/internal/transform"
)

func init() {
	transform.Register(&Pack{})
}

// Pack is the Java stub implementation of transform.LanguagePack.
type Pack struct{}

func (p *Pack) Language() transform.Language { return transform.LangJava }

func (p *Pack) Extensions() []string { return []string{".java"} }

func (p *Pack) ApplyPatch(content string, patch transform.Patch) (string, []transform.TextEdit, error) {
	return "", nil, fmt.Errorf("javapack: %s not implemented: %w", patch.AstOp, transform.ErrUnsupportedOperation)
}
