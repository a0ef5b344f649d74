package jsts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/governor/internal/transform"
)

func TestApplyPatch_RenameSymbol(t *testing.T) {
	p := &Pack{}
	content := "export type UserId = string;\nconst u: UserId = '1';"

	mutated, edits, err := p.ApplyPatch(content, transform.Patch{
		AstOp:    transform.OpRenameSymbol,
		Selector: "Identifier[name='UserId']",
		Details:  transform.PatchDetails{NewName: "AccountId"},
	})
	require.NoError(t, err)
	assert.Equal(t, "export type AccountId = string;\nconst u: AccountId = '1';", mutated)
	assert.Len(t, edits, 2)
}

func TestApplyPatch_RenameSymbol_IsIdempotent(t *testing.T) {
	p := &Pack{}
	content := "const UserId = 1;"
	patch := transform.Patch{
		AstOp:    transform.OpRenameSymbol,
		Selector: "Identifier[name='UserId']",
		Details:  transform.PatchDetails{NewName: "AccountId"},
	}

	once, _, err := p.ApplyPatch(content, patch)
	require.NoError(t, err)
	twice, _, err := p.ApplyPatch(once, patch)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyPatch_ReplaceAPI_RenamesPropertyAndArgsMap(t *testing.T) {
	p := &Pack{}
	content := "auth.login({ username: 'a', password: 'b' })"

	mutated, _, err := p.ApplyPatch(content, transform.Patch{
		AstOp:    transform.OpReplaceAPI,
		Selector: "CallExpression[callee.object.name='auth'][callee.property.name='login']",
		Details: transform.PatchDetails{
			NewProperty: "signIn",
			ArgsMap:     map[string]string{"username": "email"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "auth.signIn({ email: 'a', password: 'b' })", mutated)
}

func TestApplyPatch_InvalidSelector(t *testing.T) {
	p := &Pack{}
	_, _, err := p.ApplyPatch("x", transform.Patch{
		AstOp:    transform.OpRenameSymbol,
		Selector: "div.class",
	})
	assert.ErrorIs(t, err, transform.ErrInvalidSelector)
}

func TestApplyPatch_UnsupportedOperation(t *testing.T) {
	p := &Pack{}
	_, _, err := p.ApplyPatch("x", transform.Patch{
		AstOp:    transform.OpMoveModule,
		Selector: "Identifier[name='X']",
	})
	assert.ErrorIs(t, err, transform.ErrUnsupportedOperation)
}
