package transform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/governor/internal/transform"
	_ "github.com/codeready-toolchain/governor/internal/transform/jsts"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApply_RenameSymbolEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "user.ts", "export type UserId = string;\nconst u: UserId = '1';")

	spec := transform.ChangeSpec{
		ID:       "CS-1",
		Language: transform.LangTypeScript,
		Patches: []transform.Patch{{
			Path:     "user.ts",
			AstOp:    transform.OpRenameSymbol,
			Selector: "Identifier[name='UserId']",
			Details:  transform.PatchDetails{NewName: "AccountId"},
		}},
	}

	e := transform.NewEngine()
	result := e.Apply(spec, dir)
	require.True(t, result.Success, result.Errors)
	require.Equal(t, []string{"user.ts"}, result.FilesModified)

	content, err := os.ReadFile(filepath.Join(dir, "user.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export type AccountId = string;\nconst u: AccountId = '1';", string(content))
}

func TestApply_ReplaceAPIEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "auth.ts", "auth.login({ username: 'a', password: 'b' })")

	spec := transform.ChangeSpec{
		ID:       "CS-2",
		Language: transform.LangTypeScript,
		Patches: []transform.Patch{{
			Path:     "auth.ts",
			AstOp:    transform.OpReplaceAPI,
			Selector: "CallExpression[callee.object.name='auth'][callee.property.name='login']",
			Details: transform.PatchDetails{
				NewProperty: "signIn",
				ArgsMap:     map[string]string{"username": "email"},
			},
		}},
	}

	e := transform.NewEngine()
	result := e.Apply(spec, dir)
	require.True(t, result.Success, result.Errors)

	content, err := os.ReadFile(filepath.Join(dir, "auth.ts"))
	require.NoError(t, err)
	assert.Equal(t, "auth.signIn({ email: 'a', password: 'b' })", string(content))
}

func TestApply_UnsupportedOperation(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "x.ts", "const x = 1;")

	spec := transform.ChangeSpec{
		Language: transform.LangTypeScript,
		Patches:  []transform.Patch{{Path: "x.ts", AstOp: transform.OpMoveModule, Selector: "Identifier[name='x']"}},
	}
	e := transform.NewEngine()
	result := e.Apply(spec, dir)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestApply_GlobMatchingZeroFiles_SucceedsEmpty(t *testing.T) {
	dir := t.TempDir()
	spec := transform.ChangeSpec{
		Language: transform.LangTypeScript,
		Patches: []transform.Patch{{
			Path:     "*.nonexistent",
			AstOp:    transform.OpRenameSymbol,
			Selector: "Identifier[name='X']",
			Details:  transform.PatchDetails{NewName: "Y"},
		}},
	}
	e := transform.NewEngine()
	result := e.Apply(spec, dir)
	assert.True(t, result.Success)
	assert.Empty(t, result.FilesModified)
}

func TestVerify_SymbolExistsAndSemanticRule(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "x.ts", "function safe() { return legacyCall(); }")

	spec := transform.ChangeSpec{
		Language: transform.LangTypeScript,
		Invariants: []transform.Invariant{
			{Name: "has-safe", Type: transform.InvariantSymbolExists, Spec: "safe"},
			{Name: "no-legacy-anywhere-else", Type: transform.InvariantSemanticRule, Spec: "no calls to banned()"},
		},
		Tests: transform.TestPlan{MutationThreshold: 0},
	}

	e := transform.NewEngine()
	result := e.Verify(context.Background(), spec, dir, "")
	require.True(t, result.Success, result.Errors)
	assert.True(t, result.MutationReport.Synthesized)
	assert.Equal(t, 0.0, result.MutationReport.Score)
}

func TestVerify_SemanticRuleDetectsBannedCall(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "x.ts", "banned();")

	spec := transform.ChangeSpec{
		Language:   transform.LangTypeScript,
		Invariants: []transform.Invariant{{Name: "no-banned", Type: transform.InvariantSemanticRule, Spec: "no calls to banned()"}},
		Tests:      transform.TestPlan{MutationThreshold: 0},
	}

	e := transform.NewEngine()
	result := e.Verify(context.Background(), spec, dir, "")
	assert.False(t, result.Success)
}

func TestVerify_MutationThresholdOneMetBySynthesizedPlaceholder(t *testing.T) {
	dir := t.TempDir()
	spec := transform.ChangeSpec{
		Language: transform.LangTypeScript,
		Tests:    transform.TestPlan{MutationThreshold: 1},
	}
	e := transform.NewEngine()
	result := e.Verify(context.Background(), spec, dir, "")
	// threshold 1 is met trivially by the synthesized placeholder, which is
	// exactly the v1 compromise this test documents.
	assert.True(t, result.Success)
	assert.True(t, result.MutationReport.Synthesized)
}

func TestVerify_UnknownInvariantType(t *testing.T) {
	dir := t.TempDir()
	spec := transform.ChangeSpec{
		Language:   transform.LangTypeScript,
		Invariants: []transform.Invariant{{Name: "bogus", Type: "nonsense"}},
		Tests:      transform.TestPlan{MutationThreshold: 0},
	}
	e := transform.NewEngine()
	result := e.Verify(context.Background(), spec, dir, "")
	require.Len(t, result.InvariantResults, 1)
	assert.False(t, result.InvariantResults[0].Passed)
}
