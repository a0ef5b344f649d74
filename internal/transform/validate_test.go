package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() ChangeSpec {
	return ChangeSpec{
		ID:       "CS-1001",
		Intent:   "rename UserId to AccountId",
		Scope:    []string{"src/**/*.ts"},
		Language: LangTypeScript,
		Patches: []Patch{
			{
				Path:     "src/types.ts",
				AstOp:    OpRenameSymbol,
				Selector: "Identifier[name='UserId']",
				Details:  PatchDetails{NewName: "AccountId"},
			},
		},
		Invariants: []Invariant{
			{Name: "compiles", Type: InvariantTypecheck, Spec: "tsc --noEmit"},
		},
		Tests: TestPlan{Strategy: StrategyAugment, MutationThreshold: 0.8},
	}
}

func TestValidateChangeSpec(t *testing.T) {
	t.Run("valid spec passes and defaults risk to medium", func(t *testing.T) {
		spec := validSpec()
		require.NoError(t, ValidateChangeSpec(&spec))
		assert.Equal(t, RiskMedium, spec.Risk)
	})

	t.Run("id must match CS-digits", func(t *testing.T) {
		spec := validSpec()
		spec.ID = "CHANGE-1"
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("empty scope rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Scope = nil
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("unrecognized language rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Language = "cobol"
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("unknown astOp rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Patches[0].AstOp = "transmogrify"
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("renameSymbol without newName rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Patches[0].Details = PatchDetails{}
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("renameSymbol with call-expression selector rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Patches[0].Selector = "CallExpression[callee.object.name='a'][callee.property.name='b']"
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("mutation threshold out of range rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Tests.MutationThreshold = 1.5
		assert.ErrorIs(t, ValidateChangeSpec(&spec), ErrInvalidChangeSpec)
	})

	t.Run("explicit risk preserved", func(t *testing.T) {
		spec := validSpec()
		spec.Risk = RiskHigh
		require.NoError(t, ValidateChangeSpec(&spec))
		assert.Equal(t, RiskHigh, spec.Risk)
	})
}
