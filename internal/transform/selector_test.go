package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_Identifier(t *testing.T) {
	sel, err := ParseSelector("Identifier[name='UserId']")
	require.NoError(t, err)
	assert.Equal(t, SelectorIdentifier, sel.Kind)
	assert.Equal(t, "UserId", sel.Name)
}

func TestParseSelector_CallExpression(t *testing.T) {
	sel, err := ParseSelector("CallExpression[callee.object.name='auth'][callee.property.name='login']")
	require.NoError(t, err)
	assert.Equal(t, SelectorCallExpression, sel.Kind)
	assert.Equal(t, "auth", sel.CalleeObject)
	assert.Equal(t, "login", sel.CalleeProperty)
}

func TestParseSelector_OutsideGrammar(t *testing.T) {
	_, err := ParseSelector("div.class#id")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestParseSelector_DisabledShapeRejected(t *testing.T) {
	SetSelectorToggles(false, true)
	t.Cleanup(func() { SetSelectorToggles(true, true) })

	_, err := ParseSelector("Identifier[name='x']")
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = ParseSelector("CallExpression[callee.object.name='a'][callee.property.name='b']")
	assert.NoError(t, err)
}

func TestParseSelector_Empty(t *testing.T) {
	_, err := ParseSelector("")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}
