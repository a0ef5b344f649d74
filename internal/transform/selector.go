package transform

import "regexp"

// SelectorKind enumerates the two recognized selector shapes.
type SelectorKind string

const (
	SelectorIdentifier     SelectorKind = "Identifier"
	SelectorCallExpression SelectorKind = "CallExpression"
)

// Selector is the parsed form of an attribute-predicate query string. Only
// the two shapes below are supported; anything else is InvalidSelector.
type Selector struct {
	Kind SelectorKind

	// Identifier[name='X']
	Name string

	// CallExpression[callee.object.name='O'][callee.property.name='P']
	CalleeObject   string
	CalleeProperty string
}

var (
	identifierRe = regexp.MustCompile(`^Identifier\[name='([^']*)'\]$`)
	callExprRe   = regexp.MustCompile(`^CallExpression\[callee\.object\.name='([^']*)'\]\[callee\.property\.name='([^']*)'\]$`)
)

// Selector shape toggles, settable once at startup from configuration so
// an operator can stage a rollout of one shape without a code change.
var (
	allowIdentifier = true
	allowCallExpr   = true
)

// SetSelectorToggles enables or disables the two recognized selector
// shapes. A disabled shape parses as InvalidSelector.
func SetSelectorToggles(identifier, callExpression bool) {
	allowIdentifier = identifier
	allowCallExpr = callExpression
}

// ParseSelector parses a selector string into a typed query tree, rejecting
// anything outside the two supported shapes. This is deliberately a
// severely restricted subset of a CSS-for-AST grammar; do not extend it
// without a corresponding spec change.
func ParseSelector(raw string) (*Selector, error) {
	if m := identifierRe.FindStringSubmatch(raw); m != nil && allowIdentifier {
		return &Selector{Kind: SelectorIdentifier, Name: m[1]}, nil
	}
	if m := callExprRe.FindStringSubmatch(raw); m != nil && allowCallExpr {
		return &Selector{Kind: SelectorCallExpression, CalleeObject: m[1], CalleeProperty: m[2]}, nil
	}
	return nil, &SelectorError{Selector: raw}
}
