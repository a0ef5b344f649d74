package transform

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidChangeSpec indicates a ChangeSpec failed schema validation.
var ErrInvalidChangeSpec = errors.New("invalid change spec")

var changeSpecIDRe = regexp.MustCompile(`^CS-[0-9]+$`)

var knownOps = map[AstOp]bool{
	OpRenameSymbol: true,
	OpReplaceAPI:   true,
	OpMoveModule:   true,
	OpInsertNode:   true,
	OpDeleteNode:   true,
	OpEditString:   true,
	OpEditRegex:    true,
}

var knownLanguages = map[Language]bool{
	LangTypeScript: true,
	LangJavaScript: true,
	LangPython:     true,
	LangJava:       true,
}

var knownStrategies = map[TestStrategy]bool{
	StrategyAugment:  true,
	StrategyGenerate: true,
	StrategyHybrid:   true,
}

// ValidateChangeSpec checks a ChangeSpec against the schema: required
// fields present, id pattern, recognized language, non-empty scope, every
// patch well-formed for its operation, test plan strategy and threshold in
// range. Returns a single error wrapping ErrInvalidChangeSpec naming the
// first problem found. Also normalizes risk to medium when unset, which is
// the one mutation this function performs.
func ValidateChangeSpec(spec *ChangeSpec) error {
	if !changeSpecIDRe.MatchString(spec.ID) {
		return fmt.Errorf("%w: id %q does not match CS-<digits>", ErrInvalidChangeSpec, spec.ID)
	}
	if spec.Intent == "" {
		return fmt.Errorf("%w: intent must not be empty", ErrInvalidChangeSpec)
	}
	if len(spec.Scope) == 0 {
		return fmt.Errorf("%w: scope must not be empty", ErrInvalidChangeSpec)
	}
	if !knownLanguages[spec.Language] {
		return fmt.Errorf("%w: unrecognized language %q", ErrInvalidChangeSpec, spec.Language)
	}

	switch spec.Risk {
	case "":
		spec.Risk = RiskMedium
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("%w: unrecognized risk %q", ErrInvalidChangeSpec, spec.Risk)
	}

	for i, p := range spec.Patches {
		if err := validatePatch(p); err != nil {
			return fmt.Errorf("%w: patch %d: %v", ErrInvalidChangeSpec, i, err)
		}
	}

	if !knownStrategies[spec.Tests.Strategy] {
		return fmt.Errorf("%w: unrecognized test strategy %q", ErrInvalidChangeSpec, spec.Tests.Strategy)
	}
	if spec.Tests.MutationThreshold < 0 || spec.Tests.MutationThreshold > 1 {
		return fmt.Errorf("%w: mutationThreshold %v outside [0,1]", ErrInvalidChangeSpec, spec.Tests.MutationThreshold)
	}

	return nil
}

func validatePatch(p Patch) error {
	if p.Path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if !knownOps[p.AstOp] {
		return fmt.Errorf("unknown astOp %q", p.AstOp)
	}

	// The two implemented operations each require a selector of a specific
	// shape plus their operation-specific details; the rest fail later with
	// UnsupportedOperation, so only their basic shape is checked here.
	switch p.AstOp {
	case OpRenameSymbol:
		sel, err := ParseSelector(p.Selector)
		if err != nil {
			return err
		}
		if sel.Kind != SelectorIdentifier {
			return &SelectorError{Selector: p.Selector}
		}
		if p.Details.NewName == "" {
			return fmt.Errorf("renameSymbol requires details.newName")
		}
	case OpReplaceAPI:
		sel, err := ParseSelector(p.Selector)
		if err != nil {
			return err
		}
		if sel.Kind != SelectorCallExpression {
			return &SelectorError{Selector: p.Selector}
		}
		if p.Details.NewProperty == "" && len(p.Details.ArgsMap) == 0 {
			return fmt.Errorf("replaceAPI requires details.newProperty or details.argsMap")
		}
	}
	return nil
}
