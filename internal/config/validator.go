package config

import "fmt"

var validPolicyTypes = map[string]bool{"secret": true, "pii": true, "custom": true}
var validActions = map[string]bool{"redact": true, "block": true, "warn": true}
var validSeverities = map[string]bool{"low": true, "medium": true, "high": true, "critical": true}

// validateGovernorConfig checks the merged configuration for internal
// consistency before it is converted into the types the rest of the
// program consumes.
func validateGovernorConfig(cfg GovernorYAMLConfig) error {
	if cfg.Server == nil || cfg.Server.Addr == "" {
		return &ValidationError{Section: "server", Field: "addr", Err: fmt.Errorf("must not be empty")}
	}

	for _, p := range cfg.Redactor.Policies {
		if p.ID == "" {
			return &ValidationError{Section: "redactor.policies", Err: fmt.Errorf("policy id must not be empty")}
		}
		if !validPolicyTypes[p.Type] {
			return &ValidationError{Section: "redactor.policies", Field: p.ID, Err: fmt.Errorf("unknown type %q", p.Type)}
		}
		if !validActions[p.Action] {
			return &ValidationError{Section: "redactor.policies", Field: p.ID, Err: fmt.Errorf("unknown action %q", p.Action)}
		}
		if !validSeverities[p.Severity] {
			return &ValidationError{Section: "redactor.policies", Field: p.ID, Err: fmt.Errorf("unknown severity %q", p.Severity)}
		}
		if len(p.Patterns) == 0 {
			return &ValidationError{Section: "redactor.policies", Field: p.ID, Err: fmt.Errorf("must declare at least one pattern")}
		}
	}

	for _, m := range cfg.Pricing.Models {
		if m.ModelID == "" {
			return &ValidationError{Section: "pricing.models", Err: fmt.Errorf("model_id must not be empty")}
		}
		if m.InputTokenCost < 0 || m.OutputTokenCost < 0 {
			return &ValidationError{Section: "pricing.models", Field: m.ModelID, Err: fmt.Errorf("token costs must be non-negative")}
		}
	}

	return nil
}
