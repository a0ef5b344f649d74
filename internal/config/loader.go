package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codeready-toolchain/governor/internal/costledger"
	"github.com/codeready-toolchain/governor/internal/redactor"
)

// Config is the resolved, ready-to-use configuration object returned by
// Load. Unlike GovernorYAMLConfig (the raw YAML shape), this holds
// already-merged and already-converted values the rest of the program
// consumes directly.
type Config struct {
	Server           ServerConfig
	RedactorPolicies []redactor.Policy
	PricingTable     []costledger.ModelPricing
	AllowIdentifier  bool
	AllowCallExpr    bool
	SweeperInterval  time.Duration
	SweeperThreshold time.Duration
}

// Load reads governor.yaml from configDir (if present), expands
// environment variables, merges it over the built-in defaults, and
// validates the result. A missing file is not an error: the built-in
// defaults alone are a valid configuration.
func Load(configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)

	user, err := loadUserYAML(configDir)
	if err != nil {
		return nil, err
	}

	merged, err := mergeWithDefaults(user)
	if err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}

	if user.Redactor != nil {
		merged.Redactor.Policies = mergeRedactorPolicies(defaultPolicyYAML(), user.Redactor.Policies)
	} else {
		merged.Redactor.Policies = defaultPolicyYAML()
	}

	if user.Pricing != nil {
		merged.Pricing.Models = mergePricingModels(defaultPricingYAML(), user.Pricing.Models)
	} else {
		merged.Pricing.Models = defaultPricingYAML()
	}

	if err := validateGovernorConfig(merged); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	interval, threshold := DefaultSweeperDurations(merged.Sweeper)

	cfg := &Config{
		Server:           *merged.Server,
		RedactorPolicies: toRedactorPolicies(merged.Redactor.Policies),
		PricingTable:     toPricingTable(merged.Pricing.Models),
		AllowIdentifier:  boolOr(merged.Selectors.AllowIdentifier, true),
		AllowCallExpr:    boolOr(merged.Selectors.AllowCallExpression, true),
		SweeperInterval:  interval,
		SweeperThreshold: threshold,
	}

	log.Info("configuration loaded",
		"policies", len(cfg.RedactorPolicies),
		"pricing_models", len(cfg.PricingTable))

	return cfg, nil
}

func loadUserYAML(configDir string) (GovernorYAMLConfig, error) {
	if configDir == "" {
		return GovernorYAMLConfig{}, nil
	}

	path := filepath.Join(configDir, "governor.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return GovernorYAMLConfig{}, nil
		}
		return GovernorYAMLConfig{}, &LoadError{File: path, Err: err}
	}

	expanded := ExpandEnv(data)

	var cfg GovernorYAMLConfig
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return GovernorYAMLConfig{}, &LoadError{File: path, Err: fmt.Errorf("%w: %v", ErrInvalidYAML, err)}
	}
	return cfg, nil
}

func defaultPolicyYAML() []PolicyYAMLConfig {
	var out []PolicyYAMLConfig
	for _, p := range redactor.DefaultPolicies() {
		out = append(out, PolicyYAMLConfig{
			ID:       p.ID,
			Name:     p.Name,
			Type:     string(p.Type),
			Enabled:  boolPtr(p.Enabled),
			Patterns: p.Patterns,
			Action:   string(p.Action),
			Severity: string(p.Severity),
		})
	}
	return out
}

func defaultPricingYAML() []ModelPricingYAMLConfig {
	var out []ModelPricingYAMLConfig
	for _, m := range costledger.DefaultPricingTable() {
		out = append(out, ModelPricingYAMLConfig{
			ModelID:         m.ModelID,
			InputTokenCost:  m.InputTokenCost,
			OutputTokenCost: m.OutputTokenCost,
		})
	}
	return out
}

func toRedactorPolicies(in []PolicyYAMLConfig) []redactor.Policy {
	out := make([]redactor.Policy, 0, len(in))
	for _, p := range in {
		out = append(out, redactor.Policy{
			ID:       p.ID,
			Name:     p.Name,
			Type:     redactor.PolicyType(p.Type),
			Enabled:  boolOr(p.Enabled, true),
			Patterns: p.Patterns,
			Action:   redactor.Action(p.Action),
			Severity: redactor.Severity(p.Severity),
		})
	}
	return out
}

func toPricingTable(in []ModelPricingYAMLConfig) []costledger.ModelPricing {
	out := make([]costledger.ModelPricing, 0, len(in))
	for _, m := range in {
		out = append(out, costledger.ModelPricing{
			ModelID:         m.ModelID,
			InputTokenCost:  m.InputTokenCost,
			OutputTokenCost: m.OutputTokenCost,
		})
	}
	return out
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
