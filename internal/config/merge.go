package config

import "dario.cat/mergo"

// mergeWithDefaults merges user-supplied configuration over the built-in
// defaults: user values win, zero-valued user fields fall back to the
// default.
func mergeWithDefaults(user GovernorYAMLConfig) (GovernorYAMLConfig, error) {
	merged := DefaultGovernorConfig()
	if err := mergo.Merge(&merged, user, mergo.WithOverride); err != nil {
		return GovernorYAMLConfig{}, err
	}
	return merged, nil
}

// mergeRedactorPolicies layers user-defined policies over built-ins by ID:
// a user policy with the same ID replaces the built-in; new IDs are
// additive. Mirrors mergeMCPServers/mergeAgents's override-by-key pattern.
func mergeRedactorPolicies(builtins []PolicyYAMLConfig, user []PolicyYAMLConfig) []PolicyYAMLConfig {
	byID := make(map[string]PolicyYAMLConfig, len(builtins))
	order := make([]string, 0, len(builtins))
	for _, p := range builtins {
		byID[p.ID] = p
		order = append(order, p.ID)
	}
	for _, p := range user {
		if _, exists := byID[p.ID]; !exists {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}

	out := make([]PolicyYAMLConfig, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

// mergePricingModels layers user-defined pricing entries over built-ins by
// modelId, same override-by-key convention as mergeRedactorPolicies.
func mergePricingModels(builtins, user []ModelPricingYAMLConfig) []ModelPricingYAMLConfig {
	byID := make(map[string]ModelPricingYAMLConfig, len(builtins))
	order := make([]string, 0, len(builtins))
	for _, m := range builtins {
		byID[m.ModelID] = m
		order = append(order, m.ModelID)
	}
	for _, m := range user {
		if _, exists := byID[m.ModelID]; !exists {
			order = append(order, m.ModelID)
		}
		byID[m.ModelID] = m
	}

	out := make([]ModelPricingYAMLConfig, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
