package config

import "time"

// boolPtr is a small helper for YAML struct literals that need *bool.
func boolPtr(b bool) *bool { return &b }

// DefaultGovernorConfig is the built-in configuration merged underneath
// whatever the operator supplies in governor.yaml.
func DefaultGovernorConfig() GovernorYAMLConfig {
	return GovernorYAMLConfig{
		Server: &ServerConfig{
			Addr:        ":8088",
			StorePath:   "./data/evidence",
			WorkdirRoot: "./workdir",
		},
		Redactor: &RedactorConfig{},
		Pricing:  &PricingConfig{},
		Selectors: &SelectorsConfig{
			AllowIdentifier:     boolPtr(true),
			AllowCallExpression: boolPtr(true),
		},
		Sweeper: &SweeperConfig{
			Interval:  "1m",
			Threshold: "10m",
		},
	}
}

// DefaultSweeperDurations parses SweeperConfig's string fields, falling
// back to hardcoded defaults if unset or unparsable.
func DefaultSweeperDurations(cfg *SweeperConfig) (interval, threshold time.Duration) {
	interval, threshold = time.Minute, 10*time.Minute
	if cfg == nil {
		return
	}
	if d, err := time.ParseDuration(cfg.Interval); err == nil && cfg.Interval != "" {
		interval = d
	}
	if d, err := time.ParseDuration(cfg.Threshold); err == nil && cfg.Threshold != "" {
		threshold = d
	}
	return
}
