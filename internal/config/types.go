package config

// GovernorYAMLConfig represents the complete governor.yaml file structure.
type GovernorYAMLConfig struct {
	Server    *ServerConfig    `yaml:"server"`
	Redactor  *RedactorConfig  `yaml:"redactor"`
	Pricing   *PricingConfig   `yaml:"pricing"`
	Selectors *SelectorsConfig `yaml:"selectors"`
	Sweeper   *SweeperConfig   `yaml:"sweeper"`
}

// ServerConfig groups the HTTP surface's own settings — not the
// transport framework itself, which remains a collaborator contract
// (Gin is wired at cmd/governor level).
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	StorePath         string `yaml:"store_path"`
	WorkdirRoot       string `yaml:"workdir_root"`
	MutationRunnerCmd string `yaml:"mutation_runner_cmd,omitempty"`
}

// PolicyYAMLConfig mirrors redactor.Policy for YAML (un)marshaling.
type PolicyYAMLConfig struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Enabled  *bool    `yaml:"enabled,omitempty"`
	Patterns []string `yaml:"patterns"`
	Action   string   `yaml:"action"`
	Severity string   `yaml:"severity"`
}

// RedactorConfig holds user-defined policy overrides and additions. Any
// policy ID present here overrides the built-in default with the same ID;
// new IDs are additive, per the merge conventions used for the rest of
// the configuration surface.
type RedactorConfig struct {
	Policies []PolicyYAMLConfig `yaml:"policies"`
}

// ModelPricingYAMLConfig mirrors costledger.ModelPricing for YAML.
type ModelPricingYAMLConfig struct {
	ModelID         string  `yaml:"model_id"`
	InputTokenCost  float64 `yaml:"input_token_cost"`
	OutputTokenCost float64 `yaml:"output_token_cost"`
}

// PricingConfig holds user-defined pricing table overrides/additions.
type PricingConfig struct {
	Models []ModelPricingYAMLConfig `yaml:"models"`
}

// SelectorsConfig toggles which selector shapes the engine accepts. v1
// only ever recognizes the two grammar shapes in spec; this exists so an
// operator can disable one without a code change (e.g. to stage a rollout).
type SelectorsConfig struct {
	AllowIdentifier     *bool `yaml:"allow_identifier,omitempty"`
	AllowCallExpression *bool `yaml:"allow_call_expression,omitempty"`
}

// SweeperConfig tunes the Mission Coordinator's stale-batch sweeper.
// Interval/Threshold are strings in YAML (e.g. "5m") and parsed to
// time.Duration by the loader.
type SweeperConfig struct {
	Interval  string `yaml:"interval"`
	Threshold string `yaml:"threshold"`
}
