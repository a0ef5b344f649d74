package redactor

// DefaultPolicies returns the built-in policy set that must be present
// out-of-box: AWS keys, private key headers, and OAuth/GitHub
// tokens at critical severity; API key assignments at high; credit cards
// and SSNs at high; emails at medium; IPv4 addresses at low (disabled by
// default). Additional composite patterns (GitHub tokens, password
// assignments, JWTs, Bearer tokens, phone numbers) round out the default
// secret coverage.
func DefaultPolicies() []Policy {
	return []Policy{
		{
			ID:      "builtin-secret-critical",
			Name:    "Critical secrets",
			Type:    PolicyTypeSecret,
			Enabled: true,
			Patterns: []string{
				`AKIA[0-9A-Z]{16}`,
				`-----BEGIN (RSA |EC |DSA )?PRIVATE KEY-----`,
				`ya29\.[0-9A-Za-z\-_]+`,
				`gho_[0-9A-Za-z]{36}`,
				`gh[pousr]_[A-Za-z0-9_]{36,}`,
			},
			Action:   ActionRedact,
			Severity: SeverityCritical,
		},
		{
			ID:      "builtin-secret-high",
			Name:    "High-confidence secrets",
			Type:    PolicyTypeSecret,
			Enabled: true,
			Patterns: []string{
				`(?i)api[_-]?key\s*[:=]\s*['"]?[A-Za-z0-9]{20,}['"]?`,
				`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?\S{8,}['"]?`,
				`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`,
				`(?i)Bearer\s+[A-Za-z0-9\-_.~+/]+=*`,
			},
			Action:   ActionRedact,
			Severity: SeverityHigh,
		},
		{
			ID:      "builtin-pii-high",
			Name:    "High-sensitivity PII",
			Type:    PolicyTypePII,
			Enabled: true,
			Patterns: []string{
				`\b\d{4}[ -]\d{4}[ -]\d{4}[ -]\d{4}\b`,
				`\b\d{3}-\d{2}-\d{4}\b`,
			},
			Action:   ActionRedact,
			Severity: SeverityHigh,
		},
		{
			ID:      "builtin-pii-medium",
			Name:    "Email addresses",
			Type:    PolicyTypePII,
			Enabled: true,
			Patterns: []string{
				`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`,
			},
			Action:   ActionRedact,
			Severity: SeverityMedium,
		},
		{
			ID:      "builtin-pii-low-phone",
			Name:    "Phone numbers",
			Type:    PolicyTypePII,
			Enabled: true,
			Patterns: []string{
				`\b(\+1[ -]?)?\(?\d{3}\)?[ -]?\d{3}[ -]?\d{4}\b`,
			},
			Action:   ActionWarn,
			Severity: SeverityLow,
		},
		{
			ID:      "builtin-pii-low-ipv4",
			Name:    "IPv4 addresses",
			Type:    PolicyTypePII,
			Enabled: false,
			Patterns: []string{
				`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`,
			},
			Action:   ActionWarn,
			Severity: SeverityLow,
		},
	}
}

// placeholderFor returns the type-specific redaction placeholder text.
func placeholderFor(t PolicyType) string {
	switch t {
	case PolicyTypeSecret:
		return "[REDACTED_SECRET]"
	case PolicyTypePII:
		return "[REDACTED_PII]"
	default:
		return "[REDACTED]"
	}
}
