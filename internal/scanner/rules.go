package scanner

import (
	"regexp"
	"strings"
)

// Category groups rules by the kind of secret they recognize.
type Category string

const (
	CategoryCloudCredential  Category = "cloud-credential"
	CategoryToken            Category = "token"
	CategoryPrivateKey       Category = "private-key"
	CategoryConnectionString Category = "connection-string"
	CategoryPassword         Category = "password"
	CategoryHighEntropy      Category = "high-entropy"
)

// HighEntropyRule is the rule id of entropy heuristic findings.
const HighEntropyRule = "high_entropy"

// Rule recognizes one secret shape. Group selects the submatch that holds
// the secret; the whole match claims its span either way.
type Rule struct {
	ID         string
	Category   Category
	Confidence float64
	Pattern    *regexp.Regexp
	Group      int

	// Placeholders skips matches whose secret is a template reference
	// rather than a literal.
	Placeholders bool
}

// DefaultRules is the ordered structural rule set. Earlier rules win when
// matches overlap.
var DefaultRules = []Rule{
	{
		ID:         "aws_access_key",
		Category:   CategoryCloudCredential,
		Confidence: 0.9,
		Pattern:    regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`),
	},
	{
		ID:         "aws_secret_key",
		Category:   CategoryCloudCredential,
		Confidence: 0.95,
		Pattern:    regexp.MustCompile(`(?i)aws_?secret_?(?:access_?)?key["']?\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})`),
		Group:      1,
	},
	{
		ID:         "github_token",
		Category:   CategoryToken,
		Confidence: 0.95,
		Pattern:    regexp.MustCompile(`\b(?:gh[pousr]_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,})\b`),
	},
	{
		ID:           "github_token",
		Category:     CategoryToken,
		Confidence:   0.8,
		Pattern:      regexp.MustCompile(`(?i)github[_-]?token["']?\s*[:=]\s*["']?([A-Za-z0-9_]{36,})`),
		Group:        1,
		Placeholders: true,
	},
	{
		ID:         "jwt",
		Category:   CategoryToken,
		Confidence: 0.7,
		Pattern:    regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{2,}\.eyJ[A-Za-z0-9_-]{2,}\.[A-Za-z0-9_-]*`),
	},
	{
		ID:         "private_key",
		Category:   CategoryPrivateKey,
		Confidence: 0.99,
		Pattern:    regexp.MustCompile(`-----BEGIN (?:[A-Z0-9]+ )*PRIVATE KEY(?: BLOCK)?-----`),
	},
	{
		ID:           "connection_string",
		Category:     CategoryConnectionString,
		Confidence:   0.85,
		Pattern:      regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^\s:/@"'<>]*:([^\s@/"'<>]+)@[^\s"'<>]+`),
		Group:        1,
		Placeholders: true,
	},
	{
		ID:         "bearer_token",
		Category:   CategoryToken,
		Confidence: 0.75,
		Pattern:    regexp.MustCompile(`(?i)\bbearer\s+([A-Za-z0-9._~+/-]{20,}=*)`),
		Group:      1,
	},
	{
		ID:           "api_token",
		Category:     CategoryToken,
		Confidence:   0.7,
		Pattern:      regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api[_-]?token|access[_-]?token|auth[_-]?token|secret[_-]?key|token)["']?\s*[:=]\s*["']?([A-Za-z0-9_-]{20,})`),
		Group:        1,
		Placeholders: true,
	},
	{
		ID:           "password_assignment",
		Category:     CategoryPassword,
		Confidence:   0.6,
		Pattern:      regexp.MustCompile(`(?i)(?:password|passwd|pwd)["']?\s*[:=]\s*["']?([^\s"',;]{8,})`),
		Group:        1,
		Placeholders: true,
	},
}

// RuleIDs lists the distinct rule ids, structural rules first.
func RuleIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, r := range DefaultRules {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return append(ids, HighEntropyRule)
}

// isPlaceholder reports values that reference a variable or template
// instead of holding a literal secret.
func isPlaceholder(value string) bool {
	switch {
	case strings.HasPrefix(value, "$"),
		strings.HasPrefix(value, "%"),
		strings.HasPrefix(value, "<"),
		strings.HasPrefix(value, "{{"),
		strings.Contains(value, "${"),
		strings.Contains(value, "("):
		return true
	}
	return false
}
