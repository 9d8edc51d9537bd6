package entities

import "fmt"

// Rule identifies a gate rule
type Rule string

// Gate rules, in evaluation order. RuleManifest and RuleBundleManifest are only
// recorded when the corresponding policy asks for it. RuleUniqueName fails a
// package whose project name was already claimed by an earlier directory.
const (
	RuleClassification  Rule = "classification"
	RuleDerivationProof Rule = "derivation-proof"
	RuleDistArtifacts   Rule = "dist-artifacts"
	RuleVersionSync     Rule = "version-sync"
	RuleManifest        Rule = "manifest"
	RuleBundleManifest  Rule = "bundle-manifest"
	RuleUniqueName      Rule = "unique-name"
)

// Outcome is the result of a single check
type Outcome string

// Check outcomes. OutcomeWarn is informational and never produces a violation.
const (
	OutcomePass Outcome = "PASS"
	OutcomeWarn Outcome = "WARN"
	OutcomeFail Outcome = "FAIL"
)

// CheckResult is the outcome of one rule applied to one subject
type CheckResult struct {
	ID      string  `json:"id"`
	Subject string  `json:"-"`
	Rule    Rule    `json:"-"`
	Result  Outcome `json:"result" jsonschema:"enum=PASS,enum=WARN,enum=FAIL"`
	Message string  `json:"message,omitempty"`
}

// NewCheckResult creates a check result identified as "<subject>/<rule>"
func NewCheckResult(subject string, rule Rule, outcome Outcome, message string) CheckResult {
	return CheckResult{
		ID:      fmt.Sprintf("%s/%s", subject, rule),
		Subject: subject,
		Rule:    rule,
		Result:  outcome,
		Message: message,
	}
}

// Passed returns true unless the check failed
func (c CheckResult) Passed() bool {
	return c.Result != OutcomeFail
}

// Violation restates a failed check as a short label
func (c CheckResult) Violation() string {
	if c.Message == "" {
		return c.ID
	}
	return fmt.Sprintf("%s: %s", c.ID, c.Message)
}
