package entities

// GateName is the identifier written into every gate report
const GateName = "pypi-publish-gate"

// GateStatus is the overall gate decision
type GateStatus string

// Gate statuses
const (
	GateStatusPass GateStatus = "PASS"
	GateStatusFail GateStatus = "FAIL"
)

// GateReport is the evidence record of one gate run.
// Status is FAIL iff Violations is non-empty.
type GateReport struct {
	Gate          string        `json:"gate"`
	RunID         string        `json:"runId,omitempty"`
	Timestamp     string        `json:"timestamp"`
	BundleVersion string        `json:"bundleVersion"`
	Status        GateStatus    `json:"status" jsonschema:"enum=PASS,enum=FAIL"`
	Checks        []CheckResult `json:"checks"`
	Violations    []string      `json:"violations"`
}

// NewGateReport creates an empty, passing report
func NewGateReport(runID, timestamp, bundleVersion string) *GateReport {
	return &GateReport{
		Gate:          GateName,
		RunID:         runID,
		Timestamp:     timestamp,
		BundleVersion: bundleVersion,
		Status:        GateStatusPass,
		Checks:        []CheckResult{},
		Violations:    []string{},
	}
}

// Record appends a check result. A failed check also appends its violation
// and flips the report to FAIL.
func (r *GateReport) Record(result CheckResult) {
	r.Checks = append(r.Checks, result)
	if result.Result == OutcomeFail {
		r.Violations = append(r.Violations, result.Violation())
		r.Status = GateStatusFail
	}
}

// Passed returns true if the gate passed
func (r *GateReport) Passed() bool {
	return r.Status == GateStatusPass
}

// ChecksFor returns the recorded checks for one subject, in record order
func (r *GateReport) ChecksFor(subject string) []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Subject == subject {
			out = append(out, c)
		}
	}
	return out
}

// CountByOutcome tallies recorded checks per outcome
func (r *GateReport) CountByOutcome() map[Outcome]int {
	counts := map[Outcome]int{OutcomePass: 0, OutcomeWarn: 0, OutcomeFail: 0}
	for _, c := range r.Checks {
		counts[c.Result]++
	}
	return counts
}
