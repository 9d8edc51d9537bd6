// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/gateways"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/repositories"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/services"
)

// Exit codes returned by a gate run
const (
	ExitPass = 0
	ExitFail = 1
)

// Policy values, mirrored from the configuration layer
const (
	UnparseableSkip      = "skip"
	UnparseableFail      = "fail"
	BundleFallbackIgnore = "ignore"
	BundleFallbackWarn   = "warn"
	BundleFallbackFail   = "fail"
)

// bundleSubject identifies checks about the release bundle rather than a package
const bundleSubject = "bundle"

// GateDependencies are the collaborators of a GateOrchestrator.
// Metrics is optional.
type GateDependencies struct {
	Packages repositories.PackageRepository
	Bundles  repositories.BundleRepository
	Gate     services.GateService
	Dist     gateways.DistInspector
	Hasher   gateways.Hasher
	Evidence gateways.EvidenceWriter
	Metrics  gateways.MetricsExporter
	Logger   interfaces.Logger
	Out      io.Writer
}

// GateOrchestratorConfig holds run policy for the orchestrator
type GateOrchestratorConfig struct {
	DefaultBundleVersion string
	UnparseableManifest  string
	BundleFallback       string
	Clock                func() time.Time
	NewRunID             func() string
}

// GateOrchestrator drives one publish-gate run: discover, classify, check,
// aggregate, emit evidence and summarize
type GateOrchestrator struct {
	deps   GateDependencies
	config GateOrchestratorConfig
}

// NewGateOrchestrator creates a new gate orchestrator
func NewGateOrchestrator(deps GateDependencies, config GateOrchestratorConfig) *GateOrchestrator {
	if deps.Logger == nil {
		deps.Logger = &interfaces.NoOpLogger{}
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if config.DefaultBundleVersion == "" {
		config.DefaultBundleVersion = "1.0.0"
	}
	if config.UnparseableManifest == "" {
		config.UnparseableManifest = UnparseableSkip
	}
	if config.BundleFallback == "" {
		config.BundleFallback = BundleFallbackIgnore
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.NewRunID == nil {
		config.NewRunID = uuid.NewString
	}

	return &GateOrchestrator{deps: deps, config: config}
}

// GateRunResult contains everything a run produced
type GateRunResult struct {
	Report       *entities.GateReport
	PublishSet   *entities.PublishSet
	Evidence     *gateways.EvidencePaths
	Candidates   int
	Skipped      []string
	BundleSource string
	Duration     time.Duration
}

// ExitCode maps the gate status to the process exit status.
// A FAIL is never waivable.
func (r *GateRunResult) ExitCode() int {
	if r.Report.Passed() {
		return ExitPass
	}
	return ExitFail
}

// Run executes the gate. Policy failures are reported through the result;
// the returned error is reserved for environment faults (unreadable trees,
// hashing or evidence write failures), which must never turn into a PASS.
func (o *GateOrchestrator) Run(ctx context.Context) (*GateRunResult, error) {
	startTime := o.config.Clock()
	o.printf("🔍 Running %s\n", entities.GateName)

	// Step 1: Bundle version
	bundleVersion, bundleSource, err := o.resolveBundleVersion(ctx)
	if err != nil {
		return nil, err
	}

	report := entities.NewGateReport(o.config.NewRunID(), startTime.UTC().Format(time.RFC3339), bundleVersion)
	set := entities.NewPublishSet()
	result := &GateRunResult{
		Report:       report,
		PublishSet:   set,
		BundleSource: bundleSource,
	}

	o.printf("📦 Bundle version: %s (%s)\n", bundleVersion, bundleSource)
	if bundleSource != bundleSourceManifest {
		o.recordBundleFallback(report, bundleVersion)
	}

	// Step 2: Discovery
	candidates, err := o.deps.Packages.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("package discovery failed: %w", err)
	}
	result.Candidates = len(candidates)
	o.deps.Logger.Info("discovered candidate packages", interfaces.F("count", len(candidates)))
	o.printf("🔎 Found %d candidate package(s)\n", len(candidates))

	// Steps 3-4: Classification, then publish-readiness checks
	claimed := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if candidate.Err != nil {
			o.handleUnparseable(report, candidate)
			result.Skipped = append(result.Skipped, candidate.Dir)
			continue
		}

		if first, ok := claimed[candidate.Package.Name]; ok {
			o.recordDuplicateName(report, candidate, first)
			continue
		}
		claimed[candidate.Package.Name] = candidate.Dir

		if err := o.evaluatePackage(ctx, candidate.Package, bundleVersion, report, set); err != nil {
			return nil, err
		}
	}

	// Step 5: Emit evidence
	paths, err := o.deps.Evidence.WriteEvidence(ctx, set, report)
	if err != nil {
		return nil, fmt.Errorf("failed to write evidence: %w", err)
	}
	result.Evidence = paths

	if o.deps.Metrics != nil {
		if err := o.deps.Metrics.Export(report, set); err != nil {
			return nil, fmt.Errorf("failed to export metrics: %w", err)
		}
	}

	result.Duration = o.config.Clock().Sub(startTime)
	o.deps.Logger.Info("gate finished",
		interfaces.F("status", string(report.Status)),
		interfaces.F("violations", len(report.Violations)),
		interfaces.F("publishable", len(set.Packages)),
		interfaces.F("run_id", report.RunID))

	// Step 6: Summary
	o.printf("\n%s\n", o.GetGateSummary(result))

	return result, nil
}

const (
	bundleSourceManifest = "manifest"
	bundleSourceMissing  = "default, manifest missing"
	bundleSourceNoField  = "default, bundle_version not set"
)

// resolveBundleVersion loads the bundle manifest, substituting the default
// version when the manifest or its field is absent. A malformed manifest is fatal.
func (o *GateOrchestrator) resolveBundleVersion(ctx context.Context) (string, string, error) {
	bundle, err := o.deps.Bundles.LoadBundleManifest(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to load bundle manifest: %w", err)
	}

	switch {
	case bundle == nil:
		o.deps.Logger.Warn("bundle manifest not found, using default bundle version",
			interfaces.F("default", o.config.DefaultBundleVersion))
		return o.config.DefaultBundleVersion, bundleSourceMissing, nil
	case strings.TrimSpace(bundle.BundleVersion) == "":
		o.deps.Logger.Warn("bundle manifest has no bundle_version, using default bundle version",
			interfaces.F("default", o.config.DefaultBundleVersion))
		return o.config.DefaultBundleVersion, bundleSourceNoField, nil
	default:
		return bundle.BundleVersion, bundleSourceManifest, nil
	}
}

func (o *GateOrchestrator) recordBundleFallback(report *entities.GateReport, bundleVersion string) {
	msg := fmt.Sprintf("bundle version defaulted to %s", bundleVersion)

	switch o.config.BundleFallback {
	case BundleFallbackWarn:
		o.record(report, entities.NewCheckResult(bundleSubject, entities.RuleBundleManifest, entities.OutcomeWarn, msg))
	case BundleFallbackFail:
		o.record(report, entities.NewCheckResult(bundleSubject, entities.RuleBundleManifest, entities.OutcomeFail, msg))
	default:
		o.printf("⚠️  %s\n", msg)
	}
}

// handleUnparseable drops a candidate whose manifest could not be read. Under
// the fail policy the drop is also recorded as a violation.
func (o *GateOrchestrator) handleUnparseable(report *entities.GateReport, candidate repositories.Candidate) {
	o.deps.Logger.Error("skipping package with unreadable manifest",
		interfaces.F("dir", candidate.Dir),
		interfaces.F("error", candidate.Err))

	if o.config.UnparseableManifest == UnparseableFail {
		o.record(report, entities.NewCheckResult(filepath.Base(candidate.Dir), entities.RuleManifest,
			entities.OutcomeFail, candidate.Err.Error()))
		return
	}
	o.printf("⚠️  Skipping %s: %v\n", candidate.Dir, candidate.Err)
}

// recordDuplicateName fails a package whose project name is already taken by
// an earlier directory. The duplicate is not evaluated further.
func (o *GateOrchestrator) recordDuplicateName(report *entities.GateReport, candidate repositories.Candidate, firstDir string) {
	o.deps.Logger.Error("duplicate project name",
		interfaces.F("name", candidate.Package.Name),
		interfaces.F("dir", candidate.Dir),
		interfaces.F("first_dir", firstDir))

	o.printf("\n▶ %s %s\n", candidate.Package.Name, candidate.Package.Version)
	o.record(report, entities.NewCheckResult(candidate.Package.Name, entities.RuleUniqueName, entities.OutcomeFail,
		fmt.Sprintf("project name %s in %s is already declared by %s", candidate.Package.Name, candidate.Dir, firstDir)))
}

// evaluatePackage runs the rules for one package. Classification gates the
// rest; the three readiness rules always all run.
func (o *GateOrchestrator) evaluatePackage(ctx context.Context, pkg *entities.Package, bundleVersion string, report *entities.GateReport, set *entities.PublishSet) error {
	o.printf("\n▶ %s %s\n", pkg.Name, pkg.Version)

	classification := o.deps.Gate.CheckClassification(pkg)
	o.record(report, classification)
	if !classification.Passed() {
		o.printf("  🚫 BLOCKED: %s is %s and will not be evaluated for publishing\n", pkg.Name, pkg.Category)
		return nil
	}

	set.Add(*pkg)
	entry := &set.Packages[len(set.Packages)-1]

	o.record(report, o.deps.Gate.CheckDerivationProof(pkg))

	dist, err := o.deps.Dist.Inspect(ctx, o.deps.Gate.DistDir(pkg))
	if err != nil {
		return fmt.Errorf("failed to inspect distributions of %s: %w", pkg.Name, err)
	}
	o.record(report, o.deps.Gate.CheckDistArtifacts(pkg, dist))

	o.record(report, o.deps.Gate.CheckVersionSync(pkg, bundleVersion))

	return o.attachEvidence(ctx, entry, pkg, dist)
}

// attachEvidence records content digests for the proof and archives.
// Digests never influence the gate decision.
func (o *GateOrchestrator) attachEvidence(ctx context.Context, entry *entities.PublishEntry, pkg *entities.Package, dist *entities.DistArtifacts) error {
	proofSum, err := o.deps.Hasher.HashFile(ctx, o.deps.Gate.ProofPath(pkg))
	if err != nil {
		return fmt.Errorf("failed to hash derivation proof of %s: %w", pkg.Name, err)
	}
	entry.ProofSHA256 = proofSum

	if dist == nil || (!dist.HasWheel() && !dist.HasSDist()) {
		return nil
	}

	for _, file := range []*entities.DistFile{dist.Wheel, dist.SDist} {
		if file == nil {
			continue
		}
		sum, err := o.deps.Hasher.HashFile(ctx, file.Path)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", file.Path, err)
		}
		file.SHA256 = sum
	}
	entry.Dist = dist

	return nil
}

// record appends a result to the report and prints it; failures are printed as they happen
func (o *GateOrchestrator) record(report *entities.GateReport, result entities.CheckResult) {
	report.Record(result)

	switch result.Result {
	case entities.OutcomePass:
		o.printf("  ✅ %s: %s\n", result.ID, result.Message)
	case entities.OutcomeWarn:
		o.deps.Logger.Warn("gate warning", interfaces.F("check", result.ID), interfaces.F("message", result.Message))
		o.printf("  ⚠️  %s: %s\n", result.ID, result.Message)
	case entities.OutcomeFail:
		o.deps.Logger.Warn("gate check failed", interfaces.F("check", result.ID), interfaces.F("message", result.Message))
		o.printf("  ❌ %s: %s\n", result.ID, result.Message)
	}
}

// GetGateSummary generates a human-readable gate summary
func (o *GateOrchestrator) GetGateSummary(result *GateRunResult) string {
	report := result.Report
	counts := report.CountByOutcome()

	var b strings.Builder
	b.WriteString("📋 Summary\n")
	fmt.Fprintf(&b, "   Bundle version: %s\n", report.BundleVersion)
	fmt.Fprintf(&b, "   Candidates: %d", result.Candidates)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(&b, " (%d skipped: unreadable manifest)", len(result.Skipped))
	}
	b.WriteString("\n")

	names := result.PublishSet.Names()
	if len(names) == 0 {
		b.WriteString("   Publish set: (empty)\n")
	} else {
		fmt.Fprintf(&b, "   Publish set: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "   Checks: %d passed, %d warnings, %d failed\n",
		counts[entities.OutcomePass], counts[entities.OutcomeWarn], counts[entities.OutcomeFail])

	if result.Evidence != nil {
		fmt.Fprintf(&b, "   Evidence: %s, %s\n", result.Evidence.PublishSet, result.Evidence.Report)
		if result.Evidence.Signature != "" {
			fmt.Fprintf(&b, "   Signature: %s\n", result.Evidence.Signature)
		}
	}

	if report.Passed() {
		b.WriteString("✅ PASSED: all publish gate checks passed")
		return b.String()
	}

	fmt.Fprintf(&b, "❌ FAILED: %d violation(s)\n", len(report.Violations))
	for _, v := range report.Violations {
		fmt.Fprintf(&b, "   - %s\n", v)
	}
	b.WriteString("🚫 This gate is not waivable: fix the violations and rerun")
	return b.String()
}

func (o *GateOrchestrator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.deps.Out, format, args...)
}
