// Package services implements the publish-gate rules.
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/services"
)

// Default package-relative locations consulted by the rules
const (
	DefaultProofFile = "DERIVATION_PROOF.yaml"
	DefaultDistDir   = "dist"
)

// gateService implements GateService
type gateService struct {
	proofFile string
	distDir   string
}

// NewGateService creates a gate service. Empty arguments fall back to
// DERIVATION_PROOF.yaml and dist.
func NewGateService(proofFile, distDir string) services.GateService {
	if proofFile == "" {
		proofFile = DefaultProofFile
	}
	if distDir == "" {
		distDir = DefaultDistDir
	}
	return &gateService{proofFile: proofFile, distDir: distDir}
}

// ProofPath returns where the derivation proof of pkg must live
func (s *gateService) ProofPath(pkg *entities.Package) string {
	return filepath.Join(pkg.Path, s.proofFile)
}

// DistDir returns the distribution directory of pkg
func (s *gateService) DistDir(pkg *entities.Package) string {
	return filepath.Join(pkg.Path, s.distDir)
}

// CheckClassification passes only PUBLIC packages
func (s *gateService) CheckClassification(pkg *entities.Package) entities.CheckResult {
	if pkg.IsPublic() {
		return entities.NewCheckResult(pkg.Name, entities.RuleClassification, entities.OutcomePass,
			fmt.Sprintf("category %s", pkg.Category))
	}
	return entities.NewCheckResult(pkg.Name, entities.RuleClassification, entities.OutcomeFail,
		fmt.Sprintf("category %s is not publishable (requires %s)", pkg.Category, entities.CategoryPublic))
}

// CheckDerivationProof passes when the proof file exists. Its contents are not validated.
func (s *gateService) CheckDerivationProof(pkg *entities.Package) entities.CheckResult {
	proofPath := s.ProofPath(pkg)
	if _, err := os.Stat(proofPath); err != nil {
		return entities.NewCheckResult(pkg.Name, entities.RuleDerivationProof, entities.OutcomeFail,
			fmt.Sprintf("derivation proof not found: %s", proofPath))
	}
	return entities.NewCheckResult(pkg.Name, entities.RuleDerivationProof, entities.OutcomePass,
		fmt.Sprintf("found %s", s.proofFile))
}

// CheckDistArtifacts passes when both a wheel and an sdist are present
func (s *gateService) CheckDistArtifacts(pkg *entities.Package, dist *entities.DistArtifacts) entities.CheckResult {
	if dist == nil || !dist.DirExists {
		dir := s.DistDir(pkg)
		if dist != nil && dist.Dir != "" {
			dir = dist.Dir
		}
		return entities.NewCheckResult(pkg.Name, entities.RuleDistArtifacts, entities.OutcomeFail,
			fmt.Sprintf("dist directory not found: %s", dir))
	}

	if missing := dist.Missing(); len(missing) > 0 {
		return entities.NewCheckResult(pkg.Name, entities.RuleDistArtifacts, entities.OutcomeFail,
			fmt.Sprintf("missing distribution artifacts: %s", strings.Join(missing, ", ")))
	}

	return entities.NewCheckResult(pkg.Name, entities.RuleDistArtifacts, entities.OutcomePass,
		fmt.Sprintf("wheel %s and sdist %s present", dist.Wheel.File, dist.SDist.File))
}

// CheckVersionSync passes when the package tracks the bundle's major.minor.
// Patch-level drift is tolerated.
func (s *gateService) CheckVersionSync(pkg *entities.Package, bundleVersion string) entities.CheckResult {
	pkgTrack := ReleaseTrack(pkg.Version)
	bundleTrack := ReleaseTrack(bundleVersion)

	if pkgTrack != "" && pkgTrack == bundleTrack {
		return entities.NewCheckResult(pkg.Name, entities.RuleVersionSync, entities.OutcomePass,
			fmt.Sprintf("version %s tracks bundle %s", pkg.Version, bundleVersion))
	}
	return entities.NewCheckResult(pkg.Name, entities.RuleVersionSync, entities.OutcomeFail,
		fmt.Sprintf("version %s does not track bundle %s (major.minor %s != %s)",
			pkg.Version, bundleVersion, pkgTrack, bundleTrack))
}
