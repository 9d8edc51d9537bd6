// Package services defines interfaces for domain service contracts.
package services

import (
	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// GateService defines the four publish-gate rules.
// Every check is pure with respect to its inputs apart from the proof lookup,
// and always returns exactly one CheckResult.
type GateService interface {
	// Gatekeeping rule: runs first, a FAIL excludes the package from everything else
	CheckClassification(pkg *entities.Package) entities.CheckResult

	// Publish-readiness rules: all three always run for an admitted package
	CheckDerivationProof(pkg *entities.Package) entities.CheckResult
	CheckDistArtifacts(pkg *entities.Package, dist *entities.DistArtifacts) entities.CheckResult
	CheckVersionSync(pkg *entities.Package, bundleVersion string) entities.CheckResult

	// Paths consulted by the rules
	ProofPath(pkg *entities.Package) string
	DistDir(pkg *entities.Package) string
}
