// Package gateways defines contracts for filesystem-facing gate operations.
package gateways

import (
	"context"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// Hasher computes content digests for evidence
type Hasher interface {
	// HashFile returns the hex digest of a file, or "" with a nil error when
	// the file does not exist
	HashFile(ctx context.Context, path string) (string, error)
}

// DistInspector lists the distribution archives of a package
type DistInspector interface {
	Inspect(ctx context.Context, distDir string) (*entities.DistArtifacts, error)
}

// EvidenceWriter persists the publish set and gate report
type EvidenceWriter interface {
	WriteEvidence(ctx context.Context, set *entities.PublishSet, report *entities.GateReport) (*EvidencePaths, error)
}

// EvidencePaths are the files written by an EvidenceWriter
type EvidencePaths struct {
	PublishSet string
	Report     string
	Signature  string
}

// ReportSigner produces a detached signature for a written report
type ReportSigner interface {
	SignFile(ctx context.Context, path string) (string, error)
}

// MetricsExporter records gate metrics after a run
type MetricsExporter interface {
	Export(report *entities.GateReport, set *entities.PublishSet) error
}
