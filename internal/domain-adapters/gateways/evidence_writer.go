package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/gateways"
)

// Evidence file names, relative to the output directory
const (
	PublishSetFile = "pypi-set.json"
	GateReportFile = "pypi-gate-report.json"
)

// EvidenceWriter writes the publish set and gate report as pretty-printed JSON
type EvidenceWriter struct {
	outputDir string
	signer    gateways.ReportSigner
}

// NewEvidenceWriter creates a writer rooted at outputDir. signer may be nil.
func NewEvidenceWriter(outputDir string, signer gateways.ReportSigner) *EvidenceWriter {
	return &EvidenceWriter{
		outputDir: outputDir,
		signer:    signer,
	}
}

// WriteEvidence persists both evidence files, creating the output directory
// as needed, and signs the report when a signer is configured
func (w *EvidenceWriter) WriteEvidence(ctx context.Context, set *entities.PublishSet, report *entities.GateReport) (*gateways.EvidencePaths, error) {
	if err := os.MkdirAll(w.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory %s: %w", w.outputDir, err)
	}

	paths := &gateways.EvidencePaths{
		PublishSet: filepath.Join(w.outputDir, PublishSetFile),
		Report:     filepath.Join(w.outputDir, GateReportFile),
	}

	if err := writeJSON(paths.PublishSet, set); err != nil {
		return nil, err
	}
	if err := writeJSON(paths.Report, report); err != nil {
		return nil, err
	}

	if w.signer != nil {
		sigPath, err := w.signer.SignFile(ctx, paths.Report)
		if err != nil {
			return nil, fmt.Errorf("failed to sign gate report: %w", err)
		}
		paths.Signature = sigPath
	}

	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	//nolint:gosec // G306: evidence files are meant to be world-readable
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
