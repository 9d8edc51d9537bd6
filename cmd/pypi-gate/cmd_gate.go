package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ochairo/pypi-gate/internal/config"
	"github.com/ochairo/pypi-gate/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/pypi-gate/internal/domain-orchestrators"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces"
	gatewayports "github.com/ochairo/pypi-gate/internal/domain/interfaces/gateways"
	"github.com/ochairo/pypi-gate/internal/domain/services"
	"github.com/ochairo/pypi-gate/internal/external-adapters/gpg"
	"github.com/ochairo/pypi-gate/internal/external-adapters/manifest"
	"github.com/ochairo/pypi-gate/internal/external-adapters/metrics"
	"github.com/ochairo/pypi-gate/internal/external-adapters/zaplog"
)

func runGate(ctx context.Context, rt *runtimeState, out io.Writer) error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if rt.root != "" {
		cfg.Root = rt.root
	}

	level := cfg.Log.Level
	if rt.debug {
		level = "debug"
	}
	logger, err := zaplog.New(level, cfg.Log.Development || rt.debug)
	if err != nil {
		return err
	}
	//nolint:errcheck // Best-effort flush of stderr logger
	defer logger.Sync()

	orch, err := newGateOrchestrator(cfg, logger, out)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Error("gate run aborted", interfaces.F("error", err))
		return err
	}

	if result.ExitCode() != orchestrators.ExitPass {
		return &gateFailedError{violations: len(result.Report.Violations)}
	}
	return nil
}

// newGateOrchestrator wires the adapters selected by cfg
func newGateOrchestrator(cfg *config.Config, logger interfaces.Logger, out io.Writer) (*orchestrators.GateOrchestrator, error) {
	var signer gatewayports.ReportSigner
	if keyPath := cfg.SigningKeyPath(); keyPath != "" {
		s, err := gpg.NewSignerFromFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}
		logger.Info("signing gate report", interfaces.F("fingerprint", s.Fingerprint()))
		signer = s
	}

	var exporter gatewayports.MetricsExporter
	if path := cfg.MetricsPath(); path != "" {
		exporter = metrics.NewTextfileExporter(path)
	}

	deps := orchestrators.GateDependencies{
		Packages: manifest.NewPackageRepository(cfg.PackagesPath()),
		Bundles:  manifest.NewBundleRepository(cfg.BundleManifestPath()),
		Gate:     services.NewGateService(cfg.ProofFile, cfg.DistDir),
		Dist:     gateways.NewDistInspector(),
		Hasher:   gateways.NewChecksumHasher(),
		Evidence: gateways.NewEvidenceWriter(cfg.OutputPath(), signer),
		Metrics:  exporter,
		Logger:   logger,
		Out:      out,
	}

	return orchestrators.NewGateOrchestrator(deps, orchestrators.GateOrchestratorConfig{
		DefaultBundleVersion: cfg.DefaultBundleVersion,
		UnparseableManifest:  cfg.Policy.UnparseableManifest,
		BundleFallback:       cfg.Policy.BundleFallback,
	}), nil
}
