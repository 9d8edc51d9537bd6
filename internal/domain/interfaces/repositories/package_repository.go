// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// Candidate is a discovered package directory. Exactly one of Package and Err
// is set: Err carries the manifest parse failure for that directory.
type Candidate struct {
	Dir     string
	Package *entities.Package
	Err     error
}

// PackageRepository discovers candidate packages
type PackageRepository interface {
	// Discover returns every directory holding a package manifest, in
	// deterministic order. Per-package parse failures are reported on the
	// candidate, not as the returned error.
	Discover(ctx context.Context) ([]Candidate, error)
}

// BundleManifest is the release bundle description
type BundleManifest struct {
	BundleVersion string `json:"bundle_version"`
}

// BundleRepository loads the release bundle manifest
type BundleRepository interface {
	// LoadBundleManifest returns nil without error when no manifest exists
	LoadBundleManifest(ctx context.Context) (*BundleManifest, error)
}
