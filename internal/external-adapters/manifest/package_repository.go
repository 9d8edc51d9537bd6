package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
	"github.com/ochairo/pypi-gate/internal/domain/interfaces/repositories"
	"github.com/ochairo/pypi-gate/internal/domain/services"
)

// fallbackVersion is used when a manifest declares no project.version
const fallbackVersion = "0.0.0"

// PackageRepository implements repositories.PackageRepository over a
// directory of package directories, each holding a pyproject.toml
type PackageRepository struct {
	packagesDir string
}

// NewPackageRepository creates a repository scanning packagesDir
func NewPackageRepository(packagesDir string) *PackageRepository {
	return &PackageRepository{packagesDir: packagesDir}
}

// Discover returns one candidate per subdirectory containing a package
// manifest, in lexical order. A missing packages directory yields no
// candidates. Manifest parse failures are attached to the candidate.
func (r *PackageRepository) Discover(ctx context.Context) ([]repositories.Candidate, error) {
	entries, err := os.ReadDir(r.packagesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []repositories.Candidate{}, nil
		}
		return nil, fmt.Errorf("failed to read packages directory: %w", err)
	}

	candidates := make([]repositories.Candidate, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Stat follows symlinked package directories
		pkgDir := filepath.Join(r.packagesDir, entry.Name())
		manifestPath := filepath.Join(pkgDir, PackageManifestFile)
		if info, err := os.Stat(manifestPath); err != nil || info.IsDir() {
			continue
		}

		pkg, err := r.loadPackage(pkgDir, manifestPath)
		candidates = append(candidates, repositories.Candidate{
			Dir:     pkgDir,
			Package: pkg,
			Err:     err,
		})
	}

	return candidates, nil
}

func (r *PackageRepository) loadPackage(pkgDir, manifestPath string) (*entities.Package, error) {
	manifest, err := LoadPackageManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, fmt.Errorf("manifest disappeared: %s", manifestPath)
	}

	name := manifest.Project.Name
	if name == "" {
		name = filepath.Base(pkgDir)
	}
	version := manifest.Project.Version
	if version == "" {
		version = fallbackVersion
	}

	return &entities.Package{
		Name:     name,
		Version:  version,
		Path:     pkgDir,
		Category: services.Classify(manifest.Tool.MPLP.CIOnly, manifest.Tool.MPLP.Internal),
	}, nil
}
