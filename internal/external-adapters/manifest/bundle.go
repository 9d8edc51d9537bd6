package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ochairo/pypi-gate/internal/domain/interfaces/repositories"
)

// BundleManifestFile is the release bundle manifest name
const BundleManifestFile = "RELEASE_BUNDLE_MANIFEST.json"

// LoadBundleManifest parses the release bundle manifest. A missing file
// returns (nil, nil); a malformed one returns a *ParseError.
func LoadBundleManifest(path string) (*repositories.BundleManifest, error) {
	//nolint:gosec // G304: path is the configured bundle manifest location
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var manifest repositories.BundleManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &manifest, nil
}

// BundleRepository implements repositories.BundleRepository over a JSON file
type BundleRepository struct {
	path string
}

// NewBundleRepository creates a repository reading the manifest at path
func NewBundleRepository(path string) *BundleRepository {
	return &BundleRepository{path: path}
}

// LoadBundleManifest loads the configured bundle manifest
func (r *BundleRepository) LoadBundleManifest(ctx context.Context) (*repositories.BundleManifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadBundleManifest(r.path)
}
