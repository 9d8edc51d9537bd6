// Package manifest loads package and bundle manifests from the release tree.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PackageManifestFile is the per-package manifest name
const PackageManifestFile = "pyproject.toml"

// PyProject holds the pyproject.toml fields the gate consumes
type PyProject struct {
	Project PyProjectProject `toml:"project"`
	Tool    PyProjectTool    `toml:"tool"`
}

// PyProjectProject is the [project] table
type PyProjectProject struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// PyProjectTool is the [tool] table
type PyProjectTool struct {
	MPLP MPLPFlags `toml:"mplp"`
}

// MPLPFlags is the [tool.mplp] table carrying category overrides
type MPLPFlags struct {
	CIOnly   bool `toml:"ci_only"`
	Internal bool `toml:"internal"`
}

// LoadPackageManifest parses a pyproject.toml. A missing file returns
// (nil, nil); a malformed one returns a *ParseError.
func LoadPackageManifest(path string) (*PyProject, error) {
	//nolint:gosec // G304: path is a discovered manifest inside the packages root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var manifest PyProject
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &manifest, nil
}
