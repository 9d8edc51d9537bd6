package gateways

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// DistInspector locates wheel and sdist archives in a dist directory
type DistInspector struct{}

// NewDistInspector creates a new dist inspector
func NewDistInspector() *DistInspector {
	return &DistInspector{}
}

// Inspect lists distDir (non-recursive) and selects the first wheel and the
// first sdist in lexical order. A missing directory is reported through
// DirExists, not as an error.
func (i *DistInspector) Inspect(ctx context.Context, distDir string) (*entities.DistArtifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dist := &entities.DistArtifacts{Dir: distDir}

	info, err := os.Stat(distDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dist, nil
		}
		return nil, fmt.Errorf("failed to stat dist directory %s: %w", distDir, err)
	}
	if !info.IsDir() {
		return dist, nil
	}

	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dist directory %s: %w", distDir, err)
	}
	dist.DirExists = true

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		switch {
		case strings.HasSuffix(name, entities.WheelSuffix):
			if dist.Wheel == nil {
				dist.Wheel = &entities.DistFile{Path: filepath.Join(distDir, name), File: name}
			}
		case strings.HasSuffix(name, entities.SDistSuffix):
			if dist.SDist == nil {
				dist.SDist = &entities.DistFile{Path: filepath.Join(distDir, name), File: name}
			}
		}
	}

	return dist, nil
}
