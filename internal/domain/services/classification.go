package services

import (
	"strings"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// Classify derives a package category from its manifest flags.
// ci_only takes precedence over internal; no flag means PUBLIC.
func Classify(ciOnly, internal bool) entities.Category {
	switch {
	case ciOnly:
		return entities.CategoryCIOnly
	case internal:
		return entities.CategoryInternal
	default:
		return entities.CategoryPublic
	}
}

// ReleaseTrack projects a version onto its leading two dot-separated
// components ("2.1.7" -> "2.1", "3" -> "3")
func ReleaseTrack(version string) string {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".")
}
