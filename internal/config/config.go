// Package config loads the gate configuration.
//
// Every field has a default matching the standard release tree layout, so a
// missing configuration file is valid and the gate runs against the current
// directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Policy values for unparseable package manifests
const (
	UnparseableSkip = "skip"
	UnparseableFail = "fail"
)

// Policy values for a missing bundle manifest
const (
	BundleFallbackIgnore = "ignore"
	BundleFallbackWarn   = "warn"
	BundleFallbackFail   = "fail"
)

// DefaultBundleVersion is assumed when no bundle manifest declares one
const DefaultBundleVersion = "1.0.0"

// Config is the gate configuration. Relative paths are resolved against Root.
type Config struct {
	Root                 string         `yaml:"root" validate:"required"`
	PackagesDir          string         `yaml:"packages_dir" validate:"required"`
	BundleManifest       string         `yaml:"bundle_manifest" validate:"required"`
	OutputDir            string         `yaml:"output_dir" validate:"required"`
	DefaultBundleVersion string         `yaml:"default_bundle_version" validate:"required"`
	ProofFile            string         `yaml:"proof_file" validate:"required"`
	DistDir              string         `yaml:"dist_dir" validate:"required"`
	Policy               PolicyConfig   `yaml:"policy"`
	Evidence             EvidenceConfig `yaml:"evidence"`
	Log                  LogConfig      `yaml:"log"`
}

// PolicyConfig decides how ambiguous inputs are reported
type PolicyConfig struct {
	UnparseableManifest string `yaml:"unparseable_manifest" validate:"oneof=skip fail"`
	BundleFallback      string `yaml:"bundle_fallback" validate:"oneof=ignore warn fail"`
}

// EvidenceConfig holds optional evidence outputs
type EvidenceConfig struct {
	SigningKey      string `yaml:"signing_key"`
	MetricsTextfile string `yaml:"metrics_textfile" validate:"omitempty,endswith=.prom"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Root:                 ".",
		PackagesDir:          filepath.Join("packages", "pypi"),
		BundleManifest:       filepath.Join("artifacts", "release", "RELEASE_BUNDLE_MANIFEST.json"),
		OutputDir:            filepath.Join("artifacts", "release"),
		DefaultBundleVersion: DefaultBundleVersion,
		ProofFile:            "DERIVATION_PROOF.yaml",
		DistDir:              "dist",
		Policy: PolicyConfig{
			UnparseableManifest: UnparseableSkip,
			BundleFallback:      BundleFallbackIgnore,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file over the defaults and validates it.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // G304: path is the operator-supplied config file
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, formatYAMLError(path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Resolve returns p joined to Root unless p is absolute
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// PackagesPath is the resolved packages directory
func (c *Config) PackagesPath() string {
	return c.Resolve(c.PackagesDir)
}

// BundleManifestPath is the resolved bundle manifest file
func (c *Config) BundleManifestPath() string {
	return c.Resolve(c.BundleManifest)
}

// OutputPath is the resolved evidence output directory
func (c *Config) OutputPath() string {
	return c.Resolve(c.OutputDir)
}

// SigningKeyPath is the resolved signing key, or "" when signing is disabled
func (c *Config) SigningKeyPath() string {
	return c.Resolve(c.Evidence.SigningKey)
}

// MetricsPath is the resolved metrics textfile, or "" when disabled
func (c *Config) MetricsPath() string {
	return c.Resolve(c.Evidence.MetricsTextfile)
}

func formatYAMLError(path string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "line") {
		return fmt.Errorf("syntax error in %s: %s", path, msg)
	}
	return fmt.Errorf("failed to parse %s: %s", path, msg)
}
