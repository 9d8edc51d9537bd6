package test_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	buildDir  string
	cliBinary string
	buildErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if buildDir != "" {
		_ = os.RemoveAll(buildDir)
	}
	os.Exit(code)
}

// buildCLI builds the pypi-gate CLI binary once per test process
func buildCLI(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		buildDir, buildErr = os.MkdirTemp("", "pypi-gate-cli-")
		if buildErr != nil {
			return
		}
		cliBinary = filepath.Join(buildDir, "pypi-gate")

		cmd := exec.Command("go", "build", "-o", cliBinary, "../cmd/pypi-gate") // #nosec G204 -- test code with controlled input
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("%w\nOutput: %s", err, output)
		}
	})

	if buildErr != nil {
		t.Fatalf("Failed to build CLI: %v", buildErr)
	}
	return cliBinary
}

// writeTree lays out files relative to a fresh release root
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	return root
}

func publicPackage(dir, name, version string) map[string]string {
	base := filepath.Join("packages", "pypi", dir)
	return map[string]string{
		filepath.Join(base, "pyproject.toml"):        "[project]\nname = \"" + name + "\"\nversion = \"" + version + "\"\n",
		filepath.Join(base, "DERIVATION_PROOF.yaml"): "derived_from: mplp-protocol\n",
		filepath.Join(base, "dist", name+"-"+version+"-py3-none-any.whl"): "wheel",
		filepath.Join(base, "dist", name+"-"+version+".tar.gz"):           "sdist",
	}
}

func merge(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	t.Fatalf("Failed to run CLI: %v", err)
	return -1
}

// TestCLI_Help tests help output for all commands
func TestCLI_Help(t *testing.T) {
	cliPath := buildCLI(t)

	for _, cmd := range []string{"", "schema", "version"} {
		t.Run("help_"+cmd, func(t *testing.T) {
			args := []string{"--help"}
			if cmd != "" {
				args = []string{cmd, "--help"}
			}

			output, err := exec.Command(cliPath, args...).CombinedOutput() // #nosec G204 -- test code with controlled input
			if code := exitCode(t, err); code != 0 {
				t.Errorf("Help exited with unexpected code: %d", code)
			}
			if !strings.Contains(string(output), "Usage") {
				t.Errorf("Expected usage information in help output:\n%s", output)
			}
		})
	}
}

// TestCLI_Gate runs the gate binary over release trees and checks exit codes and evidence
func TestCLI_Gate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CLI integration test in short mode")
	}

	cliPath := buildCLI(t)
	bundle := map[string]string{
		filepath.Join("artifacts", "release", "RELEASE_BUNDLE_MANIFEST.json"): `{"bundle_version": "1.0.0"}`,
	}

	tests := []struct {
		name       string
		files      map[string]string
		wantCode   int
		wantOutput string
		wantStatus string
	}{
		{
			name:       "public package passes",
			files:      merge(bundle, publicPackage("mplp", "mplp-sdk", "1.0.3")),
			wantCode:   0,
			wantOutput: "PASSED",
			wantStatus: "PASS",
		},
		{
			name: "ci-only package blocks release",
			files: merge(bundle, publicPackage("mplp", "mplp-sdk", "1.0.3"), map[string]string{
				filepath.Join("packages", "pypi", "ci", "pyproject.toml"): "[project]\nname = \"mplp-ci\"\nversion = \"1.0.0\"\n\n[tool.mplp]\nci_only = true\n",
			}),
			wantCode:   1,
			wantOutput: "not waivable",
			wantStatus: "FAIL",
		},
		{
			name:       "version off bundle track fails",
			files:      merge(bundle, publicPackage("mplp", "mplp-sdk", "1.1.0")),
			wantCode:   1,
			wantOutput: "does not track bundle",
			wantStatus: "FAIL",
		},
		{
			name:       "empty tree passes",
			files:      map[string]string{},
			wantCode:   0,
			wantStatus: "PASS",
		},
		{
			name: "malformed bundle manifest aborts",
			files: merge(publicPackage("mplp", "mplp-sdk", "1.0.3"), map[string]string{
				filepath.Join("artifacts", "release", "RELEASE_BUNDLE_MANIFEST.json"): "{",
			}),
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)

			output, err := exec.Command(cliPath, "--root", root).CombinedOutput() // #nosec G204 -- test code with controlled input
			if code := exitCode(t, err); code != tt.wantCode {
				t.Fatalf("Exit code = %d, want %d\nOutput: %s", code, tt.wantCode, output)
			}
			if tt.wantOutput != "" && !strings.Contains(string(output), tt.wantOutput) {
				t.Errorf("Expected %q in output:\n%s", tt.wantOutput, output)
			}
			if tt.wantStatus == "" {
				return
			}

			data, err := os.ReadFile(filepath.Join(root, "artifacts", "release", "pypi-gate-report.json")) // #nosec G304 -- path under test temp dir
			if err != nil {
				t.Fatalf("Failed to read gate report: %v", err)
			}
			var report struct {
				Status     string   `json:"status"`
				Violations []string `json:"violations"`
			}
			if err := json.Unmarshal(data, &report); err != nil {
				t.Fatalf("Invalid gate report JSON: %v", err)
			}
			if report.Status != tt.wantStatus {
				t.Errorf("Report status = %s, want %s", report.Status, tt.wantStatus)
			}
			if (report.Status == "FAIL") != (len(report.Violations) > 0) {
				t.Errorf("Status %s inconsistent with %d violation(s)", report.Status, len(report.Violations))
			}
		})
	}
}

// TestCLI_Schema checks the schema command emits valid JSON Schema documents
func TestCLI_Schema(t *testing.T) {
	cliPath := buildCLI(t)

	for _, doc := range []string{"report", "publish-set"} {
		t.Run(doc, func(t *testing.T) {
			output, err := exec.Command(cliPath, "schema", doc).Output() // #nosec G204 -- test code with controlled input
			if err != nil {
				t.Fatalf("schema %s failed: %v", doc, err)
			}
			var schema map[string]interface{}
			if err := json.Unmarshal(output, &schema); err != nil {
				t.Fatalf("Invalid schema JSON: %v", err)
			}
			if _, ok := schema["properties"]; !ok {
				t.Errorf("Expected properties in %s schema", doc)
			}
		})
	}
}
