package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// runtimeState carries persistent flag values with env fallbacks applied
type runtimeState struct {
	configPath string
	root       string
	debug      bool
}

// gateFailedError signals a completed run whose gate status is FAIL
type gateFailedError struct {
	violations int
}

func (e *gateFailedError) Error() string {
	return fmt.Sprintf("publish gate failed with %d violation(s)", e.violations)
}

// NewRootCommand builds the pypi-gate command tree. Running the root command
// with no arguments evaluates the gate against the current directory.
func NewRootCommand() *cobra.Command {
	rt := &runtimeState{}

	root := &cobra.Command{
		Use:   "pypi-gate",
		Short: "PyPI publish gate: decide whether packages may be released",
		Long: `pypi-gate checks every package under packages/pypi against the publish
policy and writes evidence to artifacts/release.

Exit Codes:
  0  PASS: all packages may be published
  1  FAIL: at least one violation (not waivable)
  2  Usage error or system error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if rt.configPath == "" {
				rt.configPath = os.Getenv("PYPI_GATE_CONFIG")
			}
			if rt.root == "" {
				rt.root = os.Getenv("PYPI_GATE_ROOT")
			}
			if !rt.debug {
				rt.debug = strings.EqualFold(os.Getenv("PYPI_GATE_DEBUG"), "true")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGate(cmd.Context(), rt, cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "Path to gate config file (YAML)")
	root.PersistentFlags().StringVar(&rt.root, "root", "", "Release tree root (overrides config)")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		NewSchemaCommand(),
		NewVersionCommand(),
	)

	return root
}
