package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/ochairo/pypi-gate/internal/domain/entities"
)

// Evidence documents the schema command can describe
const (
	schemaReport     = "report"
	schemaPublishSet = "publish-set"
)

// NewSchemaCommand prints the JSON Schema of an evidence file
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <report|publish-set>",
		Short:     "Print the JSON Schema of an evidence file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{schemaReport, schemaPublishSet},
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := evidenceSchema(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func evidenceSchema(name string) (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	switch name {
	case schemaReport:
		s := r.Reflect(&entities.GateReport{})
		s.Title = "pypi-gate-report.json"
		return s, nil
	case schemaPublishSet:
		s := r.Reflect(&entities.PublishSet{})
		s.Title = "pypi-set.json"
		return s, nil
	default:
		return nil, fmt.Errorf("unknown evidence document %q (want %s or %s)", name, schemaReport, schemaPublishSet)
	}
}
