// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/obeidat/sooqlink/pkg/types"
)

// resultDoc is the on-disk form of a resolution result. Status serializes
// as its string name so the file stays readable without the enum table.
type resultDoc struct {
	Status string `yaml:"status"`

	types.ResolutionResult `yaml:",inline"`
}

// WriteResultFile writes the resolution result to path as YAML.
func WriteResultFile(path string, res types.ResolutionResult) error {
	data, err := yaml.Marshal(resultDoc{Status: res.Status.String(), ResolutionResult: res})
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

// ReadResultFile reads a result file written by WriteResultFile. The status
// string is informational and is not mapped back onto the enum.
func ReadResultFile(path string) (types.ResolutionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResolutionResult{}, fmt.Errorf("reading result file: %w", err)
	}
	var doc resultDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.ResolutionResult{}, fmt.Errorf("parsing result file: %w", err)
	}
	return doc.ResolutionResult, nil
}
