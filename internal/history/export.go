// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes every archived run, full responses included, to path.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every archived run, full responses included, to path.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context) ([]Run, error) {
	listed, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	runs := make([]Run, len(listed))
	for i, r := range listed {
		full, err := s.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		runs[i] = *full
	}
	return runs, nil
}
