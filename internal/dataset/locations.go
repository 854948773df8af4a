// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// ReadLocations loads a locations.json file. Records keep file order. A
// record without a name, with a negative population or with an unknown
// development level is rejected with its index.
func ReadLocations(path string) ([]types.LocationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locations: %w", err)
	}
	var locs []types.LocationRecord
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, l := range locs {
		switch {
		case l.Name == "":
			return nil, fmt.Errorf("%s: location %d has no name", path, i)
		case l.Population < 0:
			return nil, fmt.Errorf("%s: location %d (%s) has negative population %d", path, i, l.Name, l.Population)
		case !l.DevelopmentLevel.Valid():
			return nil, fmt.Errorf("%s: location %d (%s) has development level %q", path, i, l.Name, l.DevelopmentLevel)
		}
	}
	return locs, nil
}

// WriteLocations writes locs as indented JSON. The file is written to a
// temp path and renamed, so readers never see a partial dataset.
func WriteLocations(path string, locs []types.LocationRecord) error {
	if locs == nil {
		locs = []types.LocationRecord{}
	}
	data, err := json.MarshalIndent(locs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding locations: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".locations-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing locations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
