package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads feed descriptors from a YAML file. Any problem with the file
// or its contents is a setup error: the run must not start with a partial
// or ambiguous feed list.
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}

	var file feedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds defined in %s", path)
	}

	seen := make(map[string]bool, len(file.Feeds))
	for i, d := range file.Feeds {
		if d.Name == "" {
			return nil, fmt.Errorf("feed at index %d: name is required", i)
		}
		if d.URL == "" {
			return nil, fmt.Errorf("feed '%s': url is required", d.Name)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate feed name '%s'", d.Name)
		}
		seen[d.Name] = true
	}

	return file.Feeds, nil
}
