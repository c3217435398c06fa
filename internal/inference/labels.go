// Package inference turns an uploaded crop image into ranked plant-disease
// labels using an external model server.
package inference

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// labelEntry is one class in the labels file. Extra metadata such as cause
// or cure text is ignored.
type labelEntry struct {
	Name string `yaml:"name"`
}

// ParseLabels reads a JSON or YAML list of objects carrying a name. JSON is
// accepted because it is valid YAML.
func ParseLabels(data []byte) ([]string, error) {
	var entries []labelEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("labels file is empty")
	}

	labels := make([]string, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("label %d has no name", i)
		}
		labels[i] = name
	}
	return labels, nil
}

// LoadLabels reads the labels file at path.
func LoadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return ParseLabels(data)
}
