package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Descriptor identifies a deployed registry instance. Front-ends and resolver
// proxies read it, so the JSON field names must not change.
type Descriptor struct {
	Address     string `json:"address"`
	NetworkID   string `json:"network_id"`
	NetworkName string `json:"network_name"`
	URL         string `json:"url"`
}

func ReadDescriptor(path string) (Descriptor, error) {
	var d Descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing descriptor %s: %w", path, err)
	}
	return d, nil
}

func WriteDescriptor(path string, d Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
