package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSpecFilename is the default site description filename.
const DefaultSpecFilename = "site.yaml"

// LoadSpec loads and validates a site description from a file.
func LoadSpec(path string) (*SiteSpec, error) {
	spec, err := LoadSpecWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("site validation failed: %w", err)
	}

	return spec, nil
}

// LoadSpecWithoutValidation loads a site description from a file without validation.
func LoadSpecWithoutValidation(path string) (*SiteSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file: %w", err)
	}

	return parseSpec(data)
}

// LoadSpecFromBytes loads and validates a site description from bytes.
func LoadSpecFromBytes(data []byte) (*SiteSpec, error) {
	spec, err := parseSpec(data)
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("site validation failed: %w", err)
	}

	return spec, nil
}

func parseSpec(data []byte) (*SiteSpec, error) {
	var spec SiteSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &spec, nil
}
