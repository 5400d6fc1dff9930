package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for script loading.
var (
	ErrFileNotFound     = errors.New("script file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
)

// ParseJSON parses and validates a script from JSON bytes. Empty input and a
// JSON null both yield an empty, immediately-done script.
func ParseJSON(data []byte) (*Script, error) {
	if len(data) == 0 {
		return &Script{}, nil
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return FromData(raw)
}

// ParseYAML parses and validates a script from YAML bytes. An empty document
// yields an empty, immediately-done script.
func ParseYAML(data []byte) (*Script, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return FromData(raw)
}

// LoadJSONFile reads and parses a JSON script file.
func LoadJSONFile(path string) (*Script, error) {
	data, err := readScriptFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// LoadYAMLFile reads and parses a YAML script file.
func LoadYAMLFile(path string) (*Script, error) {
	data, err := readScriptFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// LoadFile reads a script file, detecting the format from the file extension
// (.yaml and .yml are YAML, anything else is JSON).
func LoadFile(path string) (*Script, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return LoadYAMLFile(path)
	}
	return LoadJSONFile(path)
}

func readScriptFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return data, nil
}
