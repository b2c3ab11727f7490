package edit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a list of edits applied in order.
type Script struct {
	Commands []Command `yaml:"commands"`
}

// LoadScript reads a YAML edit script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML edit script and checks every command is well
// formed.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, cmd := range s.Commands {
		if err := cmd.validate(); err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
	}
	return &s, nil
}
