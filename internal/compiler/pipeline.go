// Package compiler turns pipeline definitions into traversals.
package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Pipeline is a declarative traversal definition.
type Pipeline struct {
	Name        string    `mapstructure:"name"`
	Description string    `mapstructure:"description"`
	Mode        string    `mapstructure:"mode"`
	Starts      []any     `mapstructure:"starts"`
	Steps       []StepDef `mapstructure:"steps"`
}

// StepDef describes one step. Only the fields the named step reads are used.
type StepDef struct {
	Step string `mapstructure:"step"`
	As   string `mapstructure:"as"`

	IDs       []any    `mapstructure:"ids"`
	Labels    []string `mapstructure:"labels"`
	Keys      []string `mapstructure:"keys"`
	Key       string   `mapstructure:"key"`
	Predicate string   `mapstructure:"predicate"`
	Value     any      `mapstructure:"value"`
	Values    []any    `mapstructure:"values"`

	// By names a registered map function, Filter a registered filter.
	By     string         `mapstructure:"by"`
	Filter string         `mapstructure:"filter"`
	Args   map[string]any `mapstructure:"args"`

	// Branch keys keep their YAML scalar type, so 29 and "29" differ.
	Branches map[any][]StepDef `mapstructure:"branches"`
	Then     []StepDef         `mapstructure:"then"`
	Else     []StepDef         `mapstructure:"else"`

	Low  int64 `mapstructure:"low"`
	High int64 `mapstructure:"high"`
	N    int64 `mapstructure:"n"`
}

// Load reads a pipeline file. Files ending in .json are read as JSON,
// anything else as YAML.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a pipeline document. Unknown fields are rejected.
func Parse(data []byte, ext string) (*Pipeline, error) {
	var raw map[string]any
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse pipeline: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline: %w", err)
	}

	var p Pipeline
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline: %w", err)
	}
	return &p, nil
}
