package memory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed modern.yaml
var modernYAML []byte

// GraphFile is the on-disk layout of a graph: a list of vertices and a list of
// edges, each entry decoded into domain.Vertex or domain.Edge.
type GraphFile struct {
	Vertices []map[string]any `yaml:"vertices" json:"vertices"`
	Edges    []map[string]any `yaml:"edges" json:"edges"`
}

// Modern returns a fresh copy of the six vertex "modern" toy graph.
func Modern() *Graph {
	g, err := ParseGraph(modernYAML, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded modern graph: %v", err))
	}
	return g
}

// LoadGraph reads a graph file (YAML, or JSON by extension).
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return ParseGraph(data, filepath.Ext(path))
}

// ParseGraph decodes data as JSON when ext is ".json" and as YAML otherwise.
func ParseGraph(data []byte, ext string) (*Graph, error) {
	var file GraphFile
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse graph json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse graph yaml: %w", err)
		}
	}

	g := NewGraph()
	for i, raw := range file.Vertices {
		var v domain.Vertex
		if err := decode(raw, &v); err != nil {
			return nil, fmt.Errorf("vertex #%d: %w", i, err)
		}
		if err := g.AddVertex(&v); err != nil {
			return nil, err
		}
	}
	for i, raw := range file.Edges {
		var e domain.Edge
		if err := decode(raw, &e); err != nil {
			return nil, fmt.Errorf("edge #%d: %w", i, err)
		}
		if err := g.AddEdge(&e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
