// Package loader reads knowledge graph documents from YAML or JSON files.
//
// A document is one graph, a list of graphs, or a mapping with a "graphs" key.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"clms/internal/knowledgegraph/models"
)

type document struct {
	Graphs []*models.Graph `yaml:"graphs"`
}

// LoadFile reads and validates every graph in path.
func LoadFile(path string) ([]*models.Graph, error) {
	return readFile(path, Decode)
}

// ParseFile reads every graph in path without validating them.
func ParseFile(path string) ([]*models.Graph, error) {
	return readFile(path, Parse)
}

func readFile(path string, decode func(io.Reader) ([]*models.Graph, error)) ([]*models.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	graphs, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return graphs, nil
}

// Decode parses and validates graphs from r.
func Decode(r io.Reader) ([]*models.Graph, error) {
	graphs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	for _, g := range graphs {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return graphs, nil
}

// Parse decodes graphs from r. JSON input is accepted as YAML.
func Parse(r io.Reader) ([]*models.Graph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse graph document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("parse graph document: empty document")
	}
	node := root.Content[0]

	var graphs []*models.Graph
	switch {
	case node.Kind == yaml.SequenceNode:
		err = node.Decode(&graphs)
	case node.Kind == yaml.MappingNode && hasKey(node, "graphs"):
		var doc document
		err = node.Decode(&doc)
		graphs = doc.Graphs
	case node.Kind == yaml.MappingNode:
		var g models.Graph
		err = node.Decode(&g)
		graphs = []*models.Graph{&g}
	default:
		return nil, fmt.Errorf("parse graph document: unexpected %s at line %d", kindName(node.Kind), node.Line)
	}
	if err != nil {
		return nil, fmt.Errorf("decode graphs: %w", err)
	}
	return graphs, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}
