package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/apina/pkg/value"
)

// ErrInvalidSchemaFile is returned when a schema file is not a mapping of
// type names to attribute definitions.
var ErrInvalidSchemaFile = errors.New("invalid schema file")

// TypeSchema is one resource type from a schema file.
type TypeSchema struct {
	Name       string
	Definition *value.Object
}

// LoadSchemas reads a YAML or JSON schema file. Types and their attributes
// are returned in file order.
func LoadSchemas(path string) ([]TypeSchema, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var root value.Value
	if isYAML(path) {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		root, err = fromNode(&doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	} else {
		root, err = value.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w in file %s: %v", ErrInvalidJSON, path, err)
		}
	}

	types, ok := root.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level must map type names to definitions", ErrInvalidSchemaFile, path)
	}

	out := make([]TypeSchema, 0, types.Len())
	var bad error
	types.Range(func(name string, v value.Value) bool {
		def, ok := v.(*value.Object)
		if !ok || name == "" {
			bad = fmt.Errorf("%w: %s: type %q must map attribute names to definitions", ErrInvalidSchemaFile, path, name)
			return false
		}
		out = append(out, TypeSchema{Name: name, Definition: def})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}

// fromNode converts a YAML node tree into a Value, keeping mapping order.
func fromNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		obj := value.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if k.Tag == "!!merge" {
				return nil, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			item, err := fromNode(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, item)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make(value.List, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.FromAny(v), nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}
