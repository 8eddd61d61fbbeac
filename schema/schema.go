// Package schema holds the resolved JSON-Schema nodes that are handed to the lowering core.
//
// Nodes are decoded from YAML (which also accepts JSON documents). Reference resolution happens
// elsewhere: a Node that still carries a Ref is not ready for lowering.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypeSet is the ordered set of categories a node declares. A single `type: string` decodes to a
// one element set; `type: [string, "null"]` keeps the given order.
type TypeSet []Category

func (ts TypeSet) Multiple() bool {
	return len(ts) > 1
}

func (ts TypeSet) Contains(c Category) bool {
	for _, v := range ts {
		if v == c {
			return true
		}
	}
	return false
}

// add appends c unless it is already present.
func (ts TypeSet) add(c Category) TypeSet {
	if ts.Contains(c) {
		return ts
	}
	return append(ts, c)
}

func (ts *TypeSet) UnmarshalYAML(value *yaml.Node) error {
	var raw []string
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		raw = []string{s}
	case yaml.SequenceNode:
		if err := value.Decode(&raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: schema type must be a string or a list of strings", value.Line)
	}

	var out TypeSet
	for _, s := range raw {
		c, err := ParseCategory(s)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		out = out.add(c)
	}
	*ts = out
	return nil
}

func (ts TypeSet) MarshalYAML() (any, error) {
	if len(ts) == 1 {
		return ts[0].String(), nil
	}
	out := make([]string, len(ts))
	for i, c := range ts {
		out[i] = c.String()
	}
	return out, nil
}

// Node is one schema object. Only the scalar fields are consumed by lowering; Items and
// Properties are decoded so that collaborators can walk them.
type Node struct {
	Ref         string           `yaml:"$ref,omitempty"`
	Types       TypeSet          `yaml:"type,omitempty"`
	Format      string           `yaml:"format,omitempty"`
	Title       string           `yaml:"title,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Nullable    bool             `yaml:"nullable,omitempty"`
	Const       any              `yaml:"const,omitempty"`
	Enum        []any            `yaml:"enum,omitempty"`
	Items       *Node            `yaml:"items,omitempty"`
	Properties  map[string]*Node `yaml:"properties,omitempty"`
	Required    []string         `yaml:"required,omitempty"`

	hasConst bool
}

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = Node(p)

	// `const: null` decodes to a nil Const, so presence is tracked from the mapping keys
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i].Value == "const" {
				n.hasConst = true
			}
		}
	}
	return nil
}

// HasConst reports whether the node declared a `const` keyword, including `const: null`.
func (n *Node) HasConst() bool {
	return n.hasConst || n.Const != nil
}

// Categories returns the declared categories, with Null appended for OpenAPI 3.0 `nullable: true`.
func (n *Node) Categories() TypeSet {
	out := append(TypeSet(nil), n.Types...)
	if n.Nullable {
		out = out.add(Null)
	}
	return out
}

// Doc is the human readable text attached to the node: the description, or the title when no
// description is present.
func (n *Node) Doc() string {
	if n.Description != "" {
		return n.Description
	}
	return n.Title
}

// Parse decodes a single schema node from YAML or JSON bytes.
func Parse(b []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return &n, nil
}
