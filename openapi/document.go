// Package openapi loads OpenAPI 3 documents and enumerates the named schemas that need lowering.
package openapi

import (
	"fmt"
	"os"

	"github.com/bluesky-social/oapigen/schema"

	"gopkg.in/yaml.v3"
)

type Document struct {
	OpenAPI    string               `yaml:"openapi"`
	Info       Info                 `yaml:"info"`
	Paths      map[string]*PathItem `yaml:"paths,omitempty"`
	Components *Components          `yaml:"components,omitempty"`
}

type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type Components struct {
	Schemas   map[string]*schema.Node `yaml:"schemas,omitempty"`
	Responses map[string]*Response    `yaml:"responses,omitempty"`
}

type PathItem struct {
	Get     *Operation `yaml:"get,omitempty"`
	Put     *Operation `yaml:"put,omitempty"`
	Post    *Operation `yaml:"post,omitempty"`
	Delete  *Operation `yaml:"delete,omitempty"`
	Options *Operation `yaml:"options,omitempty"`
	Head    *Operation `yaml:"head,omitempty"`
	Patch   *Operation `yaml:"patch,omitempty"`
	Trace   *Operation `yaml:"trace,omitempty"`
}

// methodOperation pairs an HTTP method with its operation.
type methodOperation struct {
	Method    string
	Operation *Operation
}

// Operations returns the operations of the path item in a fixed method order.
func (p *PathItem) Operations() []methodOperation {
	var out []methodOperation
	for _, mo := range []methodOperation{
		{"get", p.Get},
		{"put", p.Put},
		{"post", p.Post},
		{"delete", p.Delete},
		{"options", p.Options},
		{"head", p.Head},
		{"patch", p.Patch},
		{"trace", p.Trace},
	} {
		if mo.Operation != nil {
			out = append(out, mo)
		}
	}
	return out
}

type Operation struct {
	OperationID string               `yaml:"operationId,omitempty"`
	Summary     string               `yaml:"summary,omitempty"`
	Responses   map[string]*Response `yaml:"responses,omitempty"`
}

type Response struct {
	Ref         string                `yaml:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *schema.Node `yaml:"schema,omitempty"`
}

// Parse decodes an OpenAPI document from YAML or JSON.
func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	if doc.OpenAPI == "" {
		return nil, fmt.Errorf("not an openapi 3 document: missing \"openapi\" version field")
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
