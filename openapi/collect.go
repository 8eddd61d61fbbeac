package openapi

import (
	"fmt"
	"sort"

	"github.com/bluesky-social/oapigen/schema"
)

// NamedSchema is one type that needs lowering, with the name chosen for it and where it came from.
type NamedSchema struct {
	Name   string
	Node   *schema.Node
	Origin string
}

// Collect walks the document and returns every named schema to lower: response bodies of each
// operation first, then component schemas. Ordering is deterministic (paths, statuses, media
// types and component names are sorted).
func Collect(doc *Document) ([]NamedSchema, error) {
	r := NewResolver(doc)

	out, err := collectRoutes(r, doc)
	if err != nil {
		return nil, err
	}

	if doc.Components != nil {
		for _, name := range sortedKeys(doc.Components.Schemas) {
			node, err := r.Schema(doc.Components.Schemas[name])
			if err != nil {
				return nil, fmt.Errorf("components.schemas.%s: %w", name, err)
			}
			out = append(out, NamedSchema{
				Name:   UpperCamel(name),
				Node:   node,
				Origin: "components.schemas." + name,
			})
		}
	}
	return out, nil
}

func collectRoutes(r *Resolver, doc *Document) ([]NamedSchema, error) {
	var out []NamedSchema
	for _, route := range sortedKeys(doc.Paths) {
		item := doc.Paths[route]
		if item == nil {
			continue
		}
		for _, mo := range item.Operations() {
			opName := OperationName(mo.Method, route, mo.Operation)
			for _, status := range sortedKeys(mo.Operation.Responses) {
				resp, err := r.Response(mo.Operation.Responses[status])
				if err != nil {
					return nil, fmt.Errorf("%s %s response %s: %w", mo.Method, route, status, err)
				}
				if resp == nil {
					continue
				}
				name := ResponseName(opName, status)
				for _, mediaType := range sortedKeys(resp.Content) {
					mt := resp.Content[mediaType]
					if mt == nil || mt.Schema == nil {
						continue
					}
					node, err := r.Schema(mt.Schema)
					if err != nil {
						return nil, fmt.Errorf("%s %s response %s (%s): %w", mo.Method, route, status, mediaType, err)
					}
					out = append(out, NamedSchema{
						Name:   name,
						Node:   node,
						Origin: fmt.Sprintf("%s %s responses.%s %s", mo.Method, route, status, mediaType),
					})
				}
			}
		}
	}
	return out, nil
}

// OperationName is the operationId in UpperCamelCase, or the method followed by the path when the
// operation has no id.
func OperationName(method, route string, op *Operation) string {
	if op != nil && op.OperationID != "" {
		return UpperCamel(op.OperationID)
	}
	return UpperCamel(method) + UpperCamel(route)
}

// ResponseName names the body of one response: "{Operation}Response{Status}".
func ResponseName(operation, status string) string {
	return UpperCamel(operation) + "Response" + UpperCamel(status)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
