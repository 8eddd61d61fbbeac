package openapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bluesky-social/oapigen/schema"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrExternalRef = errors.New("external references are not supported")
	ErrRefNotFound = errors.New("reference not found")
	ErrRefCycle    = errors.New("reference cycle")
)

const (
	schemaRefPrefix   = "#/components/schemas/"
	responseRefPrefix = "#/components/responses/"

	defaultCacheSize = 1024
)

// Resolver follows local `$ref` pointers inside one document. Only the top level of a node is
// resolved; nested items and properties are left as written.
type Resolver struct {
	doc   *Document
	cache *lru.Cache[string, *schema.Node]
}

func NewResolver(doc *Document) *Resolver {
	cache, err := lru.New[string, *schema.Node](defaultCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Resolver{doc: doc, cache: cache}
}

// Schema returns the node a reference chain ends at, or n itself when it is not a reference.
func (r *Resolver) Schema(n *schema.Node) (*schema.Node, error) {
	if n == nil || n.Ref == "" {
		return n, nil
	}
	if cached, ok := r.cache.Get(n.Ref); ok {
		return cached, nil
	}

	seen := map[string]bool{}
	cur := n
	for cur.Ref != "" {
		ref := cur.Ref
		if seen[ref] {
			return nil, fmt.Errorf("%w: %s", ErrRefCycle, ref)
		}
		seen[ref] = true

		name, err := refName(ref, schemaRefPrefix)
		if err != nil {
			return nil, err
		}
		var next *schema.Node
		if r.doc.Components != nil {
			next = r.doc.Components.Schemas[name]
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrRefNotFound, ref)
		}
		cur = next
	}

	r.cache.Add(n.Ref, cur)
	return cur, nil
}

// Response follows a response reference chain.
func (r *Resolver) Response(resp *Response) (*Response, error) {
	seen := map[string]bool{}
	cur := resp
	for cur != nil && cur.Ref != "" {
		ref := cur.Ref
		if seen[ref] {
			return nil, fmt.Errorf("%w: %s", ErrRefCycle, ref)
		}
		seen[ref] = true

		name, err := refName(ref, responseRefPrefix)
		if err != nil {
			return nil, err
		}
		var next *Response
		if r.doc.Components != nil {
			next = r.doc.Components.Responses[name]
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrRefNotFound, ref)
		}
		cur = next
	}
	return cur, nil
}

func refName(ref, prefix string) (string, error) {
	if !strings.HasPrefix(ref, "#/") {
		return "", fmt.Errorf("%w: %s", ErrExternalRef, ref)
	}
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("%w: %s (expected %s...)", ErrRefNotFound, ref, prefix)
	}
	name := strings.TrimPrefix(ref, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrRefNotFound, ref)
	}
	// JSON pointer escapes
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, nil
}
