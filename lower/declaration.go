package lower

import (
	"encoding/binary"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TypeExpr is an opaque target-language type. Values are produced by the format registry or by
// union synthesis; the zero value is not a valid type.
type TypeExpr struct {
	text string
	alts []TypeExpr
}

func scalar(text string) TypeExpr {
	return TypeExpr{text: text}
}

// alternatives builds a union type. A single alternative collapses to that alternative.
func alternatives(alts []TypeExpr) TypeExpr {
	if len(alts) == 1 {
		return alts[0]
	}
	parts := make([]string, len(alts))
	for i, a := range alts {
		parts[i] = a.String()
	}
	return TypeExpr{
		text: strings.Join(parts, "|"),
		alts: slices.Clone(alts),
	}
}

// String returns the rendered type; union alternatives are joined with "|".
func (t TypeExpr) String() string {
	return t.text
}

func (t TypeExpr) IsZero() bool {
	return t.text == ""
}

func (t TypeExpr) IsUnion() bool {
	return len(t.alts) > 1
}

// Alternatives returns the members of a union type, or the type itself for a plain type.
func (t TypeExpr) Alternatives() []TypeExpr {
	if !t.IsUnion() {
		return []TypeExpr{t}
	}
	return slices.Clone(t.alts)
}

// Import is something a declaration needs in scope. Key identifies what is imported; two imports
// with the same key are the same import regardless of how Snippet is written.
type Import struct {
	Key     string
	Snippet string
}

// UseImport builds a `use` import for symbols of a crate path. The key is independent of the
// order the symbols are given in.
func UseImport(path string, symbols ...string) Import {
	sorted := slices.Clone(symbols)
	sort.Strings(sorted)
	key := path + "::{" + strings.Join(sorted, ",") + "}"

	var snippet string
	switch len(symbols) {
	case 0:
		snippet = "use " + path + ";"
		key = path
	case 1:
		snippet = "use " + path + "::" + symbols[0] + ";"
	default:
		snippet = "use " + path + "::{" + strings.Join(symbols, ", ") + "};"
	}
	return Import{Key: key, Snippet: snippet}
}

// ImportSet is an ordered collection of imports with unique keys. The first import added under a
// key wins.
type ImportSet []Import

func (s ImportSet) Has(key string) bool {
	return slices.ContainsFunc(s, func(i Import) bool { return i.Key == key })
}

// With returns the set extended by the given imports, skipping keys already present.
func (s ImportSet) With(imports ...Import) ImportSet {
	out := s
	for _, imp := range imports {
		if !out.Has(imp.Key) {
			out = append(out, imp)
		}
	}
	return out
}

func (s ImportSet) Keys() []string {
	out := make([]string, len(s))
	for i, imp := range s {
		out[i] = imp.Key
	}
	return out
}

// Decorator is an annotation attached to a declaration, along with the import it relies on.
type Decorator struct {
	Snippet string
	Import  Import
}

// DecoratorSet is ordered and unique by snippet.
type DecoratorSet []Decorator

func (s DecoratorSet) Has(snippet string) bool {
	return slices.ContainsFunc(s, func(d Decorator) bool { return d.Snippet == snippet })
}

func (s DecoratorSet) With(decorators ...Decorator) DecoratorSet {
	out := s
	for _, d := range decorators {
		if !out.Has(d.Snippet) {
			out = append(out, d)
		}
	}
	return out
}

// Imports returns the imports required by the decorators, deduplicated.
func (s DecoratorSet) Imports() ImportSet {
	var out ImportSet
	for _, d := range s {
		if d.Import.Key != "" {
			out = out.With(d.Import)
		}
	}
	return out
}

type Kind string

const (
	KindAlias Kind = "alias"

	// reserved for object, enum and const lowering
	KindStruct Kind = "struct"
	KindEnum   Kind = "enum"
	KindConst  Kind = "const"
)

// Declaration is one named target-language type together with everything needed to compile it.
type Declaration struct {
	Name       string
	Type       TypeExpr
	Decorators DecoratorSet
	Imports    ImportSet
	Doc        string
	Optional   bool
	Kind       Kind
}

// identity returns the fields that make two declarations the same declaration, with the set-valued
// fields sorted so that insertion order does not matter. Doc comments are not part of identity.
func (d *Declaration) identity() []string {
	decorators := make([]string, len(d.Decorators))
	for i, dec := range d.Decorators {
		decorators[i] = dec.Snippet
	}
	sort.Strings(decorators)

	imports := d.Imports.Keys()
	sort.Strings(imports)

	optional := "required"
	if d.Optional {
		optional = "optional"
	}

	out := []string{d.Name, d.Type.String(), optional, string(d.Kind)}
	out = append(out, "decorators")
	out = append(out, decorators...)
	out = append(out, "imports")
	out = append(out, imports...)
	return out
}

// Key is a structural fingerprint of the declaration. Equal declarations have equal keys; use
// Equal to settle collisions.
func (d *Declaration) Key() uint64 {
	h := xxhash.New()
	var lenbuf [8]byte
	for _, field := range d.identity() {
		binary.LittleEndian.PutUint64(lenbuf[:], uint64(len(field)))
		_, _ = h.Write(lenbuf[:])
		_, _ = h.WriteString(field)
	}
	return h.Sum64()
}

func (d *Declaration) Equal(other *Declaration) bool {
	return slices.Equal(d.identity(), other.identity())
}

// DeclarationSet is the merged output for one document: unique imports followed by unique
// declarations, both in first-seen order.
type DeclarationSet struct {
	Imports      ImportSet
	Declarations []Declaration
}
