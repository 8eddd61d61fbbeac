// Package lower turns resolved schema nodes into target-language declarations and merges the
// declarations of a whole document into one emittable set.
//
// Lowering is a pure function of the configuration and the node, so independent schemas can be
// lowered concurrently. Merging is a sequential fold and must run after lowering completes.
package lower

import (
	"errors"
	"strings"
	"unicode"

	"github.com/bluesky-social/oapigen/schema"
)

// Lower converts one resolved schema node into a declaration named name. Multi-typed nodes are
// handed to the union synthesizer.
func Lower(cfg *Config, name string, node *schema.Node) (*Declaration, error) {
	d, err := lower(cfg, name, node)
	if err != nil {
		loweringErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}
	return d, nil
}

func lower(cfg *Config, name string, node *schema.Node) (*Declaration, error) {
	if _, ok := Identifier(name); !ok {
		return nil, &LoweringError{Schema: name, Err: ErrInvalidName}
	}
	if node == nil {
		return nil, &LoweringError{Schema: name, Err: ErrNoType}
	}
	if node.Ref != "" {
		return nil, &LoweringError{Schema: name, Err: ErrUnsupported, Detail: "unresolved reference " + node.Ref}
	}
	if node.HasConst() {
		return nil, &LoweringError{Schema: name, Err: ErrUnsupported, Detail: "const schemas are not lowered yet"}
	}
	if len(node.Enum) > 0 {
		return nil, &LoweringError{Schema: name, Err: ErrUnsupported, Detail: "enum schemas are not lowered yet"}
	}

	categories := node.Categories()
	switch {
	case len(categories) == 0:
		return nil, &LoweringError{Schema: name, Err: ErrNoType}
	case categories.Multiple():
		return synthesize(cfg, name, node, categories)
	default:
		return lowerCategory(cfg, name, node, categories[0])
	}
}

// lowerCategory lowers node as if it declared exactly one category.
func lowerCategory(cfg *Config, name string, node *schema.Node, category schema.Category) (*Declaration, error) {
	var (
		t       TypeExpr
		imports ImportSet
	)
	switch category {
	case schema.Boolean:
		t, imports = ResolveBoolean()
	case schema.Integer, schema.Number:
		t, imports = ResolveNumber(cfg, category, node.Format)
	case schema.String:
		t, imports = ResolveString(cfg, node.Format)
	case schema.Null:
		t, imports = ResolveNull()
	case schema.Array:
		return nil, &LoweringError{Schema: name, Category: category, Err: ErrUnsupported, Detail: "array schemas are not lowered yet"}
	case schema.Object:
		return nil, &LoweringError{Schema: name, Category: category, Err: ErrUnsupported, Detail: "object schemas are not lowered yet"}
	default:
		return nil, &LoweringError{Schema: name, Category: category, Err: ErrUnsupported}
	}

	decorators, decoratorImports := cfg.decorators().Decorators(name, category)

	declarationsLowered.WithLabelValues(category.String()).Inc()
	return &Declaration{
		Name:       name,
		Type:       t,
		Decorators: decorators,
		Imports:    imports.With(decoratorImports...),
		Doc:        node.Doc(),
		Optional:   category == schema.Null,
		Kind:       KindAlias,
	}, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrNoType):
		return "no_type"
	case errors.Is(err, ErrNoBranches), errors.Is(err, ErrNameMismatch), errors.Is(err, ErrDocMismatch):
		return "union"
	default:
		return "other"
	}
}

var reservedWords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true, "continue": true,
	"crate": true, "dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true, "unsized": true,
	"virtual": true, "yield": true, "try": true, "gen": true,
}

// Identifier turns name into a target-language type identifier. Separators ('-', '.', ' ', '/')
// become underscores; any other character outside letters, digits and '_' makes the name invalid,
// as does a leading digit or a reserved word.
func Identifier(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				return "", false
			}
			sb.WriteRune(r)
		case r == '-' || r == '.' || r == ' ' || r == '/':
			sb.WriteRune('_')
		default:
			return "", false
		}
	}
	out := sb.String()
	if strings.Trim(out, "_") == "" || reservedWords[out] {
		return "", false
	}
	return out, true
}
