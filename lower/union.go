package lower

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/oapigen/schema"
)

// Synthesize lowers node once per category, in the given order, and folds the results into one
// declaration. Any branch failure is returned unchanged.
func Synthesize(cfg *Config, name string, node *schema.Node, categories []schema.Category) (*Declaration, error) {
	if _, ok := Identifier(name); !ok {
		return nil, &LoweringError{Schema: name, Err: ErrInvalidName}
	}
	if node == nil {
		return nil, &LoweringError{Schema: name, Err: ErrNoType}
	}
	d, err := synthesize(cfg, name, node, categories)
	if err != nil {
		loweringErrors.WithLabelValues(errorReason(err)).Inc()
		return nil, err
	}
	return d, nil
}

func synthesize(cfg *Config, name string, node *schema.Node, categories []schema.Category) (*Declaration, error) {
	branches := make([]Declaration, 0, len(categories))
	for _, c := range categories {
		d, err := lowerCategory(cfg, name, node, c)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *d)
	}

	out, err := Union(branches...)
	if err != nil {
		var merr *MergeError
		if errors.As(err, &merr) && merr.Schema == "" {
			merr.Schema = name
		}
		return nil, err
	}
	unionsSynthesized.Inc()
	return out, nil
}

// Union folds per-category declarations into one. Null branches only make the result optional; every other branch contributes its type as an alternative, first-seen order, with
// duplicates removed. Decorators and imports of all branches are unioned.
func Union(branches ...Declaration) (*Declaration, error) {
	if len(branches) == 0 {
		return nil, &MergeError{Err: ErrNoBranches}
	}

	first := branches[0]
	out := Declaration{
		Name: first.Name,
		Kind: first.Kind,
	}

	var (
		alts     []TypeExpr
		seen     = map[string]bool{}
		nullType TypeExpr
	)
	for i, b := range branches {
		if b.Name != first.Name {
			return nil, &MergeError{
				Schema: first.Name,
				Err:    ErrNameMismatch,
				Detail: fmt.Sprintf("branch %d is named %q", i, b.Name),
			}
		}
		if b.Doc != "" {
			if out.Doc != "" && out.Doc != b.Doc {
				return nil, &MergeError{
					Schema: first.Name,
					Err:    ErrDocMismatch,
					Detail: fmt.Sprintf("branch %d documents %q, expected %q", i, b.Doc, out.Doc),
				}
			}
			out.Doc = b.Doc
		}

		if b.Optional {
			out.Optional = true
		}
		if isNullType(b.Type) {
			nullType = b.Type
		} else {
			for _, alt := range b.Type.Alternatives() {
				if !seen[alt.String()] {
					seen[alt.String()] = true
					alts = append(alts, alt)
				}
			}
		}

		out.Decorators = out.Decorators.With(b.Decorators...)
		out.Imports = out.Imports.With(b.Imports...)
	}

	if len(alts) == 0 {
		out.Type = nullType
	} else {
		out.Type = alternatives(alts)
	}
	return &out, nil
}

func isNullType(t TypeExpr) bool {
	null, _ := ResolveNull()
	return t.String() == null.String()
}
