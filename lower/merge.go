package lower

import (
	"fmt"
)

// Merger accumulates declarations for one document. Imports keep the first occurrence of each
// key; declarations are deduplicated structurally. Both keep first-seen order.
//
// A Merger is not safe for concurrent use.
type Merger struct {
	Reporter Reporter

	imports      ImportSet
	importKeys   map[string]bool
	declarations []Declaration
	byKey        map[uint64][]int
	byName       map[string]int
}

func NewMerger() *Merger {
	return &Merger{
		importKeys: make(map[string]bool),
		byKey:      make(map[uint64][]int),
		byName:     make(map[string]int),
	}
}

// Add folds declarations into the accumulator, in order.
func (m *Merger) Add(decls ...Declaration) {
	for i := range decls {
		m.add(&decls[i])
	}
}

func (m *Merger) add(d *Declaration) {
	for _, imp := range d.Imports {
		if m.importKeys[imp.Key] {
			mergeDuplicates.WithLabelValues("import").Inc()
			continue
		}
		m.importKeys[imp.Key] = true
		m.imports = append(m.imports, imp)
	}

	key := d.Key()
	for _, idx := range m.byKey[key] {
		if m.declarations[idx].Equal(d) {
			mergeDuplicates.WithLabelValues("declaration").Inc()
			return
		}
	}

	if idx, ok := m.byName[d.Name]; ok {
		m.report(Diagnostic{
			Code:    CodeNameConflict,
			Name:    d.Name,
			Message: fmt.Sprintf("declaration %q is defined more than once with different content (%s and %s)", d.Name, m.declarations[idx].Type, d.Type),
		})
	} else {
		m.byName[d.Name] = len(m.declarations)
	}

	m.byKey[key] = append(m.byKey[key], len(m.declarations))
	m.declarations = append(m.declarations, cloneDeclaration(d))
}

func (m *Merger) report(d Diagnostic) {
	cfg := Config{Reporter: m.Reporter}
	cfg.report(d)
}

// Set returns the merged result. The returned set does not share memory with the merger.
func (m *Merger) Set() *DeclarationSet {
	out := &DeclarationSet{
		Imports:      append(ImportSet(nil), m.imports...),
		Declarations: make([]Declaration, len(m.declarations)),
	}
	for i := range m.declarations {
		out.Declarations[i] = cloneDeclaration(&m.declarations[i])
	}
	return out
}

// Merge deduplicates the imports and declarations of a whole document.
func Merge(decls []Declaration) *DeclarationSet {
	m := NewMerger()
	m.Add(decls...)
	return m.Set()
}

func cloneDeclaration(d *Declaration) Declaration {
	out := *d
	out.Decorators = append(DecoratorSet(nil), d.Decorators...)
	out.Imports = append(ImportSet(nil), d.Imports...)
	return out
}
