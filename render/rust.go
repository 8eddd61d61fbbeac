// Package render writes a merged declaration set as Rust source.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bluesky-social/oapigen/lower"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Options struct {
	// Source is mentioned in the generated header, usually the input document path.
	Source string
}

// Rust renders the imports of set followed by its declarations. Nothing is written to w if any
// declaration cannot be rendered.
func Rust(w io.Writer, set *lower.DeclarationSet, opts Options) error {
	buf := new(bytes.Buffer)

	if opts.Source != "" {
		fmt.Fprintf(buf, "// Code generated by oapigen from %s. DO NOT EDIT.\n\n", opts.Source)
	} else {
		fmt.Fprintf(buf, "// Code generated by oapigen. DO NOT EDIT.\n\n")
	}

	for _, imp := range set.Imports {
		fmt.Fprintln(buf, imp.Snippet)
	}
	if len(set.Imports) > 0 {
		fmt.Fprintln(buf)
	}

	for i := range set.Declarations {
		if err := writeDeclaration(buf, &set.Declarations[i]); err != nil {
			return err
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeDeclaration(w io.Writer, d *lower.Declaration) error {
	name, ok := lower.Identifier(d.Name)
	if !ok {
		return fmt.Errorf("declaration %q: %w", d.Name, lower.ErrInvalidName)
	}
	if d.Kind != lower.KindAlias {
		return fmt.Errorf("declaration %q: rendering %s declarations: %w", d.Name, d.Kind, lower.ErrUnsupported)
	}

	if d.Doc != "" {
		for _, l := range strings.Split(d.Doc, "\n") {
			l = strings.TrimRight(l, " \t\r")
			if l == "" {
				fmt.Fprintln(w, "///")
			} else {
				fmt.Fprintf(w, "/// %s\n", l)
			}
		}
	}
	for _, dec := range d.Decorators {
		fmt.Fprintln(w, dec.Snippet)
	}

	if d.Type.IsUnion() {
		fmt.Fprintln(w, "#[serde(untagged)]")
		fmt.Fprintf(w, "pub enum %s {\n", name)
		for _, v := range variants(d.Type.Alternatives()) {
			fmt.Fprintf(w, "    %s(%s),\n", v.name, v.typ)
		}
		if d.Optional {
			fmt.Fprintf(w, "    Null,\n")
		}
		fmt.Fprintf(w, "}\n\n")
		return nil
	}

	t := d.Type.String()
	if d.Optional {
		t = "Option<" + t + ">"
	}
	fmt.Fprintln(w, "#[serde(transparent)]")
	fmt.Fprintf(w, "pub struct %s(pub %s);\n\n", name, t)
	return nil
}

type variant struct {
	name string
	typ  string
}

// variants names each union alternative after its type: "i32" -> "I32", "DateTime<Utc>" ->
// "DateTimeUtc". Repeated names get a numeric suffix.
func variants(alts []lower.TypeExpr) []variant {
	caser := cases.Title(language.Und, cases.NoLower)
	seen := map[string]int{}
	out := make([]variant, 0, len(alts))
	for _, alt := range alts {
		var sb strings.Builder
		for _, part := range strings.FieldsFunc(alt.String(), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			sb.WriteString(caser.String(part))
		}
		name := sb.String()
		if name == "" {
			name = "Unit"
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s%d", name, n)
		}
		out = append(out, variant{name: name, typ: alt.String()})
	}
	return out
}
