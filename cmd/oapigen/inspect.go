package main

import (
	"fmt"
	"strings"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/lower"

	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"
)

var cmdInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "show the declarations a document lowers to, as a tree",
	ArgsUsage: `<file-or-url>`,
	Flags:     generateFlags,
	Action:    runInspect,
}

func runInspect(cctx *cli.Context) error {
	p := cctx.Args().First()
	if p == "" {
		return fmt.Errorf("need to provide document path as an argument")
	}

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	doc, err := loadDocument(cctx.Context, p)
	if err != nil {
		return err
	}
	res, err := gen.Build(cctx.Context, doc)
	if err != nil {
		return err
	}

	fmt.Print(inspectTree(p, res.Set, res.Skipped, res.Diagnostics).String())
	return nil
}

func inspectTree(title string, set *lower.DeclarationSet, skipped []codegen.Skipped, diags []lower.Diagnostic) treeprint.Tree {
	tree := treeprint.NewWithRoot(title)

	imports := tree.AddBranch("imports")
	for _, imp := range set.Imports {
		imports.AddNode(imp.Snippet)
	}

	decls := tree.AddBranch("declarations")
	for _, d := range set.Declarations {
		b := decls.AddMetaBranch(string(d.Kind), d.Name)
		if d.Type.IsUnion() {
			alts := b.AddBranch("union")
			for _, a := range d.Type.Alternatives() {
				alts.AddNode(a.String())
			}
		} else {
			b.AddNode("type: " + d.Type.String())
		}
		if d.Optional {
			b.AddNode("optional")
		}
		if d.Doc != "" {
			b.AddNode("doc: " + strings.ReplaceAll(d.Doc, "\n", " "))
		}
		for _, dec := range d.Decorators {
			b.AddNode(dec.Snippet)
		}
	}

	if len(skipped) > 0 {
		sk := tree.AddBranch("skipped")
		for _, s := range skipped {
			sk.AddMetaNode(s.Origin, fmt.Sprintf("%s: %v", s.Name, s.Err))
		}
	}
	if len(diags) > 0 {
		dg := tree.AddBranch("diagnostics")
		for _, d := range diags {
			dg.AddMetaNode(d.Code, d.Message)
		}
	}
	return tree
}
