package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/openapi"

	"github.com/urfave/cli/v2"
)

var cmdGenerate = &cli.Command{
	Name:      "generate",
	Aliases:   []string{"gen"},
	Usage:     "generate Rust types for OpenAPI documents",
	ArgsUsage: `<file-dir-or-url>...`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file ('-' for stdout); a directory when generating several documents",
			Value:   stdIOPath,
			EnvVars: []string{"OAPIGEN_OUTPUT"},
		},
	}, generateFlags...),
	Action: runGenerate,
}

func runGenerate(cctx *cli.Context) error {
	if cctx.Args().Len() < 1 {
		return fmt.Errorf("need at least one document path")
	}
	paths, err := expandArgs(cctx.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no OpenAPI documents found")
	}

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	multiple := len(paths) > 1
	if multiple && cfg.Output == stdIOPath {
		return fmt.Errorf("--output must name a directory when generating %d documents", len(paths))
	}

	shutdown, err := setupTracing(cctx)
	if err != nil {
		return err
	}
	defer shutdown()

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	for _, p := range paths {
		if err := generateOne(cctx.Context, gen, p, outputPath(cfg.Output, p, multiple)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// generateOne renders one document. Output files are only written once generation succeeded.
func generateOne(ctx context.Context, gen *codegen.Generator, input, output string) error {
	doc, err := loadDocument(ctx, input)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	res, err := gen.Generate(ctx, doc, &buf, sourceName(input))
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		slog.Warn("skipped schema", "document", input, "name", s.Name, "origin", s.Origin, "err", s.Err)
	}
	slog.Info("generated document", "document", input, "output", output,
		"declarations", len(res.Set.Declarations), "skipped", len(res.Skipped), "diagnostics", len(res.Diagnostics))

	if output == stdIOPath {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0644)
}

// sourceName is how an input is named in the generated header.
func sourceName(input string) string {
	if openapi.IsURL(input) {
		return openapi.NormalizeURL(input)
	}
	return filepath.Base(input)
}
