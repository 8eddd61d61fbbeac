// Package codegen runs the whole pipeline for one document: collect named schemas, lower them in
// parallel, merge the results in collection order, and render.
package codegen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/bluesky-social/oapigen/lower"
	"github.com/bluesky-social/oapigen/openapi"
	"github.com/bluesky-social/oapigen/render"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("codegen")

// Policy decides what a failed schema does to the document.
type Policy string

const (
	// FailFast aborts the document on the first schema that fails to lower.
	FailFast Policy = "fail"
	// SkipInvalid reports failed schemas and merges the rest.
	SkipInvalid Policy = "skip"
)

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case FailFast, SkipInvalid:
		return Policy(raw), nil
	case "":
		return FailFast, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (expected %q or %q)", raw, FailFast, SkipInvalid)
	}
}

type Options struct {
	Datetime    lower.DatetimeLibrary
	Decorators  lower.DecoratorResolver
	Policy      Policy
	Concurrency int
}

type Generator struct {
	opts   Options
	logger *slog.Logger
}

func NewGenerator(opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Policy == "" {
		opts.Policy = FailFast
	}
	return &Generator{
		opts:   opts,
		logger: logger.With("system", "codegen"),
	}
}

// Skipped is a schema left out of the document under SkipInvalid.
type Skipped struct {
	Name   string
	Origin string
	Err    error
}

type Result struct {
	Set         *lower.DeclarationSet
	Skipped     []Skipped
	Diagnostics []lower.Diagnostic
}

// Build lowers and merges every named schema in doc.
func (g *Generator) Build(ctx context.Context, doc *openapi.Document) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Build", trace.WithAttributes(
		attribute.String("openapi", doc.OpenAPI),
		attribute.String("datetime", string(g.opts.Datetime)),
		attribute.String("policy", string(g.opts.Policy)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		buildDuration.Observe(time.Since(start).Seconds())
	}()

	named, err := openapi.Collect(doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("collecting schemas: %w", err)
	}
	span.SetAttributes(attribute.Int("schemas", len(named)))

	diags := &lower.Diagnostics{Logger: g.logger}
	cfg := &lower.Config{
		Datetime:   g.opts.Datetime,
		Decorators: g.opts.Decorators,
		Reporter:   diags,
	}

	decls, errs, err := g.lowerAll(ctx, cfg, named)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res := &Result{}
	merger := lower.NewMerger()
	merger.Reporter = diags
	for i, ns := range named {
		if errs[i] != nil {
			g.logger.Warn("skipping schema", "name", ns.Name, "origin", ns.Origin, "err", errs[i])
			schemasSkipped.Inc()
			res.Skipped = append(res.Skipped, Skipped{Name: ns.Name, Origin: ns.Origin, Err: errs[i]})
			continue
		}
		merger.Add(*decls[i])
	}
	res.Set = merger.Set()
	res.Diagnostics = diags.Events()

	span.SetAttributes(
		attribute.Int("declarations", len(res.Set.Declarations)),
		attribute.Int("imports", len(res.Set.Imports)),
		attribute.Int("skipped", len(res.Skipped)),
	)
	g.logger.Debug("built declaration set", "schemas", len(named), "declarations", len(res.Set.Declarations), "skipped", len(res.Skipped), "duration", time.Since(start))
	return res, nil
}

// lowerAll lowers every schema concurrently. Each goroutine only writes its own slot. Under
// FailFast the first error is returned; under SkipInvalid errors are returned per slot.
func (g *Generator) lowerAll(ctx context.Context, cfg *lower.Config, named []openapi.NamedSchema) ([]*lower.Declaration, []error, error) {
	ctx, span := tracer.Start(ctx, "lowerAll", trace.WithAttributes(attribute.Int("concurrency", g.opts.Concurrency)))
	defer span.End()

	decls := make([]*lower.Declaration, len(named))
	errs := make([]error, len(named))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for i, ns := range named {
		if egctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			d, err := lower.Lower(cfg, ns.Name, ns.Node)
			if err != nil {
				if g.opts.Policy == FailFast {
					return fmt.Errorf("%s: %w", ns.Origin, err)
				}
				errs[i] = err
				return nil
			}
			decls[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return decls, errs, nil
}

// Generate builds doc and renders it as Rust to w.
func (g *Generator) Generate(ctx context.Context, doc *openapi.Document, w io.Writer, source string) (*Result, error) {
	res, err := g.Build(ctx, doc)
	if err != nil {
		return nil, err
	}

	_, span := tracer.Start(ctx, "Render")
	defer span.End()
	if err := render.Rust(w, res.Set, render.Options{Source: source}); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("rendering: %w", err)
	}
	documentsGenerated.Inc()
	return res, nil
}
