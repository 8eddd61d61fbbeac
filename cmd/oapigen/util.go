package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/config"
	"github.com/bluesky-social/oapigen/lower"
	"github.com/bluesky-social/oapigen/openapi"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const stdIOPath = "-"

var generateFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "datetime",
		Usage:   "library representing date-time strings (chrono or jiff)",
		Value:   string(lower.DatetimeChrono),
		EnvVars: []string{"OAPIGEN_DATETIME"},
	},
	&cli.StringFlag{
		Name:    "on-error",
		Usage:   "what a schema that fails to lower does: 'fail' the document or 'skip' the schema",
		Value:   string(codegen.FailFast),
		EnvVars: []string{"OAPIGEN_ON_ERROR"},
	},
	&cli.IntFlag{
		Name:    "concurrency",
		Usage:   "number of schemas lowered in parallel (0 means GOMAXPROCS)",
		EnvVars: []string{"OAPIGEN_CONCURRENCY"},
	},
}

func configLogger(cctx *cli.Context, writer io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads the config file (explicit or discovered) and applies any flags that were set
// on the command line or through the environment.
func loadConfig(cctx *cli.Context) (*config.Config, error) {
	cfg, path, err := config.LoadOrDefault(cctx.String("config"))
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("loaded config file", "path", path)
	}

	if cctx.IsSet("datetime") {
		cfg.Libraries.Datetime = cctx.String("datetime")
	}
	if cctx.IsSet("on-error") {
		cfg.OnError = cctx.String("on-error")
	}
	if cctx.IsSet("concurrency") {
		cfg.Concurrency = cctx.Int("concurrency")
	}
	if cctx.IsSet("output") {
		cfg.Output = cctx.String("output")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDocument reads a document from disk, or downloads it when given a URL.
func loadDocument(ctx context.Context, input string) (*openapi.Document, error) {
	if openapi.IsURL(input) {
		return openapi.NewFetcher(slog.Default()).Fetch(ctx, input)
	}
	return openapi.Load(input)
}

func newGenerator(cfg *config.Config) (*codegen.Generator, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return codegen.NewGenerator(opts, slog.Default()), nil
}

// setupTracing installs an OTLP trace exporter when an endpoint is configured. The returned
// function flushes and stops it.
func setupTracing(cctx *cli.Context) (func(), error) {
	ep := cctx.String("otel-exporter-otlp-endpoint")
	if ep == "" {
		return func() {}, nil
	}
	slog.Info("setting up trace exporter", "endpoint", ep)

	exp, err := otlptracehttp.New(cctx.Context)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("oapigen"),
			attribute.String("version", versioninfo.Short()),
		)),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown trace exporter", "error", err)
		}
	}, nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func findDocuments(dir string, out []string) ([]string, error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if isDocumentFile(path) {
			out = append(out, path)
		}

		return nil
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

// for direct document files, remote document URLs or directories containing documents, get one
// flat list of paths
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if openapi.IsURL(a) {
			out = append(out, a)
			continue
		}
		st, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			out, err = findDocuments(a, out)
			if err != nil {
				return nil, err
			}
		} else if isDocumentFile(a) {
			out = append(out, a)
		}
	}

	return out, nil
}

// outputPath picks where the code for one input goes. A single input writes to output directly;
// several inputs treat output as a directory and write one .rs file per input.
func outputPath(output, input string, multiple bool) string {
	if !multiple {
		return output
	}
	if openapi.IsURL(input) {
		input = path.Base(strings.SplitN(input, "?", 2)[0])
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(output, strings.ReplaceAll(base, "-", "_")+".rs")
}
