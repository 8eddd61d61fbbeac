package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bluesky-social/oapigen/codegen"
	"github.com/bluesky-social/oapigen/internal/runner"
	"github.com/bluesky-social/oapigen/openapi"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

var cmdWatch = &cli.Command{
	Name:      "watch",
	Usage:     "regenerate output whenever an input document changes",
	ArgsUsage: `<file-or-dir>...`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "output file; a directory when watching several documents",
			Required: true,
			EnvVars:  []string{"OAPIGEN_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "address to serve prometheus metrics on (eg: :2471)",
			EnvVars: []string{"OAPIGEN_METRICS_LISTEN"},
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "how long to wait for writes to settle before regenerating",
			Value: 200 * time.Millisecond,
		},
	}, generateFlags...),
	Action: runWatch,
}

func runWatch(cctx *cli.Context) error {
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
	for _, p := range paths {
		if openapi.IsURL(p) {
			return fmt.Errorf("cannot watch remote document %s", p)
		}
	}
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	if cfg.Output == stdIOPath {
		return fmt.Errorf("watch needs an output path")
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	shutdown, err := setupTracing(cctx)
	if err != nil {
		return err
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watcher{
		gen:      gen,
		output:   cfg.Output,
		multiple: len(paths) > 1,
		debounce: cctx.Duration("debounce"),
	}

	g := runner.New(ctx)
	g.Go("watcher", func(ctx context.Context) error {
		return w.run(ctx, paths)
	})
	if addr := cctx.String("metrics-listen"); addr != "" {
		g.Go("metrics", func(ctx context.Context) error {
			return serveMetrics(ctx, addr)
		})
	}
	return g.Wait()
}

func serveMetrics(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: promhttp.Handler()}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type watcher struct {
	gen      *codegen.Generator
	output   string
	multiple bool
	debounce time.Duration
}

// run generates every input once, then again each time one of them is written. Editors often
// replace files instead of writing in place, so the parent directories are watched rather than
// the files themselves.
func (w *watcher) run(ctx context.Context, paths []string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	inputs := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}
	for p := range inputs {
		w.regenerate(ctx, p)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "err", err)
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !inputs[abs] {
				continue
			}
			pending[abs] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			for p := range pending {
				w.regenerate(ctx, p)
			}
			clear(pending)
		}
	}
}

func (w *watcher) regenerate(ctx context.Context, input string) {
	out := outputPath(w.output, input, w.multiple)
	if err := generateOne(ctx, w.gen, input, out); err != nil {
		slog.Error("generation failed", "document", input, "err", err)
	}
}
