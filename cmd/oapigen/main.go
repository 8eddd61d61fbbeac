package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "oapigen",
		Usage:   "generate Rust data types from OpenAPI documents",
		Version: versioninfo.Short(),
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "warn",
			EnvVars: []string{"OAPIGEN_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to config file (default: $XDG_CONFIG_HOME/oapigen/config.yaml if present)",
			EnvVars: []string{"OAPIGEN_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "otel-exporter-otlp-endpoint",
			Usage:   "OTLP HTTP endpoint to send traces to",
			EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
		},
	}
	app.Before = func(cctx *cli.Context) error {
		configLogger(cctx, os.Stderr)
		return nil
	}
	app.Commands = []*cli.Command{
		cmdGenerate,
		cmdInspect,
		cmdFormats,
		cmdWatch,
	}
	return app.Run(args)
}
