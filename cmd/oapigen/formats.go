package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bluesky-social/oapigen/lower"

	"github.com/urfave/cli/v2"
)

var cmdFormats = &cli.Command{
	Name:   "formats",
	Usage:  "list the schema formats the generator recognizes and their Rust types",
	Flags:  generateFlags,
	Action: runFormats,
}

func runFormats(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	printFormats(cctx.App.Writer, lower.KnownFormats(&lower.Config{Datetime: opts.Datetime}))
	return nil
}

func printFormats(w io.Writer, formats []lower.KnownFormat) {
	for _, f := range formats {
		line := fmt.Sprintf("%-8s %-10s %s", f.Category, f.Format, f.Type)
		if f.Default {
			line += " (default)"
		}
		if len(f.Imports) > 0 {
			line += "  " + strings.Join(f.Imports, " ")
		}
		fmt.Fprintln(w, line)
	}
}
