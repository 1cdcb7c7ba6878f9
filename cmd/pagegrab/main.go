// Package main provides pagegrab, a single-shot page data extractor.
// All configuration comes from environment variables; see -h for the list.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/entrhq/pagegrab/pkg/browser"
	"github.com/entrhq/pagegrab/pkg/config"
	"github.com/entrhq/pagegrab/pkg/logging"
	"github.com/entrhq/pagegrab/pkg/scrape"
)

func main() {
	// No flags besides -h; everything else is environment configuration
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run resolves the configuration, performs the scrape and returns the
// process exit code. Every failure is reported on stderr.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.FromEnviron()
	if err != nil {
		fmt.Fprintf(stderr, "pagegrab: %v\n", err)
		return 1
	}

	logger := logging.NewLogger("pagegrab", stderr, cfg.Debug)

	rt, err := browser.New(cfg.Runtime, browser.OptionsFromConfig(cfg), logger)
	if err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	if err := scrape.Run(ctx, cfg, rt, stdout, logger); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "pagegrab - extract values from a web page\n\n")
	fmt.Fprintf(w, "Usage: url=<page> selector=<css> [option=value ...] pagegrab\n\n")
	fmt.Fprintf(w, "Options (environment variables):\n")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, spec := range config.Schema {
		detail := "required"
		switch {
		case spec.HasDefault():
			detail = "default " + spec.Default
		case !spec.Required:
			detail = "optional"
		}
		if len(spec.Allowed) > 0 {
			detail += "; one of " + strings.Join(spec.Allowed, "|")
		}
		fmt.Fprintf(tw, "  %s\t%s\t(%s) e.g. %s\n", spec.Key, spec.Description, detail, spec.Example)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  url=http://stackoverflow.com selector=#hlogo pagegrab\n")
	fmt.Fprintf(w, "  url=https://example.com selector=a query=all output=json format=indent pagegrab\n")
	fmt.Fprintf(w, "  url=https://example.com selector=h1 allowDomain=example.com debug=true pagegrab\n")
}
