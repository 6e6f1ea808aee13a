// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command jujudash logs in to the configured controllers and reports
// on the applications of their models.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/juju/juju-dashboard/internal/config"
)

var logger = loggo.GetLogger("dashboard.cmd.jujudash")

const usage = `usage: jujudash [--watch] [--format yaml|json] [--metrics-addr addr] <config.yaml>`

type options struct {
	configPath  string
	metricsAddr string
	watch       bool
	format      *formatterValue
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{
		format: newFormatterValue("yaml", defaultFormatters),
	}
	fs := gnuflag.NewFlagSet("jujudash", gnuflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.watch, "watch", false, "follow the models' delta feeds and report on every change")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	fs.Var(opts.format, "format", "output format (yaml or json)")
	if err := fs.Parse(true, args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		return options{}, errors.Errorf("expected a config file\n%s", usage)
	}
	opts.configPath = fs.Arg(0)
	return opts, nil
}

// runMain runs the command and returns its exit code.
func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err == gnuflag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 2
	}
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 2
	}
	if cfg.LoggingConfig != "" {
		if err := loggo.ConfigureLoggers(cfg.LoggingConfig); err != nil {
			fmt.Fprintf(stderr, "ERROR %v\n", err)
			return 2
		}
	}
	d, err := newDashboard(cfg, clock.WallClock, nil)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 1
	}
	if err := d.run(ctx, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runMain(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
