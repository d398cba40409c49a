// Package cli is the command line of a binary embedding an application: it
// writes the OpenAPI document and runs the HTTP server.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/joeydtaylor/asymmetric/pkg/openapi"
	"github.com/joeydtaylor/asymmetric/pkg/serverfx"
	"go.uber.org/fx"
)

// Version is reported by -V and -v. Overridden at link time.
var Version = "0.1.0"

// ExitError carries the process exit code for a failed invocation.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usage(out io.Writer) {
	fmt.Fprint(out, `Command line interface tool for asymmetric.

Usage:
  asymmetric [-V | -v] <command> [options]

Commands:
  docs    write the OpenAPI document
  run     start the HTTP server

Options:
  -V, --version          show verbose program's version number and exit
  -v, --version-number   show program's version number and exit
`)
}

// Run parses args and executes the command against app. Output goes to out.
func Run(app *core.App, args []string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, app, args, out)
}

// RunContext is Run with a caller-controlled context; canceling it stops a
// running server.
func RunContext(ctx context.Context, app *core.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("asymmetric", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(out) }

	var verbose, number bool
	fs.BoolVar(&verbose, "V", false, "show verbose program's version number and exit")
	fs.BoolVar(&verbose, "version", false, "show verbose program's version number and exit")
	fs.BoolVar(&number, "v", false, "show program's version number and exit")
	fs.BoolVar(&number, "version-number", false, "show program's version number and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 1, Message: err.Error()}
	}
	switch {
	case verbose:
		fmt.Fprintf(out, "asymmetric version %s\n", Version)
		return nil
	case number:
		fmt.Fprintln(out, Version)
		return nil
	}

	if fs.NArg() == 0 {
		usage(out)
		return &ExitError{Code: 1, Message: "missing action"}
	}
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "docs":
		return docs(app, rest, out)
	case "run":
		return run(ctx, app, rest, out)
	default:
		usage(out)
		return &ExitError{Code: 1, Message: fmt.Sprintf("unknown command %q", cmd)}
	}
}

func docs(app *core.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	fs.SetOutput(out)
	filename := fs.String("filename", "openapi.json", "output path of the document")
	fs.StringVar(filename, "f", "openapi.json", "output path of the document (shorthand)")
	format := fs.String("format", "", "json or yaml; inferred from the file extension when empty")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 1, Message: err.Error()}
	}

	write := openapi.WriteJSON
	switch f := strings.ToLower(*format); {
	case f == "yaml" || f == "yml":
		write = openapi.WriteYAML
	case f == "json":
	case f == "":
		if ext := strings.ToLower(filepath.Ext(*filename)); ext == ".yaml" || ext == ".yml" {
			write = openapi.WriteYAML
		}
	default:
		return &ExitError{Code: 1, Message: fmt.Sprintf("invalid format %q: must be 'json' or 'yaml'", *format)}
	}

	file, err := os.Create(*filename)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	if err := write(file, app.Document()); err != nil {
		_ = file.Close()
		return &ExitError{Code: 1, Message: err.Error()}
	}
	if err := file.Close(); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	fmt.Fprintf(out, "OpenAPI document written to %s\n", *filename)
	return nil
}

func run(ctx context.Context, app *core.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(out)
	host := fs.String("host", "127.0.0.1", "bind socket to this host")
	port := fs.Int("port", 8000, "bind socket to this port")
	manifestPath := fs.String("manifest", "", "manifest.toml path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 1, Message: err.Error()}
	}

	var opts []serverfx.Option
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if explicit["host"] || explicit["port"] {
		opts = append(opts, serverfx.WithListen(net.JoinHostPort(*host, strconv.Itoa(*port))))
	}
	if *manifestPath != "" {
		opts = append(opts, serverfx.WithManifest(*manifestPath))
	}

	fxa := fx.New(fx.NopLogger, serverfx.Module(app, opts...))
	if err := fxa.Err(); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	startCtx, cancel := context.WithTimeout(ctx, fxa.StartTimeout())
	defer cancel()
	if err := fxa.Start(startCtx); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	select {
	case <-ctx.Done():
	case <-fxa.Done():
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), fxa.StopTimeout())
	defer cancelStop()
	if err := fxa.Stop(stopCtx); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
