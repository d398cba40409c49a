// Command example exposes a few functions, one of them delegated to a
// caller-supplied webhook.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/cli"
	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
)

type Report struct {
	Rows    int       `json:"rows"`
	Columns []string  `json:"columns"`
	Built   time.Time `json:"built"`
}

func sum(a, b float64) float64 { return a + b }

func greet(name, greeting string) string { return fmt.Sprintf("%s, %s!", greeting, name) }

func buildReport(ctx context.Context, rows int, columns []string, opts signature.Extra) (Report, error) {
	if rows < 0 {
		return Report{}, errors.New("rows must be >= 0")
	}
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case <-time.After(time.Duration(rows) * time.Millisecond):
	}
	return Report{Rows: rows, Columns: columns, Built: time.Now().UTC()}, nil
}

func newApp() *core.App {
	app := core.New(core.WithTitle("Example API"), core.WithVersion(cli.Version))

	app.MustHandle("/sum", sum, core.Params("a", "b"),
		core.Description("Adds two numbers."))
	app.MustHandle("/greet", greet, core.Methods("get", "post"),
		core.Params("name", "greeting"), core.Defaults("Hello"))
	app.MustHandle("/reports", buildReport, core.Params("rows", "columns"),
		core.Defaults([]string{"id"}), core.Callback(true),
		core.Description("Builds a report and delivers it to Asymmetric-Callback-URL."))

	// Exposed through [[route]] entries in manifest.toml.
	app.Catalog().MustRegister("multiply", func(a, b float64) float64 { return a * b }, core.Params("a", "b"))
	return app
}

func main() {
	if err := cli.Run(newApp(), os.Args[1:], os.Stdout); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
