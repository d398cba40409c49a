package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/cli"
	"github.com/joeydtaylor/asymmetric/pkg/codec"
	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mul(a, b float64) float64 { return a * b }

func newApp() *core.App {
	app := core.New(core.WithTitle("Mul API"))
	app.MustHandle("/mul", mul, core.Params("a", "b"), core.Defaults(2.0))
	return app
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *cli.ExitError
	require.ErrorAs(t, err, &ee)
	return ee.Code
}

func TestVersionFlags(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"-V", "--version"} {
		var out bytes.Buffer
		require.NoError(t, cli.Run(newApp(), []string{arg}, &out))
		assert.Equal(t, "asymmetric version "+cli.Version+"\n", out.String())
	}
	for _, arg := range []string{"-v", "--version-number"} {
		var out bytes.Buffer
		require.NoError(t, cli.Run(newApp(), []string{arg}, &out))
		assert.Equal(t, cli.Version+"\n", out.String())
	}
}

func TestMissingOrUnknownAction(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := cli.Run(newApp(), nil, &out)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out.String(), "Usage:")

	err = cli.Run(newApp(), []string{"serve"}, &out)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), `unknown command "serve"`)

	err = cli.Run(newApp(), []string{"--nope"}, &out)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestDocsWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.json")
	var out bytes.Buffer
	require.NoError(t, cli.Run(newApp(), []string{"docs", "--filename", path}, &out))
	assert.Contains(t, out.String(), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, codec.JSON.Unmarshal(b, &doc))
	assert.Equal(t, "Mul API", doc["info"].(map[string]any)["title"])
	assert.Contains(t, doc["paths"], "/mul")
}

func TestDocsWritesYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	byExt := filepath.Join(dir, "spec.yaml")
	require.NoError(t, cli.Run(newApp(), []string{"docs", "-f", byExt}, &bytes.Buffer{}))
	byFlag := filepath.Join(dir, "spec.out")
	require.NoError(t, cli.Run(newApp(), []string{"docs", "-f", byFlag, "--format", "yaml"}, &bytes.Buffer{}))

	for _, p := range []string{byExt, byFlag} {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(b, &doc), p)
		assert.Equal(t, "3.0.3", doc["openapi"])
	}

	err := cli.Run(newApp(), []string{"docs", "--format", "xml"}, &bytes.Buffer{})
	assert.Equal(t, 1, exitCode(t, err))
}

func TestRunFailsOnMissingManifest(t *testing.T) {
	t.Parallel()

	err := cli.Run(newApp(), []string{"run", "--manifest", filepath.Join(t.TempDir(), "absent.toml")}, &bytes.Buffer{})
	assert.Equal(t, 1, exitCode(t, err))
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	t.Setenv("LOG_DIR", t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := cli.RunContext(ctx, newApp(), []string{"run", "--host", "127.0.0.1", "--port", "0"}, &bytes.Buffer{})
	require.NoError(t, err)
}
