package serverfx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/joeydtaylor/asymmetric/pkg/serverfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type routed struct {
	fx.In
	Handler http.Handler `name:"app"`
}

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	body = strings.ReplaceAll(body, "LOGDIR", filepath.ToSlash(filepath.Join(dir, "log")))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestModuleServesCatalogRoutes(t *testing.T) {
	path := writeManifest(t, `
[app]
title = "Echo API"

[log]
dir = "LOGDIR"

[[route]]
path = "/echo"
handler = "echo"
`)

	app := core.New()
	app.Catalog().MustRegister("echo", func(text string) string { return text }, core.Params("text"))
	app.MustHandle("/upper", strings.ToUpper, core.Params("s"))

	var got routed
	fxa := fxtest.New(t,
		fx.NopLogger,
		serverfx.Module(app, serverfx.WithManifest(path), serverfx.WithListen("127.0.0.1:0")),
		fx.Invoke(func(r routed) { got = r }),
	)
	fxa.RequireStart()
	defer fxa.RequireStop()

	rec := httptest.NewRecorder()
	got.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"hi"`, rec.Body.String())

	rec = httptest.NewRecorder()
	got.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upper", strings.NewReader(`{"s":"abc"}`)))
	assert.JSONEq(t, `"ABC"`, rec.Body.String())

	rec = httptest.NewRecorder()
	got.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Echo API", app.Title())
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "log", "system.log"))
}

func TestModuleFailsOnMissingManifest(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		serverfx.Module(core.New(), serverfx.WithManifest(filepath.Join(t.TempDir(), "absent.toml"))),
	)
	require.Error(t, app.Err())
}

func TestModuleFailsOnUnknownHandler(t *testing.T) {
	path := writeManifest(t, "[log]\ndir = \"LOGDIR\"\n\n[[route]]\npath = \"/x\"\nhandler = \"missing\"\n")
	app := fx.New(
		fx.NopLogger,
		serverfx.Module(core.New(), serverfx.WithManifest(path), serverfx.WithListen("127.0.0.1:0")),
	)
	err := app.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the catalog")
}

func TestModuleRequiresSigningKey(t *testing.T) {
	path := writeManifest(t, "[log]\ndir = \"LOGDIR\"\n\n[callback]\nsigning_key_env = \"TEST_UNSET_SIGNING_KEY\"\n")
	app := fx.New(
		fx.NopLogger,
		serverfx.Module(core.New(), serverfx.WithManifest(path), serverfx.WithListen("127.0.0.1:0")),
	)
	require.Error(t, app.Err())

	t.Setenv("TEST_SIGNING_KEY", "k")
	path = writeManifest(t, "[log]\ndir = \"LOGDIR\"\n\n[callback]\nsigning_key_env = \"TEST_SIGNING_KEY\"\n")
	ok := fxtest.New(t,
		fx.NopLogger,
		serverfx.Module(core.New(), serverfx.WithManifest(path), serverfx.WithListen("127.0.0.1:0")),
	)
	ok.RequireStart()
	require.NoError(t, ok.Stop(context.Background()))
}
