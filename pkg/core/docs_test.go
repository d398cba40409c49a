package core_test

import (
	"net/http"
	"testing"

	"github.com/joeydtaylor/asymmetric/pkg/codec"
	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func docsApp(t *testing.T, opts ...core.Option) http.Handler {
	t.Helper()
	app := core.New(append([]core.Option{core.WithTitle("Math API"), core.WithVersion("1.0.0")}, opts...)...)
	app.MustHandle("/sum", add, core.Params("a", "b"), core.Description("Adds two numbers."))
	app.MustHandle("/later", add, core.Params("a", "b"), core.Callback(true))
	return serve(t, app)
}

func TestOpenAPIRoutes(t *testing.T) {
	t.Parallel()

	h := docsApp(t)
	rec := do(h, http.MethodGet, core.OpenAPIJSONRoute, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, codec.JSON.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Equal(t, map[string]any{"title": "Math API", "version": "1.0.0"}, doc["info"])

	paths := doc["paths"].(map[string]any)
	assert.Len(t, paths, 2)
	for _, route := range core.BuiltinRoutes {
		assert.NotContains(t, paths, route)
	}
	sum := paths["/sum"].(map[string]any)["post"].(map[string]any)
	assert.Equal(t, "Adds two numbers.", sum["description"])
	later := paths["/later"].(map[string]any)["post"].(map[string]any)
	assert.Contains(t, later["responses"], "202")
	assert.Len(t, later["parameters"], 3)

	rec = do(h, http.MethodGet, core.OpenAPIYAMLRoute, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ydoc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &ydoc))
	assert.Equal(t, "3.0.3", ydoc["openapi"])
	assert.Len(t, ydoc["paths"], 2)
}

func TestDocsPages(t *testing.T) {
	t.Parallel()

	h := docsApp(t)
	for _, route := range []string{core.SwaggerRoute, core.RedocRoute} {
		rec := do(h, http.MethodGet, route, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, route)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "openapi.json")
		assert.Contains(t, rec.Body.String(), "Math API")
	}
}

func TestWithoutDocs(t *testing.T) {
	t.Parallel()

	h := docsApp(t, core.WithoutDocs())
	for _, route := range core.BuiltinRoutes {
		assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, route, "", nil).Code, route)
	}
}

func TestDocumentSkipsBuiltins(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/sum", add, core.Params("a", "b"))
	_ = serve(t, app)

	_, ok := app.Registry().Get(core.SwaggerRoute, "get")
	assert.True(t, ok)
	doc := app.Document()
	assert.Len(t, doc.Paths, 1)
	assert.Contains(t, doc.Paths, "/sum")
	assert.Equal(t, core.DefaultTitle, doc.Info.Title)
}

func TestWithoutDocsDocumentsUserRouteOnDocsPath(t *testing.T) {
	t.Parallel()

	app := core.New(core.WithoutDocs())
	app.MustHandle(core.SwaggerRoute, add, core.Params("a", "b"))
	h := serve(t, app)

	assert.JSONEq(t, `3`, do(h, http.MethodPost, core.SwaggerRoute, `{"a":1,"b":2}`, nil).Body.String())
	doc := app.Document()
	assert.Contains(t, doc.Paths, core.SwaggerRoute)
	assert.Len(t, doc.Paths, 1)
}
