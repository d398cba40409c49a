package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleRoutes(t *testing.T) {
	t.Parallel()

	app := newApp()
	h, err := core.BuildRouter(app, core.BuildDeps{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greet", strings.NewReader(`{"name":"Ada"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Hello, Ada!"`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(`{"rows":1}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := app.Document()
	assert.Len(t, doc.Paths, 3)
	assert.Equal(t, []string{"multiply"}, app.Catalog().Names())
}
