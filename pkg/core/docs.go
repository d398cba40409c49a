package core

import (
	"bytes"
	"io"
	"net/http"

	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/openapi"
)

const (
	OpenAPIJSONRoute = "/openapi.json"
	OpenAPIYAMLRoute = "/openapi.yaml"
	SwaggerRoute     = "/docs"
	RedocRoute       = "/redoc"
)

// BuiltinRoutes serve the documentation. They carry no function and are
// left out of the document.
var BuiltinRoutes = []string{OpenAPIJSONRoute, OpenAPIYAMLRoute, SwaggerRoute, RedocRoute}

// registerBuiltins adds the documentation routes once, when docs are on.
func (a *App) registerBuiltins() error {
	a.mu.Lock()
	if a.builtins || !a.docs {
		a.mu.Unlock()
		return nil
	}
	a.builtins = true
	a.mu.Unlock()

	routes := map[string]http.Handler{
		OpenAPIJSONRoute: a.serveDocument(openapi.WriteJSON, "application/json"),
		OpenAPIYAMLRoute: a.serveDocument(openapi.WriteYAML, "application/yaml"),
		SwaggerRoute:     a.servePage(openapi.SwaggerHTML),
		RedocRoute:       a.servePage(openapi.RedocHTML),
	}
	for _, route := range BuiltinRoutes {
		spec := endpoints.Spec{Handler: routes[route], Docstring: "Built-in documentation route."}
		if err := a.registry.Add(route, []string{"get"}, spec); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) serveDocument(write func(io.Writer, openapi.Document) error, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		if err := write(&buf, a.Document()); err != nil {
			writeJSON(w, message(err.Error()), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})
}

func (a *App) servePage(render func(title, specURL string) ([]byte, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		page, err := render(a.Title(), OpenAPIJSONRoute)
		if err != nil {
			writeJSON(w, message(err.Error()), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	})
}
