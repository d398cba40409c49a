package core_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/joeydtaylor/asymmetric/pkg/core"
	"github.com/joeydtaylor/asymmetric/pkg/endpoints"
	"github.com/joeydtaylor/asymmetric/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func add(a, b int) int { return a + b }

type notFound struct{ what string }

func (e notFound) Error() string   { return e.what + " not found" }
func (e notFound) StatusCode() int { return http.StatusNotFound }

func serve(t *testing.T, app *core.App) http.Handler {
	t.Helper()
	h, err := core.BuildRouter(app, core.BuildDeps{})
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDirectCall(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/sum", add, core.Params("a", "b"), core.ResponseCode(http.StatusCreated))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/sum", `{"a":1,"b":2,"ignored":true}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `3`, rec.Body.String())

	rec = do(h, http.MethodGet, "/sum", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDirectCallDefaultsAndExtra(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/greet", func(name, greeting string, rest signature.Extra) map[string]any {
		return map[string]any{"text": greeting + " " + name, "extra": len(rest)}
	}, core.Methods("get", "post"), core.Params("name", "greeting"), core.Defaults("hello"))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/greet", `{"name":"ada","x":1,"y":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"hello ada","extra":2}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/greet", `{"name":"bob","greeting":"hi"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"hi bob","extra":0}`, rec.Body.String())
}

func TestDirectCallKeepsLargeIntegers(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/echo", func(id int64) int64 { return id }, core.Params("id"))
	app.MustHandle("/raw", func(v any) any { return v }, core.Params("v"))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/echo", `{"id":9007199254740993}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `9007199254740993`, rec.Body.String())

	rec = do(h, http.MethodPost, "/raw", `{"v":-9007199254740993}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `-9007199254740993`, rec.Body.String())

	rec = do(h, http.MethodPost, "/raw", `{"v":1.5}`, nil)
	assert.Equal(t, `1.5`, rec.Body.String())
}

func TestDirectCallErrors(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/boom", func() error { return errors.New("boom") })
	app.MustHandle("/missing", func() (string, error) { return "", notFound{what: "order"} })
	app.MustHandle("/sum", add, core.Params("a", "b"))
	app.MustHandle("/panic", func() int { panic("kaboom") })
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"boom"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"order not found"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/sum", `{"a":1}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required argument: 'b'")

	rec = do(h, http.MethodPost, "/sum", `not json`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required argument: 'a'")

	rec = do(h, http.MethodPost, "/panic", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")
}

func TestRegistrationErrors(t *testing.T) {
	t.Parallel()

	app := core.New()
	_, err := app.Handle("/sum", add, core.Params("a", "b"), core.Methods("post", "put"))
	require.NoError(t, err)

	_, err = app.Handle("/sum", add, core.Params("a", "b"), core.Methods("get", "PUT"))
	var dup *endpoints.DuplicatedEndpointError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Endpoint '/sum' with HTTP method 'PUT' was defined twice.", err.Error())
	_, ok := app.Registry().Get("/sum", "get")
	assert.False(t, ok, "failed registration must not insert any method")

	_, err = app.Handle("/cb", add, core.Params("a", "b"), core.Callback(map[string]any{"unknown": "x"}))
	var bad *callback.InvalidCallbackObjectError
	require.ErrorAs(t, err, &bad)

	_, err = app.Handle("/verb", add, core.Params("a", "b"), core.Methods("connect"))
	var inv *endpoints.InvalidMethodError
	require.ErrorAs(t, err, &inv)

	_, err = app.Handle("/variadic", func(xs ...int) int { return len(xs) })
	var def *signature.DefinitionError
	require.ErrorAs(t, err, &def)

	assert.Panics(t, func() { app.MustHandle("/sum", add, core.Params("a", "b")) })
}

func TestDecoratorReturnsCallableHandler(t *testing.T) {
	t.Parallel()

	app := core.New()
	h, err := app.Router("/sum", core.Params("a", "b"))(add)
	require.NoError(t, err)

	req := core.NewRequest(httptest.NewRequest(http.MethodPost, "/sum", strings.NewReader(`{"a":2,"b":5}`)))
	out, status := h(context.Background(), req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7, out)
	assert.Equal(t, map[string]any{"a": 2.0, "b": 5.0}, req.JSON())
}

func TestInvocationIsLogged(t *testing.T) {
	t.Parallel()

	zc, logs := observer.New(zapcore.DebugLevel)
	app := core.New(core.WithLogger(zap.New(zc)))
	app.MustHandle("/sum", add, core.Params("a", "b"))

	rec := do(serve(t, app), http.MethodPost, "/sum", `{"a":1,"b":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, logs.FilterMessage("POST request to '/sum' endpoint ('add' function)").Len())
	body := logs.FilterMessage("request body").All()
	require.Len(t, body, 1)
	assert.Equal(t, zapcore.DebugLevel, body[0].Level)
}

func TestCallbackEndpoint(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- r.Method + " " + string(b)
	}))
	t.Cleanup(hook.Close)

	app := core.New()
	app.MustHandle("/sum", add, core.Params("a", "b"), core.Callback(true), core.ResponseCode(http.StatusCreated))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/sum", `{"a":20,"b":22}`, map[string]string{
		"asymmetric-callback-url":        hook.URL,
		"Asymmetric-Callback-Method":     "put",
		"Asymmetric-Custom-Callback-Key": "total",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))

	select {
	case d := <-got:
		assert.Equal(t, `PUT {"total":42}`, d)
	default:
		t.Fatal("webhook was not called")
	}
}

func TestCallbackEndpointDefaultMethodWithCustomKey(t *testing.T) {
	t.Parallel()

	got := make(chan string, 2)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- r.Method + " " + r.Header.Get("Content-Type") + " " + string(b)
	}))
	t.Cleanup(hook.Close)

	app := core.New()
	app.MustHandle("/sum", add, core.Params("a", "b"), core.Callback(true))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/sum", `{"a":1,"b":2}`, map[string]string{
		"Asymmetric-Callback-URL":        hook.URL,
		"Asymmetric-Custom-Callback-Key": "data",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))

	require.Len(t, got, 1)
	assert.Equal(t, `POST application/json {"data":3}`, <-got)
}

func TestCallbackEndpointRejectsBadHeaders(t *testing.T) {
	t.Parallel()

	ran := false
	app := core.New()
	app.MustHandle("/job", func() int { ran = true; return 1 }, core.Callback(callback.Options{URLHeaderName: "X-Reply-To"}))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/job", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid callback URL"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/job", "", map[string]string{
		"X-Reply-To":                 "http://127.0.0.1:1/",
		"Asymmetric-Callback-Method": "connect",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid callback HTTP method"}`, rec.Body.String())

	require.NoError(t, app.Shutdown(context.Background()))
	assert.False(t, ran)
}

func TestTimeoutBoundsRequestContext(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/deadline", func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}, core.Timeout(time.Minute))
	app.MustHandle("/free", func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})
	h := serve(t, app)

	assert.JSONEq(t, `true`, do(h, http.MethodPost, "/deadline", "", nil).Body.String())
	assert.JSONEq(t, `false`, do(h, http.MethodPost, "/free", "", nil).Body.String())
}

func TestExpiredDeadlineAnswers504(t *testing.T) {
	t.Parallel()

	app := core.New()
	app.MustHandle("/slow", func(ctx context.Context) error {
		<-ctx.Done()
		return fmt.Errorf("report: %w", ctx.Err())
	}, core.Timeout(10*time.Millisecond))
	h := serve(t, app)

	rec := do(h, http.MethodPost, "/slow", "", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.JSONEq(t, `{"message":"report: context deadline exceeded"}`, rec.Body.String())
}

func TestHeartbeatAndUnknownRoutes(t *testing.T) {
	t.Parallel()

	h := serve(t, core.New())
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/ping", "", nil).Code)
	rec := do(h, http.MethodPost, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())

	app := core.New()
	app.MustHandle("/sum", add, core.Params("a", "b"))
	rec = do(serve(t, app), http.MethodDelete, "/sum", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"message":"Method Not Allowed"}`, rec.Body.String())
}
