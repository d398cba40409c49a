package callback_test

import (
	"net/http"
	"testing"

	"github.com/joeydtaylor/asymmetric/pkg/callback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	want := callback.Finders{
		URL:       "Asymmetric-Callback-URL",
		Method:    "Asymmetric-Callback-Method",
		CustomKey: "Asymmetric-Custom-Callback-Key",
	}

	for name, spec := range map[string]any{
		"true":        true,
		"false":       false,
		"nil":         nil,
		"empty map":   map[string]any{},
		"empty typed": callback.Options{},
	} {
		spec := spec
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := callback.Validate(spec)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestValidateOverrides(t *testing.T) {
	t.Parallel()

	got, err := callback.Validate(map[string]any{"url_header_name": "X-Url"})
	require.NoError(t, err)
	assert.Equal(t, callback.Finders{
		URL:       "X-Url",
		Method:    "Asymmetric-Callback-Method",
		CustomKey: "Asymmetric-Custom-Callback-Key",
	}, got)

	got, err = callback.Validate(map[string]string{
		"method_header_name":     "X-Method",
		"custom_key_header_name": "X-Key",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asymmetric-Callback-URL", got.URL)
	assert.Equal(t, "X-Method", got.Method)
	assert.Equal(t, "X-Key", got.CustomKey)

	got, err = callback.Validate(callback.Options{URLHeaderName: "X-Hook"})
	require.NoError(t, err)
	assert.Equal(t, "X-Hook", got.URL)
}

func TestValidateBlankNamesKeepDefaults(t *testing.T) {
	t.Parallel()

	for name, spec := range map[string]any{
		"map":   map[string]any{"url_header_name": "", "method_header_name": "  ", "custom_key_header_name": "X-Key"},
		"typed": callback.Options{URLHeaderName: "", MethodHeaderName: "  ", CustomKeyHeaderName: "X-Key"},
	} {
		spec := spec
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := callback.Validate(spec)
			require.NoError(t, err)
			assert.Equal(t, callback.Finders{
				URL:       callback.DefaultURLHeader,
				Method:    callback.DefaultMethodHeader,
				CustomKey: "X-Key",
			}, got)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	for name, spec := range map[string]any{
		"bogus key":        map[string]any{"bogus": "x"},
		"non-string value": map[string]any{"url_header_name": 5},
		"int64 from toml":  map[string]any{"method_header_name": int64(1)},
		"string spec":      "yes",
		"int spec":         1,
	} {
		spec := spec
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := callback.Validate(spec)
			var oe *callback.InvalidCallbackObjectError
			require.ErrorAs(t, err, &oe)
			assert.Contains(t, err.Error(), "Invalid callback object")
		})
	}
}

func TestParseEnabled(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec any
		want bool
	}{
		"nil":       {spec: nil, want: false},
		"false":     {spec: false, want: false},
		"true":      {spec: true, want: true},
		"empty map": {spec: map[string]any{}, want: true},
		"options":   {spec: callback.Options{}, want: true},
		"nil ptr":   {spec: (*callback.Options)(nil), want: false},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := callback.Parse(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Enabled)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	f := callback.DefaultFinders()

	h := http.Header{}
	h.Set("asymmetric-callback-url", "http://hook.example/cb")
	tgt, err := f.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, callback.Target{URL: "http://hook.example/cb", Method: "POST"}, tgt)

	h.Set("ASYMMETRIC-CALLBACK-METHOD", "put")
	h.Set("Asymmetric-Custom-Callback-Key", "result")
	tgt, err = f.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "PUT", tgt.Method)
	assert.True(t, tgt.HasCustomKey)
	assert.Equal(t, "result", tgt.CustomKey)
}

func TestResolveRejects(t *testing.T) {
	t.Parallel()

	f := callback.DefaultFinders()

	_, err := f.Resolve(http.Header{})
	assert.EqualError(t, err, "Invalid callback URL")

	h := http.Header{}
	h.Set(callback.DefaultURLHeader, "")
	_, err = f.Resolve(h)
	assert.EqualError(t, err, "Invalid callback URL")

	for _, m := range []string{"CONNECT", "fetch", ""} {
		h := http.Header{}
		h.Set(callback.DefaultURLHeader, "http://hook.example/cb")
		h.Set(callback.DefaultMethodHeader, m)
		_, err := f.Resolve(h)
		var he *callback.InvalidCallbackHeadersError
		require.ErrorAs(t, err, &he, m)
		assert.Equal(t, "Invalid callback HTTP method", he.Message)
	}
}

func TestHeadersMetadata(t *testing.T) {
	t.Parallel()

	hs := callback.Finders{URL: "X-Url", Method: "X-Method", CustomKey: "X-Key"}.Headers()
	require.Len(t, hs, 3)
	assert.Equal(t, "X-Url", hs[0].Name)
	assert.True(t, hs[0].Required)
	assert.Equal(t, "X-Method", hs[1].Name)
	assert.False(t, hs[1].Required)
	assert.Contains(t, hs[1].Description, "Defaults to POST")
	assert.Equal(t, "X-Key", hs[2].Name)
	assert.False(t, hs[2].Required)
}
