package core

import (
	"context"
	"errors"
	"net/http"

	"github.com/joeydtaylor/asymmetric/pkg/codec"
)

// StatusCoder lets a function error choose the response status. Values
// outside 400-599 are ignored. Errors wrapping context.DeadlineExceeded
// answer 504 unless they say otherwise.
type StatusCoder interface {
	StatusCode() int
}

func errorPayload(err error) (any, int) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		if c := sc.StatusCode(); c >= 400 && c <= 599 {
			status = c
		}
	}
	return message(err.Error()), status
}

// statusHandler answers with the status text as the message.
func statusHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, message(http.StatusText(status)), status)
	})
}

func message(msg string) map[string]any { return map[string]any{"message": msg} }

func writeJSON(w http.ResponseWriter, payload any, status int) {
	b, err := codec.JSON.Marshal(payload)
	if err != nil {
		b, _ = codec.JSON.Marshal(message(err.Error()))
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", codec.JSON.ContentType())
	w.WriteHeader(statusIf(status, http.StatusOK))
	_, _ = w.Write(b)
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}
