package callback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joeydtaylor/asymmetric/pkg/codec"
	"go.uber.org/zap"
)

// DeliveryIDHeader identifies one delivery on the outbound request.
const DeliveryIDHeader = "Asymmetric-Delivery-ID"

// HTTPDoer is satisfied by *http.Client and allows easy mocking in tests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Runner executes the delegated function.
type Runner func(ctx context.Context) (any, error)

// Dispatcher answers callback requests with 202 and delivers the function
// result to the caller-supplied URL from a detached task.
type Dispatcher struct {
	client HTTPDoer
	log    *zap.Logger
	signer *Signer
	creds  Credentials
	tasks  *Tasks
}

type Option func(*Dispatcher)

func WithClient(c HTTPDoer) Option    { return func(d *Dispatcher) { d.client = c } }
func WithLogger(l *zap.Logger) Option { return func(d *Dispatcher) { d.log = l } }
func WithSigner(s *Signer) Option     { return func(d *Dispatcher) { d.signer = s } }
func WithTasks(t *Tasks) Option       { return func(d *Dispatcher) { d.tasks = t } }

// WithCredentials authenticates deliveries to the receiving webhook.
func WithCredentials(c Credentials) Option { return func(d *Dispatcher) { d.creds = c } }

// NewDispatcher applies no timeout to deliveries unless the client does.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.client == nil {
		d.client = &http.Client{}
	}
	if d.tasks == nil {
		d.tasks = NewTasks(d.log)
	}
	if d.creds == nil {
		d.creds = NoCredentials{}
	}
	return d
}

// Tasks exposes the supervisor so shutdown can wait for deliveries.
func (d *Dispatcher) Tasks() *Tasks { return d.tasks }

// Dispatch validates the callback headers and schedules run. It returns the
// response payload and status: 422 with a message for bad headers, else 202
// with an empty object. run never executes on a 422.
func (d *Dispatcher) Dispatch(ctx context.Context, f Finders, h http.Header, run Runner) (any, int) {
	t, err := f.Resolve(h)
	if err != nil {
		var he *InvalidCallbackHeadersError
		if errors.As(err, &he) {
			rejectedTotal.WithLabelValues(he.Message).Inc()
		}
		return map[string]any{"message": err.Error()}, http.StatusUnprocessableEntity
	}

	detached := context.WithoutCancel(ctx)
	accepted := time.Now()
	d.tasks.Go(func() {
		d.deliver(detached, t, run)
		deliveryTime.Observe(time.Since(accepted).Seconds())
	})
	return map[string]any{}, http.StatusAccepted
}

func (d *Dispatcher) deliver(ctx context.Context, t Target, run Runner) {
	id := uuid.NewString()
	log := d.log.With(
		zap.String("deliveryId", id),
		zap.String("requestId", chimd.GetReqID(ctx)),
		zap.String("callbackUrl", t.URL),
		zap.String("callbackMethod", t.Method),
	)

	status, err := d.send(ctx, id, t, run)
	if err != nil {
		deliveriesTotal.WithLabelValues("failed").Inc()
		log.Warn("Error while executing the delegated method", zap.Error(err))
		return
	}
	deliveriesTotal.WithLabelValues("delivered").Inc()
	if status >= http.StatusMultipleChoices {
		log.Warn("callback endpoint answered with a non-success status", zap.Int("status", status))
		return
	}
	log.Info("callback delivered", zap.Int("status", status))
}

func (d *Dispatcher) send(ctx context.Context, id string, t Target, run Runner) (int, error) {
	out, err := run(ctx)
	if err != nil {
		return 0, err
	}
	if t.HasCustomKey {
		out = map[string]any{t.CustomKey: out}
	}
	body, err := codec.JSON.Marshal(out)
	if err != nil {
		return 0, fmt.Errorf("encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, t.Method, t.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", codec.JSON.ContentType())
	req.Header.Set(DeliveryIDHeader, id)
	if rid := chimd.GetReqID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	if d.signer != nil {
		tok, err := d.signer.Sign(id, body)
		if err != nil {
			return 0, fmt.Errorf("sign delivery: %w", err)
		}
		req.Header.Set(SignatureHeader, tok)
	}
	cred, err := d.creds.Issue(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("issue credentials: %w", err)
	}
	if cred.HeaderName != "" && cred.HeaderValue != "" {
		req.Header.Set(cred.HeaderName, cred.HeaderValue)
	}

	res, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}
