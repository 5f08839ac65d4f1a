package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/httpclient"
	"github.com/nulzo/chat-relay/internal/metrics"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 60 * time.Second

const tracerName = "github.com/nulzo/chat-relay/internal/llm"

// Dispatcher sends prompts to the single provider resolved at construction.
type Dispatcher struct {
	adapter Adapter
	model   string
	client  httpclient.HTTPClient
	timeout time.Duration
	metrics *metrics.Metrics
}

type Option func(*Dispatcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c httpclient.HTTPClient) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithMetrics records upstream calls on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher resolves the adapter for cfg.Type. An unknown identifier fails
// with ErrInvalidProvider before any network activity.
func NewDispatcher(cfg config.ProviderConfig, opts ...Option) (*Dispatcher, error) {
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	factory, err := Get(cfg.Type)
	if err != nil {
		return nil, err
	}

	adapter, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", cfg.Type, err)
	}

	d := &Dispatcher{
		adapter: adapter,
		model:   cfg.Model,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: d.timeout}
	}

	return d, nil
}

func (d *Dispatcher) Provider() ProviderName { return d.adapter.Name() }

func (d *Dispatcher) Model() string { return d.model }

// Build produces the outbound request for p.
func (d *Dispatcher) Build(p Prompt) (*Request, error) {
	return d.adapter.BuildRequest(p)
}

// Parse extracts the answer text from a successful response body.
func (d *Dispatcher) Parse(body []byte) (string, error) {
	return d.adapter.ParseResponse(body)
}

// Chat builds, sends and parses one provider call.
func (d *Dispatcher) Chat(ctx context.Context, p Prompt) (string, error) {
	provider := d.adapter.Name()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm.chat", trace.WithAttributes(
		attribute.String("llm.provider", string(provider)),
		attribute.String("llm.model", d.model),
	))
	defer span.End()

	start := time.Now()
	answer, outcome, err := d.chat(ctx, p)
	d.metrics.ObserveUpstream(string(provider), outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", upstreamErr.StatusCode))
		}
		return "", err
	}

	span.SetStatus(codes.Ok, "")
	return answer, nil
}

func (d *Dispatcher) chat(ctx context.Context, p Prompt) (string, string, error) {
	req, err := d.Build(p)
	if err != nil {
		return "", metrics.OutcomeInternal, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	body, err := httpclient.Send(ctx, d.client, req.Method, req.URL, req.Header, req.Body)
	if err != nil {
		upstreamErr := d.upstreamError(err)
		if upstreamErr.Timeout {
			return "", metrics.OutcomeTimeout, upstreamErr
		}
		return "", metrics.OutcomeUpstream, upstreamErr
	}

	answer, err := d.Parse(body)
	if err != nil {
		return "", metrics.OutcomeMalformed, err
	}

	return answer, metrics.OutcomeSuccess, nil
}

func (d *Dispatcher) upstreamError(err error) *UpstreamError {
	provider := d.adapter.Name()

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &UpstreamError{
			Provider:   provider,
			StatusCode: statusErr.StatusCode,
			Detail:     ErrorDetail(statusErr.Body),
			Body:       statusErr.Body,
			Err:        err,
		}
	}

	if httpclient.IsTimeout(err) {
		return &UpstreamError{
			Provider: provider,
			Detail:   fmt.Sprintf("%s request timed out after %s", provider, d.timeout),
			Timeout:  true,
			Err:      err,
		}
	}

	return &UpstreamError{
		Provider: provider,
		Detail:   err.Error(),
		Err:      err,
	}
}
