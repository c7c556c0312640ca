package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

// defaultAttemptTimeout bounds one endpoint attempt.
const defaultAttemptTimeout = 10 * time.Second

// Resolution is the outcome of a successful pass.
type Resolution struct {
	Reading    models.Reading
	Descriptor string
	// Failures of the entries tried before the winner, in catalog order.
	Failures []AttemptFailure
}

// ProbeResult is the outcome of one entry when the whole catalog is probed.
type ProbeResult struct {
	Endpoint  string          `json:"endpoint"`
	URL       string          `json:"url"`
	OK        bool            `json:"ok"`
	Reason    string          `json:"reason,omitempty"`
	LatencyMs int64           `json:"latency_ms"`
	Reading   *models.Reading `json:"reading,omitempty"`
}

// Resolver tries catalog entries in order until one yields a Reading.
type Resolver struct {
	transport      Transport
	baseURL        string
	tokens         TokenSource
	attemptTimeout time.Duration
	log            *logger.Logger
	metrics        *Metrics
	now            func() time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithTokenSource sets where the bearer token comes from.
func WithTokenSource(ts TokenSource) ResolverOption {
	return func(r *Resolver) { r.tokens = ts }
}

// WithAttemptTimeout bounds each endpoint attempt.
func WithAttemptTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// WithMetrics sets the collectors updated by the resolver.
func WithMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithClock overrides time.Now; used by tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver builds a resolver against baseURL.
func NewResolver(transport Transport, baseURL string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		transport:      transport,
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         StaticToken(""),
		attemptTimeout: defaultAttemptTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("resolver")
	return r
}

// BaseURL returns the backend base URL in use.
func (r *Resolver) BaseURL() string { return r.baseURL }

// URL returns the full URL for a descriptor.
func (r *Resolver) URL(d EndpointDescriptor) string {
	if d.IsAbsolute() {
		return d.Path
	}
	if !strings.HasPrefix(d.Path, "/") {
		return r.baseURL + "/" + d.Path
	}
	return r.baseURL + d.Path
}

// Resolve runs one pass. Entries are tried strictly in catalog order and never
// concurrently; the first success wins. When every entry fails the error is
// *AllSourcesFailedError carrying the per-entry reasons.
func (r *Resolver) Resolve(ctx context.Context, catalog *Catalog) (Resolution, error) {
	headers := r.headers(ctx)
	var failures []AttemptFailure
	rejected := false
	defer func() {
		if rejected {
			r.invalidateToken()
		}
	}()

	for i := 0; i < catalog.Len(); i++ {
		d := catalog.At(i)
		reading, err := r.attempt(ctx, d, headers)
		if isAuthRejection(err) {
			rejected = true
		}
		if err == nil {
			r.metrics.pass(outcomeSuccess)
			return Resolution{Reading: reading, Descriptor: d.Name, Failures: failures}, nil
		}
		failures = append(failures, AttemptFailure{Endpoint: d.Name, Reason: err.Error(), Err: err})
		r.log.Warnw("resolve_attempt_failed", "endpoint", d.Name, "err", err)

		if ctx.Err() != nil {
			// remaining entries would fail the same way
			for j := i + 1; j < catalog.Len(); j++ {
				failures = append(failures, AttemptFailure{Endpoint: catalog.At(j).Name, Reason: ctx.Err().Error(), Err: ctx.Err()})
			}
			break
		}
	}
	r.metrics.pass(outcomeAllFailed)
	return Resolution{}, &AllSourcesFailedError{Failures: failures}
}

// Probe tries every entry regardless of earlier successes. Diagnostics only;
// it does not feed the status reporter.
func (r *Resolver) Probe(ctx context.Context, catalog *Catalog) []ProbeResult {
	headers := r.headers(ctx)
	out := make([]ProbeResult, 0, catalog.Len())
	for _, d := range catalog.Descriptors() {
		start := time.Now()
		reading, err := r.attempt(ctx, d, headers)
		res := ProbeResult{
			Endpoint:  d.Name,
			URL:       r.URL(d),
			OK:        err == nil,
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			res.Reason = err.Error()
		} else {
			res.Reading = &reading
		}
		out = append(out, res)
	}
	return out
}

func (r *Resolver) headers(ctx context.Context) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	token, err := r.tokens.Token(ctx)
	if err != nil {
		r.log.Warnw("token_unavailable", "err", err)
		return h
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func (r *Resolver) attempt(ctx context.Context, d EndpointDescriptor, headers http.Header) (models.Reading, error) {
	actx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	url := r.URL(d)
	resp, err := r.transport.Get(actx, url, headers)
	if err != nil {
		r.metrics.attempt(d.Name, resultTransportError)
		return models.Reading{}, &TransportError{URL: url, Err: err}
	}
	if resp.Status < 200 || resp.Status > 299 {
		r.metrics.attempt(d.Name, resultTransportError)
		return models.Reading{}, &TransportError{URL: url, Status: resp.Status}
	}

	reading, err := Normalize(resp.Body, d.Shape, r.now())
	if err != nil {
		r.metrics.attempt(d.Name, resultNormalizationError)
		return models.Reading{}, err
	}
	reading.SourceName = d.Name
	for i := range reading.Earlier {
		reading.Earlier[i].SourceName = d.Name
	}
	r.metrics.attempt(d.Name, resultOK)
	return reading, nil
}

// isAuthRejection reports whether the backend refused the bearer token.
func isAuthRejection(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Status == http.StatusUnauthorized || te.Status == http.StatusForbidden
}

func (r *Resolver) invalidateToken() {
	inv, ok := r.tokens.(TokenInvalidator)
	if !ok {
		return
	}
	inv.Invalidate()
	r.log.Infow("token_invalidated_after_rejection")
}

// IsAllSourcesFailed reports whether err is a total-failure outcome.
func IsAllSourcesFailed(err error) bool {
	var all *AllSourcesFailedError
	return errors.As(err, &all)
}
