package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes bounds how much of a backend response is read.
const maxBodyBytes = 4 << 20 // 4 MB

// Response is what the engine needs from one GET.
type Response struct {
	Status int
	Body   []byte
}

// Transport performs a single GET. Implementations must honor ctx.
type Transport interface {
	Get(ctx context.Context, url string, headers http.Header) (Response, error)
}

// TokenSource supplies the bearer token sent to the backend.
// An empty token means no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenInvalidator is implemented by token sources that can drop a token the
// backend rejected, so the next request fetches a fresh one.
type TokenInvalidator interface {
	Invalidate()
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport with the given per-request timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{Client: &http.Client{Timeout: timeout}}
}

// Get issues the request and reads the body. Non-2xx statuses are not errors here;
// the caller decides.
func (t *HTTPTransport) Get(ctx context.Context, url string, headers http.Header) (Response, error) {
	return t.do(ctx, http.MethodGet, url, headers, nil)
}

// Post sends body with the given headers. Status handling is the same as Get.
func (t *HTTPTransport) Post(ctx context.Context, url string, headers http.Header, body []byte) (Response, error) {
	return t.do(ctx, http.MethodPost, url, headers, bytes.NewReader(body))
}

func (t *HTTPTransport) do(ctx context.Context, method, url string, headers http.Header, body io.Reader) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}
	return Response{Status: resp.StatusCode, Body: data}, nil
}
