package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/telemetry"
)

const (
	upstreamLoginPath = "/api/auth/login"
	// the backend does not report expiry, so tokens are renewed on this schedule
	upstreamTokenTTL = 30 * time.Minute
)

var ErrUpstreamLogin = errors.New("upstream login failed")

// SessionConfig selects how the backend bearer token is obtained.
// A static token wins over credentials; with neither, requests go unauthenticated.
type SessionConfig struct {
	BaseURL  string
	Token    string
	Email    string
	Password string
}

// LoginPoster is the part of telemetry.HTTPTransport used to log in upstream.
type LoginPoster interface {
	Post(ctx context.Context, url string, headers http.Header, body []byte) (telemetry.Response, error)
}

// UpstreamSession supplies the bearer token sent to the sensor backend.
type UpstreamSession struct {
	cfg    SessionConfig
	poster LoginPoster
	log    *logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var (
	_ telemetry.TokenSource      = (*UpstreamSession)(nil)
	_ telemetry.TokenInvalidator = (*UpstreamSession)(nil)
)

// NewUpstreamSession logs in through poster, normally the transport the resolver uses.
func NewUpstreamSession(cfg SessionConfig, poster LoginPoster, log *logger.Logger) *UpstreamSession {
	return &UpstreamSession{
		cfg:    cfg,
		poster: poster,
		log:    log.Named("session"),
		now:    time.Now,
	}
}

// Token returns the static token, or a cached login token renewed when stale.
func (s *UpstreamSession) Token(ctx context.Context) (string, error) {
	if s.cfg.Token != "" {
		return s.cfg.Token, nil
	}
	if s.cfg.Email == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiresAt = s.now().Add(upstreamTokenTTL)
	s.log.Infow("upstream_login_ok", "email", s.cfg.Email)
	return token, nil
}

// Invalidate drops the cached token so the next call logs in again.
// The resolver calls it when the backend answers 401 or 403.
func (s *UpstreamSession) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Detail      string `json:"detail"`
}

func (s *UpstreamSession) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Email: s.cfg.Email, Password: s.cfg.Password})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + upstreamLoginPath
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	resp, err := s.poster.Post(ctx, url, headers, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamLogin, err)
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil && resp.Status < 300 {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstreamLogin, err)
	}
	if resp.Status < 200 || resp.Status > 299 {
		return "", fmt.Errorf("%w: status %d %s", ErrUpstreamLogin, resp.Status, out.Detail)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", ErrUpstreamLogin)
	}
	return out.AccessToken, nil
}
