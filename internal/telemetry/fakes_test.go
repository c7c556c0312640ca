package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"sensor_dashboard/internal/models"
)

type fakeRoute struct {
	status int
	body   string
	err    error
}

// fakeTransport answers from a fixed route table and records every call.
type fakeTransport struct {
	mu          sync.Mutex
	routes      map[string]fakeRoute
	calls       []string
	lastHeaders http.Header
	block       chan struct{} // when set, Get waits for it (or ctx) before answering
}

func newFakeTransport(routes map[string]fakeRoute) *fakeTransport {
	return &fakeTransport{routes: routes}
}

func (f *fakeTransport) Get(ctx context.Context, url string, headers http.Header) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.lastHeaders = headers.Clone()
	route, ok := f.routes[url]
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
	if !ok {
		return Response{Status: http.StatusNotFound}, nil
	}
	if route.err != nil {
		return Response{}, route.err
	}
	return Response{Status: route.status, Body: []byte(route.body)}, nil
}

func (f *fakeTransport) setRoute(url string, r fakeRoute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[url] = r
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) callsTo(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

// recordingSink captures everything the scheduler publishes.
type recordingSink struct {
	mu          sync.Mutex
	readings    []models.Reading
	statuses    []models.ConnectionStatus
	trends      []json.RawMessage
	dataQuality []json.RawMessage
	summaries   []json.RawMessage
	pipeline    []json.RawMessage
}

func (s *recordingSink) OnReading(r models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, r)
}

func (s *recordingSink) OnStatus(st models.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, st)
}

func (s *recordingSink) OnTrends(p json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends = append(s.trends, p)
}

func (s *recordingSink) OnDataQuality(p json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataQuality = append(s.dataQuality, p)
}

func (s *recordingSink) OnSummary(p json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, p)
}

func (s *recordingSink) OnPipelineStats(p json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipeline = append(s.pipeline, p)
}

func (s *recordingSink) counts() (readings, statuses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings), len(s.statuses)
}

func (s *recordingSink) analyticsCounts() (trends, quality, summaries, pipeline int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trends), len(s.dataQuality), len(s.summaries), len(s.pipeline)
}

func (s *recordingSink) lastStatus() models.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) == 0 {
		return models.ConnectionStatus{}
	}
	return s.statuses[len(s.statuses)-1]
}

// setBlock makes every following Get wait on ch (or its ctx).
func (f *fakeTransport) setBlock(ch chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block = ch
}

// eventually polls cond until it holds or waitFor elapses.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitFor)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(pollTick)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// never fails if cond holds at any point during d.
func never(t *testing.T, what string, cond func() bool, d time.Duration) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			t.Fatalf("unexpected: %s", what)
		}
		time.Sleep(pollTick)
	}
}
