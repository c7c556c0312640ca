package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// AnalyticsKind selects the AnalyticsSink callback a fetcher feeds.
type AnalyticsKind string

const (
	AnalyticsTrends      AnalyticsKind = "trends"
	AnalyticsDataQuality AnalyticsKind = "data_quality"
	AnalyticsSummary     AnalyticsKind = "summary"
	AnalyticsPipeline    AnalyticsKind = "pipeline_stats"
)

// AnalyticsFetcher is one slow-trigger request.
type AnalyticsFetcher struct {
	Kind AnalyticsKind
	Path string
}

// DefaultAnalyticsFetchers is the detailed polling set of the browser dashboard:
// trends over trendsDays, data quality, a summary over timeframe and the
// backend's ingestion pipeline statistics.
func DefaultAnalyticsFetchers(trendsDays int, timeframe string) []AnalyticsFetcher {
	if trendsDays <= 0 {
		trendsDays = 1
	}
	if timeframe == "" {
		timeframe = "6h"
	}
	return []AnalyticsFetcher{
		{Kind: AnalyticsTrends, Path: "/api/analytics/trends?days=" + strconv.Itoa(trendsDays)},
		{Kind: AnalyticsDataQuality, Path: "/api/analytics/data-quality"},
		{Kind: AnalyticsSummary, Path: "/api/analytics/summary?timeframe=" + url.QueryEscape(timeframe)},
		{Kind: AnalyticsPipeline, Path: "/api/analytics/pipeline-stats"},
	}
}

// FetchJSON GETs path relative to the base URL and returns the body unnormalized.
func (r *Resolver) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	actx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	u := r.URL(EndpointDescriptor{Path: path})
	resp, err := r.transport.Get(actx, u, r.headers(ctx))
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	if resp.Status < 200 || resp.Status > 299 {
		terr := &TransportError{URL: u, Status: resp.Status}
		if isAuthRejection(terr) {
			r.invalidateToken()
		}
		return nil, terr
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, fmt.Errorf("GET %s: body is not valid JSON", u)
	}
	return json.RawMessage(resp.Body), nil
}

func deliverAnalytics(sink AnalyticsSink, kind AnalyticsKind, payload json.RawMessage) {
	switch kind {
	case AnalyticsTrends:
		sink.OnTrends(payload)
	case AnalyticsDataQuality:
		sink.OnDataQuality(payload)
	case AnalyticsSummary:
		sink.OnSummary(payload)
	case AnalyticsPipeline:
		sink.OnPipelineStats(payload)
	}
}
