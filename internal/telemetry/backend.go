package telemetry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"sensor_dashboard/internal/logger"
)

// defaultProbeTimeout bounds each base URL probe.
const defaultProbeTimeout = 3 * time.Second

// SelectBaseURL returns the first candidate whose probePath answers 2xx.
// When none answers it falls back to the first candidate so the poller can
// still start and report DISCONNECTED on its own.
func SelectBaseURL(ctx context.Context, t Transport, candidates []string, probePath string, log *logger.Logger) string {
	log = log.Named("backend")
	if len(candidates) == 0 {
		return ""
	}
	if len(candidates) == 1 || probePath == "" {
		return strings.TrimRight(candidates[0], "/")
	}
	for _, c := range candidates {
		base := strings.TrimRight(c, "/")
		pctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
		resp, err := t.Get(pctx, base+probePath, http.Header{})
		cancel()
		if err == nil && resp.Status >= 200 && resp.Status <= 299 {
			log.Infow("backend_selected", "base_url", base)
			return base
		}
		log.Infow("backend_probe_failed", "base_url", base, "status", resp.Status, "err", err)
	}
	fallback := strings.TrimRight(candidates[0], "/")
	log.Warnw("no_backend_answered_probe", "fallback", fallback)
	return fallback
}
