package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/v1/feeds/abc":         "/v1/feeds/{feed_id}",
		"/v1/feeds/abc/reroll":  "/v1/feeds/{feed_id}/reroll",
		"/assets/windows/a.jpg": "/assets/{key}",
		"/v1/projects":          "/v1/projects",
		"/healthz":              "/healthz",
		"/v1/feeds":             "/v1/feeds",
		"/wp-login.php":         "other",
		"/v1/feeds/a/b":         "other",
		"/v1/feeds/":            "other",
		"/assets/":              "other",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddlewareCountsRequestsByRoute(t *testing.T) {
	m := NewHTTPServerMetrics("portfolio-api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/feeds/"+id, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("portfolio-api", http.MethodGet, "/v1/feeds/{feed_id}", "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}

func TestMiddlewareFoldsUnknownPaths(t *testing.T) {
	m := NewHTTPServerMetrics("portfolio-api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, p := range []string{"/a", "/b/c", "/random-123"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("portfolio-api", http.MethodGet, "other", "404"))
	if got != 3 {
		t.Fatalf("expected 3 requests under other, got %v", got)
	}
	if n := testutil.CollectAndCount(m.requestTotal); n != 1 {
		t.Fatalf("expected a single label set, got %d", n)
	}
}

func TestFeedObserverUpdatesMetrics(t *testing.T) {
	m := NewHTTPServerMetrics("portfolio-api")
	m.FeedCreated(20, 6)
	m.FeedRerolled(6)
	m.FeedRerolled(6)
	m.ActiveSessions(3)

	if got := testutil.ToFloat64(m.feedsCreatedTotal.WithLabelValues("portfolio-api")); got != 1 {
		t.Fatalf("expected 1 created feed, got %v", got)
	}
	if got := testutil.ToFloat64(m.feedRerollsTotal.WithLabelValues("portfolio-api")); got != 2 {
		t.Fatalf("expected 2 rerolls, got %v", got)
	}
	if got := testutil.ToFloat64(m.feedCatalogSize); got != 20 {
		t.Fatalf("expected catalog gauge 20, got %v", got)
	}
	if got := testutil.ToFloat64(m.feedActiveSessions); got != 3 {
		t.Fatalf("expected 3 active sessions, got %v", got)
	}

	res := httptest.NewRecorder()
	m.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "portfolio_feed_rerolls_total") {
		t.Fatalf("expected exported feed metrics, got %s", res.Body.String())
	}
}

func TestWorkerMetricsRecordsRefreshStatus(t *testing.T) {
	m := NewWorkerMetrics("portfolio-worker")

	m.StartRefresh()
	m.FinishRefresh("portfolio-worker", 10*time.Millisecond, 12, nil)
	m.StartRefresh()
	m.FinishRefresh("portfolio-worker", 5*time.Millisecond, 0, errors.New("db down"))

	if got := testutil.ToFloat64(m.refreshTotal.WithLabelValues("portfolio-worker", "success")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.refreshTotal.WithLabelValues("portfolio-worker", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(m.catalogProjects.WithLabelValues("portfolio-worker")); got != 12 {
		t.Fatalf("expected catalog gauge 12 from last success, got %v", got)
	}
	if got := testutil.ToFloat64(m.refreshInFlight); got != 0 {
		t.Fatalf("expected no in-flight refreshes, got %v", got)
	}
}
