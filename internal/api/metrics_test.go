package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", w.Code)
	}
	return w.Body.String()
}

func assertMetrics(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, line := range want {
		if !strings.Contains(body, line) {
			t.Errorf("metrics missing %q", line)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{}, fixtureStore(t), nil)
	h := srv.Handler()

	get(t, h, "/search?q=John+3:16")
	get(t, h, "/search?q=wept")
	get(t, h, "/search?q=wept")

	w, _ := get(t, h, "/metrics")
	assertMetrics(t, w.Body.String(),
		`projection_searches_total{phase="reference"} 1`,
		`projection_searches_total{phase="keyword"} 2`,
		"projection_search_duration_seconds_count 3",
		"go_goroutines",
	)
}

func TestMetricsObserveLoad(t *testing.T) {
	m := NewMetrics()
	m.observeLoad(fixtureStore(t), scripture.LoadReport{
		Versions: []string{"NKJV", "SWAB"},
		Files:    []scripture.FileResult{{Path: "NKJV.xml"}, {Path: "SWAB.xml"}},
	})
	m.setClients(3)

	assertMetrics(t, scrape(t, m),
		"projection_loaded_versions 2",
		"projection_loaded_verses 6",
		"projection_load_passes_total 1",
		"projection_load_file_errors_total 0",
		"projection_websocket_clients 3",
	)
}
