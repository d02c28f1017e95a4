package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
)

func fixtureStore(t *testing.T) *scripture.Store {
	t.Helper()
	b := scripture.NewBuilder()
	b.Add("NKJV", "Genesis", 1, 1, "In the beginning God created the heavens and the earth.")
	b.Add("NKJV", "Genesis", 1, 2, "The earth was without form, and void.")
	b.Add("NKJV", "John", 3, 16, "For God so loved the world that He gave His only begotten Son.")
	b.Add("NKJV", "John", 11, 35, "Jesus wept.")
	b.Add("SWAB", "Genesis", 1, 1, "Hapo mwanzo Mungu aliziumba mbingu na nchi.")
	b.Add("SWAB", "John", 3, 16, "Kwa maana jinsi hii Mungu aliupenda ulimwengu.")
	b.SetDisplayName("SWAB", "Genesis", "Mwanzo")
	b.SetDisplayName("SWAB", "John", "Yohana")
	store := scripture.NewStore()
	store.Replace(b.Snapshot())
	return store
}

func newTestServer(t *testing.T, cfg Config, store *scripture.Store, loader *scripture.Loader) *Server {
	t.Helper()
	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = "NKJV"
	}
	srv, err := New(cfg, scripture.NewEngine(store, scripture.SearchOptions{}), loader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

// get runs a request through the full middleware chain.
func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	return do(t, h, httptest.NewRequest(http.MethodGet, target, nil))
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var resp APIResponse
	if ct := w.Header().Get("Content-Type"); ct == "application/json" {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s: %v\n%s", req.URL, err, w.Body.String())
		}
	}
	return w, resp
}

// decodeData re-decodes resp.Data into v.
func decodeData(t *testing.T, resp APIResponse, v any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, raw)
	}
}
