package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
)

func dial(t *testing.T, ts *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	return websocket.DefaultDialer.Dial(url, header)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return ev
}

func TestWebSocketWelcomeAndReload(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("NKJV.xml", `<bible><b n="John"><c n="11"><v n="35">Jesus wept.</v></c></b></bible>`)

	store := scripture.NewStore()
	loader := scripture.NewLoader(store, scripture.WithCandidates(dir))
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, Config{}, store, loader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := dial(t, ts, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	ev := readEvent(t, conn)
	if ev.Type != EventBiblesLoaded || strings.Join(ev.Versions, ",") != "NKJV" {
		t.Errorf("welcome event = %+v", ev)
	}

	write("SWAB.xml", `<bible><b n="Yohana"><c n="11"><v n="35">Yesu akalia machozi.</v></c></b></bible>`)
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	ev = readEvent(t, conn)
	if ev.Type != EventBiblesLoaded || strings.Join(ev.Versions, ",") != "NKJV,SWAB" || ev.Files != 2 {
		t.Errorf("reload event = %+v", ev)
	}
}

func TestWebSocketNoWelcomeBeforeLoad(t *testing.T) {
	store := scripture.NewStore()
	srv := newTestServer(t, Config{}, store, nil)
	if _, ok := srv.welcome(); ok {
		t.Error("welcome sent before first load")
	}
	store.Replace(nil)
	msg, ok := srv.welcome()
	if !ok || !strings.Contains(string(msg), `"versions":[]`) {
		t.Errorf("welcome after empty load = %s, %v", msg, ok)
	}
}

func TestWebSocketOriginRejected(t *testing.T) {
	srv := newTestServer(t, Config{AllowedOrigins: []string{"http://dashboard.local"}}, fixtureStore(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, resp, err := dial(t, ts, http.Header{"Origin": {"http://evil.example"}})
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %+v", resp)
	}

	conn, _, err := dial(t, ts, http.Header{"Origin": {"http://dashboard.local"}})
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestHubShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub()
	counts := make(chan int, 4)
	hub.onCount = func(n int) { counts <- n }

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{id: "test", hub: hub, send: make(chan []byte, sendBuffer)}
	hub.register <- client
	if n := <-counts; n != 1 {
		t.Fatalf("count = %d", n)
	}

	hub.Broadcast(Event{Type: EventBiblesLoaded})
	select {
	case msg := <-client.send:
		if !strings.Contains(string(msg), EventBiblesLoaded) {
			t.Errorf("message = %s", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast not delivered")
	}

	cancel()
	<-stopped
	if _, ok := <-client.send; ok {
		t.Error("client channel still open after shutdown")
	}
	// Leaving after shutdown must not block.
	client.leave()
	hub.Broadcast(Event{Type: EventBiblesLoaded})
}

func TestLoadedEvent(t *testing.T) {
	ev := LoadedEvent(scripture.LoadReport{})
	if ev.Versions == nil || ev.Type != EventBiblesLoaded || ev.Timestamp == "" {
		t.Errorf("event = %+v", ev)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		origin  string
		allowed []string
		want    bool
	}{
		{"http://anything", nil, true},
		{"", []string{"http://a"}, false},
		{"http://a", []string{"http://a"}, true},
		{"http://b", []string{"http://a"}, false},
		{"http://b", []string{"*"}, true},
		{"https://app.church.org", []string{"*.church.org"}, true},
		{"https://evilchurch.org", []string{"*.church.org"}, false},
	}
	for _, tt := range tests {
		if got := isOriginAllowed(tt.origin, tt.allowed); got != tt.want {
			t.Errorf("isOriginAllowed(%q, %v) = %v, want %v", tt.origin, tt.allowed, got, tt.want)
		}
	}
}
