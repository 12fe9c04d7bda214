package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturedrive/internal/capture"
	"github.com/ayusman/gesturedrive/internal/control"
	"github.com/ayusman/gesturedrive/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(Config{Store: st})
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
	if resp["uptime"] == "" {
		t.Error("uptime missing")
	}
}

func TestServer_Health_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestServer_Modes(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/modes", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Modes []struct {
			ID               string  `json:"id"`
			Name             string  `json:"name"`
			TimeLimitSeconds float64 `json:"time_limit_seconds"`
		} `json:"modes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Modes) != 5 {
		t.Fatalf("got %d modes, want 5", len(resp.Modes))
	}
	last := resp.Modes[len(resp.Modes)-1]
	if last.ID != "time_trial" || last.TimeLimitSeconds != 120 {
		t.Errorf("last mode = %+v, want time_trial with 120s limit", last)
	}
}

func TestTelemetryHub_Broadcast(t *testing.T) {
	s := newTestServer(t)

	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/telemetry"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client.
	deadline := time.Now().Add(2 * time.Second)
	for s.Telemetry().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	published := control.ControlState{
		Steering:      -0.5,
		Throttle:      0.8,
		GestureName:   "Turning Left",
		StableCommand: control.CommandLeft,
	}
	s.Telemetry().Publish(published)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got control.ControlState
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("failed to read telemetry: %v", err)
	}
	if got.Steering != -0.5 || got.Throttle != 0.8 {
		t.Errorf("got %+v, want published state", got)
	}
	if got.StableCommand != control.CommandLeft {
		t.Errorf("StableCommand = %q, want LEFT", got.StableCommand)
	}
}

func TestTelemetryHub_DropsDeadClients(t *testing.T) {
	s := newTestServer(t)

	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/telemetry"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Telemetry().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	// Publishing to the closed connection evicts it.
	deadline = time.Now().Add(2 * time.Second)
	for s.Telemetry().ClientCount() != 0 {
		s.Telemetry().Publish(control.ControlState{})
		if time.Now().After(deadline) {
			t.Fatal("dead client never evicted")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamHandler_ServesBufferedFrames(t *testing.T) {
	frames := capture.NewFrameBuffer()
	defer frames.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frames.Update(&frame)

	s := New(Config{Frames: frames})

	// The handler streams until the client goes away; a short context
	// deadline plays that part.
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %q, want multipart/x-mixed-replace", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "--frame") {
		t.Error("body missing multipart boundary")
	}
	if !strings.Contains(body, "image/jpeg") {
		t.Error("body missing jpeg part header")
	}
}

func TestStreamHandler_NotRoutedWithoutBuffer(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
