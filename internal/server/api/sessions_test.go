package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/gesturedrive/internal/store"
)

func newTestHandler(t *testing.T) (*SessionsHandler, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return NewSessionsHandler(st), st
}

func seedSession(t *testing.T, st *store.Store) *store.Session {
	t.Helper()

	sess := &store.Session{
		Mode:          "normal",
		Score:         300,
		Collisions:    1,
		ObjectsPassed: 20,
		Duration:      2 * time.Minute,
	}
	if err := st.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return sess
}

func TestSessionsHandler_ListEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Sessions == nil {
		t.Error("sessions should be an empty array, not null")
	}
	if len(resp.Sessions) != 0 {
		t.Errorf("got %d sessions, want 0", len(resp.Sessions))
	}
}

func TestSessionsHandler_List(t *testing.T) {
	h, st := newTestHandler(t)
	seedSession(t, st)
	seedSession(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions?limit=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp struct {
		Sessions []sessionResponse `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Errorf("got %d sessions with limit=1, want 1", len(resp.Sessions))
	}
}

func TestSessionsHandler_List_InvalidLimit(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions?limit=banana", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionsHandler_Get(t *testing.T) {
	h, st := newTestHandler(t)
	sess := seedSession(t, st)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != sess.ID || got.Mode != "normal" || got.DurationSeconds != 120 {
		t.Errorf("got %+v, want seeded session", got)
	}
}

func TestSessionsHandler_Get_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSessionsHandler_Delete(t *testing.T) {
	h, st := newTestHandler(t)
	sess := seedSession(t, st)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}

func TestSessionsHandler_Latency(t *testing.T) {
	h, st := newTestHandler(t)
	sess := seedSession(t, st)

	if err := st.Latencies().RecordBatch(sess.ID, map[string][]float64{
		"detect":  {0.04, 0.06},
		"capture": {0.01},
	}); err != nil {
		t.Fatalf("failed to seed latencies: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/latency", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp latencyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != sess.ID {
		t.Errorf("session_id = %q, want %q", resp.SessionID, sess.ID)
	}
	if got := resp.MeanByStage["detect"]; got < 0.049 || got > 0.051 {
		t.Errorf("detect mean = %v, want 0.05", got)
	}
}

func TestSessionsHandler_MethodNotAllowed(t *testing.T) {
	h, st := newTestHandler(t)
	sess := seedSession(t, st)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/sessions"},
		{http.MethodPut, "/api/sessions/" + sess.ID},
		{http.MethodDelete, "/api/sessions/" + sess.ID + "/latency"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", tc.method, tc.path, rec.Code)
		}
	}
}
