package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/types"
)

func newTestRouter() http.Handler {
	engine := dialogue.NewEngine(dialogue.NewGenerator(dialogue.Options{}), session.NewMemoryStore())
	return NewRouter(NewHandler(engine, practice.DefaultLibrary()))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	got := decodeBody[map[string]string](t, w)
	if got["foo"] != "bar" {
		t.Fatalf("body = %v", got)
	}
}

func TestSessionFlow(t *testing.T) {
	h := newTestRouter()

	w := do(t, h, http.MethodPost, "/api/sessions", map[string]string{"protocol": "six_fs"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	doc := decodeBody[session.Document](t, w)
	if doc.ID == "" || len(doc.Messages) != 1 {
		t.Fatalf("created session = %+v", doc)
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/turns", map[string]string{"text": "I feel a tight anxious part in my chest"})
	if w.Code != http.StatusOK {
		t.Fatalf("turn status = %d: %s", w.Code, w.Body)
	}
	turn := decodeBody[map[string]any](t, w)
	if turn["phaseAfter"] != "focus" {
		t.Fatalf("phaseAfter = %v, want focus", turn["phaseAfter"])
	}
	reply, _ := turn["reply"].(map[string]any)
	if reply["source"] != string(types.SourceFallback) || reply["text"] == "" {
		t.Fatalf("reply = %v", reply)
	}

	w = do(t, h, http.MethodGet, "/api/sessions/"+doc.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	if got := decodeBody[session.Document](t, w); len(got.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(got.Messages))
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/phase", map[string]string{"phase": "befriend"})
	if w.Code != http.StatusOK {
		t.Fatalf("phase status = %d: %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/another-part", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("another-part status = %d: %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/restart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restart status = %d: %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/finish", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("finish status = %d: %s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodPost, "/api/sessions/"+doc.ID+"/turns", map[string]string{"text": "one more"})
	if w.Code != http.StatusConflict {
		t.Fatalf("turn after finish status = %d, want 409", w.Code)
	}
}

func TestCreateSessionDefaultsProtocol(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if doc := decodeBody[session.Document](t, w); doc.Machine.Protocol != types.ProtocolSixFs {
		t.Fatalf("protocol = %q, want six_fs", doc.Machine.Protocol)
	}
}

func TestErrors(t *testing.T) {
	h := newTestRouter()
	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown protocol", http.MethodPost, "/api/sessions", map[string]string{"protocol": "tarot"}, http.StatusBadRequest},
		{"missing session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound},
		{"restart missing", http.MethodPost, "/api/sessions/nope/restart", nil, http.StatusNotFound},
		{"empty text", http.MethodPost, "/api/sessions/nope/turns", map[string]string{"text": "  "}, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/sessions/nope/phase", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := do(t, h, tc.method, tc.path, tc.body)
		if w.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, w.Code, tc.want, w.Body)
		}
		if body := decodeBody[map[string]string](t, w); body["error"] == "" {
			t.Fatalf("%s: missing error message", tc.name)
		}
	}
}

func TestListPractices(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/api/practices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[map[string][]types.Practice](t, w)
	if len(body["practices"]) == 0 {
		t.Fatalf("no practices returned")
	}
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
