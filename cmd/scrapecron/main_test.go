package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendLogCapsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < maxLogEntries+10; i++ {
		entry := logEntry{Timestamp: time.Now(), Status: "ok"}
		if err := appendLog(path, entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != maxLogEntries {
		t.Fatalf("expected %d entries, got %d", maxLogEntries, len(lines))
	}
	for _, line := range lines {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
	}
}

func TestTriggerBuildsSourceQuery(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`{"articles":0,"results":[]}`))
	}))
	defer srv.Close()

	endpoint = srv.URL
	source = "Urząd Miasta"
	timeout = 5 * time.Second
	defer func() { endpoint, source = "", "" }()

	body, err := trigger()
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !json.Valid(body) {
		t.Error("expected JSON body")
	}
	if !strings.HasPrefix(gotPath, "/api/scrape?source=") {
		t.Errorf("unexpected request path %q", gotPath)
	}
}

func TestSourceFailures(t *testing.T) {
	body := []byte(`{"articles":2,"results":[
		{"source":"Urząd Miasta","articles":2},
		{"source":"Centrum Kultury","articles":0,"error":"fetch listing: HTTP 503"}
	]}`)
	failures := sourceFailures(body)
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %v", failures)
	}
	if !strings.Contains(failures[0], "Centrum Kultury") {
		t.Errorf("failure must name the source, got %q", failures[0])
	}

	if got := sourceFailures([]byte(`{"articles":2,"results":[{"source":"A","articles":2}]}`)); got != nil {
		t.Errorf("expected no failures, got %v", got)
	}
}

func TestTriggerRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	endpoint = srv.URL
	source = ""
	timeout = 5 * time.Second
	defer func() { endpoint = "" }()

	if _, err := trigger(); err == nil {
		t.Error("expected error for non-200 response")
	}
}
