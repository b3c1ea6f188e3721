package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/verte-zerg/pentrust/internal/analyzer"
	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/scoring"
	"github.com/verte-zerg/pentrust/internal/session"
	"github.com/verte-zerg/pentrust/internal/stats"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	remedies, err := analyzer.DefaultRemedies()
	if err != nil {
		t.Fatalf("load remedies: %v", err)
	}
	reg := session.NewRegistry(analyzer.New(scoring.NewStable(11), remedies), nil)
	srv := httptest.NewServer(New(reg, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, target, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	t.Cleanup(func() {
		if cerr := resp.Body.Close(); cerr != nil {
			_ = cerr
		}
	})
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	resp := do(t, http.MethodPost, base+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID string `json:"id"`
	}
	decode(t, resp, &body)
	if body.ID == "" {
		t.Fatalf("expected session id")
	}
	return body.ID
}

func runText(t *testing.T, base, id, text string) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"text": text})
	return do(t, http.MethodPost, base+"/api/sessions/"+id+"/runs", string(payload))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRunAndQuery(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)

	resp := runText(t, srv.URL, id, "https://a.com\nhttps://b.com")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from run, got %d", resp.StatusCode)
	}
	var batch model.Batch
	decode(t, resp, &batch)
	if batch.Len() != 2 || batch.Records[0].Identifier != "https://a.com" {
		t.Fatalf("unexpected batch: %v", batch.Identifiers())
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/summary", "")
	var summary stats.Summary
	decode(t, resp, &summary)
	if summary.Count != 2 {
		t.Fatalf("expected 2 pages in summary, got %d", summary.Count)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/summary?focus="+url.QueryEscape("https://a.com"), "")
	decode(t, resp, &summary)
	if summary.Count != 1 || summary.Means[model.FieldClarity] != batch.Records[0].Scores.Clarity {
		t.Fatalf("unexpected focused summary: %+v", summary)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/chart", "")
	var chart stats.Chart
	decode(t, resp, &chart)
	if len(chart.Labels) != 2 || len(chart.Series) != 3 {
		t.Fatalf("unexpected chart: %+v", chart)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/detail?identifier="+url.QueryEscape("https://b.com"), "")
	var rec model.Record
	decode(t, resp, &rec)
	if rec.Identifier != "https://b.com" {
		t.Fatalf("unexpected detail: %s", rec.Identifier)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/batch", "")
	var again model.Batch
	decode(t, resp, &again)
	if again.RunID != batch.RunID {
		t.Fatalf("expected batch endpoint to return latest run")
	}
}

func TestRunWithoutInput(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)
	if resp := runText(t, srv.URL, id, "a"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected first run to succeed")
	}
	resp := runText(t, srv.URL, id, " \n \n")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body errorResponse
	decode(t, resp, &body)
	if !strings.Contains(body.Error, "at least one") {
		t.Fatalf("unexpected error message %q", body.Error)
	}
	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/batch", "")
	var batch model.Batch
	decode(t, resp, &batch)
	if batch.Len() != 1 {
		t.Fatalf("expected previous batch to be kept")
	}
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope/batch", "", http.StatusNotFound},
		{"no batch yet", http.MethodGet, "/api/sessions/" + id + "/summary", "", http.StatusConflict},
		{"bad body", http.MethodPost, "/api/sessions/" + id + "/runs", "{", http.StatusBadRequest},
		{"missing identifier", http.MethodGet, "/api/sessions/" + id + "/detail", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := do(t, tc.method, srv.URL+tc.path, tc.body)
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}

	runText(t, srv.URL, id, "a")
	resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/detail?identifier=zzz", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown identifier, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/chart?focus=zzz", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown focus, got %d", resp.StatusCode)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a := createSession(t, srv.URL)
	b := createSession(t, srv.URL)
	runText(t, srv.URL, a, "https://a.com")

	resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+b+"/batch", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected session b to have no batch, got %d", resp.StatusCode)
	}
	runText(t, srv.URL, b, "x\ny\nz")
	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+a+"/batch", "")
	var batch model.Batch
	decode(t, resp, &batch)
	if batch.Len() != 1 {
		t.Fatalf("expected session a to keep its own batch, got %d records", batch.Len())
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)
	if resp := do(t, http.MethodDelete, srv.URL+"/api/sessions/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/batch", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv.URL)
	runText(t, srv.URL, id, "https://a.com")
	resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/report?format=html", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/report?format=pdf", ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", resp.StatusCode)
	}
}

func TestRunLimit(t *testing.T) {
	remedies, err := analyzer.DefaultRemedies()
	if err != nil {
		t.Fatalf("load remedies: %v", err)
	}
	reg := session.NewRegistry(analyzer.New(scoring.NewStable(1), remedies), nil)
	srv := httptest.NewServer(New(reg, nil, WithRunLimit(0.001, 1)).Handler())
	t.Cleanup(srv.Close)

	id := createSession(t, srv.URL)
	if resp := runText(t, srv.URL, id, "a"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected first run to pass, got %d", resp.StatusCode)
	}
	resp := runText(t, srv.URL, id, "b")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/batch", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected reads to stay unlimited, got %d", resp.StatusCode)
	}
}
