package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/goflyer/internal/flyer"
	"github.com/hyperifyio/goflyer/internal/generator"
	"github.com/hyperifyio/goflyer/internal/remote"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(&generator.Facade{}, opts))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(b)) != `{"ok":true}` {
		t.Fatalf("status=%d body=%s", resp.StatusCode, b)
	}
}

func TestGenerate_LocalFallback(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+remote.GeneratePath, `{"description":"Beautiful large 3 bedroom, and swimming pool, 3400 sq ft, home for sale at Albany 12034","type":"real_estate_flyer"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var res flyer.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success || res.Data.Title != "3 Bedroom, 3400 sq ft Home" || res.Data.Subtitle != "Located in Albany" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGenerate_BadRequests(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, body := range []string{
		`{"description":"   "}`,
		`{"description":`,
		`{"description":"2 bedroom","type":"poster"}`,
	} {
		resp := post(t, srv.URL+remote.GeneratePath, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: status=%d, want 400", body, resp.StatusCode)
		}
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Success || e.Error == "" {
			t.Fatalf("body %s: bad error payload %+v err=%v", body, e, err)
		}
	}
}

func TestPreview_ReturnsHTML(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/flyer/preview", `{"description":"2 bedroom condo in Springfield"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content-type=%q", ct)
	}
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "Located in Springfield") {
		t.Fatalf("preview missing subtitle:\n%s", b)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 1})
	first := post(t, srv.URL+remote.GeneratePath, `{"description":"2 bedroom"}`)
	second := post(t, srv.URL+remote.GeneratePath, `{"description":"2 bedroom"}`)
	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("statuses=%d,%d", first.StatusCode, second.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:3000"}})
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+remote.GeneratePath, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}
}
