package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goflyer/internal/flyer"
	"github.com/hyperifyio/goflyer/internal/remote"
)

const sampleDescription = "Beautiful large 3 bedroom, and swimming pool, 3400 sq ft, home for sale at Albany 12034"

func readResult(t *testing.T, path string) flyer.Result {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var res flyer.Result
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return res
}

func TestRun_DryRunWritesAllOutputs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "listing.txt")
	if err := os.WriteFile(in, []byte(sampleDescription), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg := Config{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "flyer.json"),
		OutputHTML: filepath.Join(dir, "flyer.html"),
		OutputPDF:  filepath.Join(dir, "flyer.pdf"),
		OutputText: filepath.Join(dir, "flyer.txt"),
		DryRun:     true,
		// DryRun must ignore configured primaries
		RemoteURL: "http://127.0.0.1:1",
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	res := readResult(t, cfg.OutputPath)
	if res.Source != flyer.SourceLocal || res.Data.Title != "3 Bedroom, 3400 sq ft Home" {
		t.Fatalf("result=%+v", res)
	}
	for _, p := range []string{cfg.OutputHTML, cfg.OutputPDF, cfg.OutputText, cfg.OutputPath + ".manifest.json"} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("expected %s, err=%v", p, err)
		}
	}
	var m manifest
	b, _ := os.ReadFile(cfg.OutputPath + ".manifest.json")
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.Facts.Bedrooms != 3 || m.Facts.Location != "Albany" || m.Source != flyer.SourceLocal {
		t.Fatalf("manifest=%+v", m)
	}
}

func TestRun_RemoteFailureFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "flyer.json")
	a, err := New(context.Background(), Config{Description: sampleDescription, OutputPath: out, RemoteURL: srv.URL, NoManifest: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	res := readResult(t, out)
	if res.Source != flyer.SourceLocal || res.Data.Subtitle != "Located in Albany" {
		t.Fatalf("expected local fallback, got %+v", res)
	}
	if _, err := os.Stat(out + ".manifest.json"); !os.IsNotExist(err) {
		t.Fatalf("manifest should be skipped, err=%v", err)
	}
}

func TestRun_RemoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != remote.GeneratePath || r.Header.Get("Authorization") != "Bearer t0k" {
			http.Error(w, "nope", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(flyer.Result{Success: true, Data: flyer.Content{Title: "Remote Title", Features: []string{"Pool"}}})
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "flyer.json")
	a, err := New(context.Background(), Config{Description: sampleDescription, OutputPath: out, RemoteURL: srv.URL, RemoteToken: "t0k"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if res := readResult(t, out); res.Source != flyer.SourceRemote || res.Data.Title != "Remote Title" {
		t.Fatalf("result=%+v", res)
	}
}

func TestRun_StdinToStdout(t *testing.T) {
	a, err := New(context.Background(), Config{InputPath: "-", OutputPath: "-", DryRun: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var stdout bytes.Buffer
	a.stdin = strings.NewReader("2 bedroom condo in Springfield")
	a.stdout = &stdout
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	var res flyer.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, stdout.String())
	}
	if res.Data.Title != "2 Bedroom Home" || res.Data.Subtitle != "Located in Springfield" {
		t.Fatalf("result=%+v", res.Data)
	}
}

func TestRun_OutputDirDerivesName(t *testing.T) {
	dir := t.TempDir()
	a, err := New(context.Background(), Config{Description: "2 bedroom", OutputDir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "2-bedroom-home-*.json"))
	var flyers []string
	for _, m := range matches {
		if !strings.HasSuffix(m, ".manifest.json") {
			flyers = append(flyers, m)
		}
	}
	if len(flyers) != 1 {
		t.Fatalf("expected one derived flyer file, got %v", matches)
	}
}

func TestRun_EmptyDescription(t *testing.T) {
	in := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(in, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := New(context.Background(), Config{InputPath: in, OutputPath: "-", DryRun: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("err=%v, want ErrEmptyDescription", err)
	}
}

func TestNew_FileCacheWired(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	a, err := New(context.Background(), Config{CacheDir: dir, CacheClear: true, DryRun: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.store == nil {
		t.Fatalf("expected file store")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache clear should recreate dir: %v", err)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), Config{Serve: true, Addr: "127.0.0.1:0", DryRun: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}
