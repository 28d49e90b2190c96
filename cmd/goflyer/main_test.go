package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/goflyer/internal/app"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM_MODEL", "LLM_BASE_URL", "REMOTE_URL", "API_URL", "REDIS_ADDR", "ADDR", "DRY_RUN", "VERBOSE", "CACHE_DIR", "GOFLYER_CONFIG"} {
		t.Setenv(k, "")
	}
}

// Smoke test: main.run writes output in dry-run mode with minimal config.
func TestRun_DryRun_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "flyer.json")
	cfg := apppkg.Config{
		Description: "3 bedroom home in Albany",
		OutputPath:  out,
		DryRun:      true,
		CacheDir:    filepath.Join(dir, "cache"),
	}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil || len(b) == 0 {
		t.Fatalf("expected output file, err=%v", err)
	}
}

func TestRun_EmptyDescription_Error(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(in, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	err := run(context.Background(), apppkg.Config{InputPath: in, OutputPath: filepath.Join(dir, "out.json"), DryRun: true})
	if !errors.Is(err, apppkg.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestParseConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "goflyer.yaml")
	yml := "llm:\n  model: file-model\n  base: http://file/v1\nremote:\n  url: http://file-remote\nserver:\n  addr: \":9000\"\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("REMOTE_URL", "http://env-remote")

	cfg, _, err := parseConfig([]string{
		"-config", cfgPath,
		"-env", filepath.Join(dir, "missing.env"),
		"-description", "2 bedroom",
		"-remote.url", "http://flag-remote",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.LLMBaseURL != "http://file/v1" {
		t.Fatalf("file value lost: %q", cfg.LLMBaseURL)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env should beat file: %q", cfg.LLMModel)
	}
	if cfg.RemoteURL != "http://flag-remote" {
		t.Fatalf("flag should beat env: %q", cfg.RemoteURL)
	}
	if cfg.Addr != ":9000" || cfg.OutputPath != "-" || cfg.LLMTemperature != 0.2 {
		t.Fatalf("defaults/file mix wrong: %+v", cfg)
	}
}

func TestParseConfig_DotenvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("LLM_MODEL=dotenv-model\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	cfg, _, err := parseConfig([]string{"-env", envPath, "-description", "x"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.LLMModel != "dotenv-model" {
		t.Fatalf("dotenv not applied: %q", cfg.LLMModel)
	}
}

func TestParseConfig_CORSAndServe(t *testing.T) {
	clearEnv(t)
	cfg, _, err := parseConfig([]string{"-env", "", "-serve", "-addr", "127.0.0.1:0", "-cors.origins", "https://a.test, https://b.test"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if !cfg.Serve || cfg.Addr != "127.0.0.1:0" {
		t.Fatalf("serve flags not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("cors origins=%v", cfg.CORSOrigins)
	}
}

func TestParseConfig_Version(t *testing.T) {
	clearEnv(t)
	_, v, err := parseConfig([]string{"-version"}, io.Discard)
	if err != nil || !v {
		t.Fatalf("version=%v err=%v", v, err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	clearEnv(t)
	if _, _, err := parseConfig([]string{"-env", "", "-description", "x", "-llm.temperature", "3"}, io.Discard); err == nil {
		t.Fatalf("expected temperature validation error")
	}
	if _, _, err := parseConfig([]string{"-env", "", "-output", ""}, io.Discard); err == nil {
		t.Fatalf("expected missing input error")
	}
	if _, _, err := parseConfig([]string{"-no-such-flag"}, io.Discard); err == nil {
		t.Fatalf("expected flag parse error")
	}
}
