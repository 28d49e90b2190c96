package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goflyer/internal/cache"
	"github.com/hyperifyio/goflyer/internal/flyer"
	"github.com/hyperifyio/goflyer/internal/generator"
	"github.com/hyperifyio/goflyer/internal/llm"
	"github.com/hyperifyio/goflyer/internal/remote"
	"github.com/hyperifyio/goflyer/internal/render"
	"github.com/hyperifyio/goflyer/internal/server"
)

// ErrEmptyDescription is returned by Run when the input has no text.
var ErrEmptyDescription = errors.New("empty description")

type App struct {
	cfg    Config
	facade *generator.Facade
	store  cache.Store
	redis  *cache.RedisStore
	stdin  io.Reader
	stdout io.Writer
}

func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg, facade: &generator.Facade{}, stdin: os.Stdin, stdout: os.Stdout}

	switch {
	case strings.TrimSpace(cfg.RedisAddr) != "":
		rs := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheMaxAge)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rs.Ping(pctx)
		cancel()
		if err != nil {
			// a dead cache should not take generation down with it
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; cache disabled")
			_ = rs.Close()
		} else {
			a.store, a.redis = rs, rs
		}
	case strings.TrimSpace(cfg.CacheDir) != "":
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Msg("cache clear failed")
			}
		}
		if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Info().Int("removed", n).Msg("purged expired cache entries")
		}
		if cfg.CacheMaxEntries > 0 {
			if _, err := cache.EnforceLimits(cfg.CacheDir, 0, cfg.CacheMaxEntries); err != nil {
				log.Warn().Err(err).Msg("cache limit enforcement failed")
			}
		}
		a.store = &cache.FileStore{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	if cfg.DryRun {
		log.Info().Msg("dry run: using local generator only")
		return a, nil
	}

	if strings.TrimSpace(cfg.RemoteURL) != "" {
		a.facade.Primaries = append(a.facade.Primaries, remote.NewClient(cfg.RemoteURL, remote.Options{
			Token:      cfg.RemoteToken,
			RetryMax:   cfg.RemoteRetries,
			Timeout:    cfg.RemoteTimeout,
			HTTPClient: newBackendHTTPClient(),
		}))
	}
	if strings.TrimSpace(cfg.LLMModel) != "" {
		provider := llm.NewOpenAI(llm.Options{BaseURL: cfg.LLMBaseURL, APIKey: cfg.LLMAPIKey, HTTPClient: newBackendHTTPClient()})
		a.facade.Primaries = append(a.facade.Primaries, &generator.LLM{
			Client:      provider,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			Cache:       a.store,
			Verbose:     cfg.Verbose,
			CacheOnly:   cfg.LLMCacheOnly,
		})
		if !cfg.LLMCacheOnly {
			preflight(ctx, provider)
		}
	}
	return a, nil
}

// preflight lists models so a misconfigured endpoint shows up in the logs
// early. It never fails: the facade falls back anyway.
func preflight(ctx context.Context, ml llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := ml.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// Generate is the facade entry point shared by Run and Serve.
func (a *App) Generate(ctx context.Context, description string) flyer.Result {
	return a.facade.Generate(ctx, description)
}

// Run generates a single flyer and writes every configured output.
func (a *App) Run(ctx context.Context) error {
	description, err := a.readDescription()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}

	res := a.Generate(ctx, description)
	log.Info().Str("source", string(res.Source)).Str("title", res.Data.Title).Int("features", len(res.Data.Features)).Msg("flyer generated")

	out := a.cfg.OutputPath
	if out == "" {
		out = deriveOutputPath(a.cfg.OutputDir, res.Data.Title, description)
	}
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	payload = append(payload, '\n')
	if out == "-" {
		if _, err := a.stdout.Write(payload); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		if err := writeFile(out, payload); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", out).Msg("wrote flyer json")
		if !a.cfg.NoManifest {
			meta := manifestFor(a.cfg, res, description)
			if data, err := marshalManifestJSON(meta); err == nil {
				if err := writeFile(deriveManifestSidecarPath(out), data); err != nil {
					log.Warn().Err(err).Msg("manifest write failed")
				}
			}
		}
	}

	if a.cfg.OutputHTML != "" {
		if err := render.WriteHTMLFile(a.cfg.OutputHTML, res.Data); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputHTML).Msg("wrote html preview")
	}
	if a.cfg.OutputPDF != "" {
		if err := render.WritePDFFile(a.cfg.OutputPDF, res.Data); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDF).Msg("wrote pdf flyer")
	}
	if a.cfg.OutputText != "" {
		if err := render.WriteTextFile(a.cfg.OutputText, res.Data); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}

func (a *App) readDescription() (string, error) {
	if strings.TrimSpace(a.cfg.Description) != "" {
		return a.cfg.Description, nil
	}
	if a.cfg.InputPath == "-" {
		b, err := io.ReadAll(a.stdin)
		return string(b), err
	}
	b, err := os.ReadFile(a.cfg.InputPath)
	return string(b), err
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr: a.cfg.Addr,
		Handler: server.NewRouter(a, server.Options{
			AllowedOrigins: a.cfg.CORSOrigins,
			RateLimit:      a.cfg.RateLimit,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.Addr).Int("primaries", len(a.facade.Primaries)).Msg("goflyer listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
