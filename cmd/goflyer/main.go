package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goflyer/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if showVersion {
		fmt.Printf("goflyer %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// An empty description is a usage problem; everything else is a runtime failure.
		if errors.Is(err, app.ErrEmptyDescription) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// parseConfig builds the effective configuration. Precedence, lowest first:
// defaults, config file, dotenv files and process env, explicitly set flags.
func parseConfig(args []string, stderr io.Writer) (app.Config, bool, error) {
	fs := flag.NewFlagSet("goflyer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfg         app.Config
		configPath  string
		envFiles    string
		corsOrigins string
		temperature float64
		showVersion bool
	)
	defaults := app.Config{
		OutputPath:     "-",
		LLMTemperature: 0.2,
		CacheDir:       ".goflyer-cache",
		Addr:           ":8080",
		RateLimit:      60,
	}
	cfg = defaults

	fs.StringVar(&configPath, "config", os.Getenv("GOFLYER_CONFIG"), "Path to a YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load (missing files are skipped)")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.StringVar(&cfg.Description, "description", "", "Property description text (overrides -input)")
	fs.StringVar(&cfg.InputPath, "input", "", "Path to a file holding the description, or - for stdin")
	fs.StringVar(&cfg.OutputPath, "output", defaults.OutputPath, "Path to write the JSON result, or - for stdout")
	fs.StringVar(&cfg.OutputDir, "output.dir", "", "Directory for a derived output name when -output is empty")
	fs.StringVar(&cfg.OutputHTML, "output.html", "", "Optional path for an HTML preview")
	fs.StringVar(&cfg.OutputPDF, "output.pdf", "", "Optional path for a PDF flyer sheet")
	fs.StringVar(&cfg.OutputText, "output.text", "", "Optional path for a plain-text rendering")
	fs.BoolVar(&cfg.NoManifest, "no-manifest", false, "Do not write the manifest sidecar next to the JSON output")

	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name; empty disables the LLM generator")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for the OpenAI-compatible server")
	fs.Float64Var(&temperature, "llm.temperature", float64(defaults.LLMTemperature), "Sampling temperature")
	fs.BoolVar(&cfg.LLMCacheOnly, "llm.cacheOnly", false, "Serve LLM results from cache only; a miss falls back locally")

	fs.StringVar(&cfg.RemoteURL, "remote.url", "", "Base URL of the remote flyer content service")
	fs.StringVar(&cfg.RemoteToken, "remote.token", "", "Bearer token forwarded to the remote service")
	fs.IntVar(&cfg.RemoteRetries, "remote.retries", 0, "Retries for transient remote failures")
	fs.DurationVar(&cfg.RemoteTimeout, "remote.timeout", 0, "Per-request timeout for the remote service (0 uses the client default)")

	fs.StringVar(&cfg.CacheDir, "cache.dir", defaults.CacheDir, "Cache directory path")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	fs.IntVar(&cfg.CacheMaxEntries, "cache.maxEntries", 0, "Maximum number of cache entries to keep; 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.StringVar(&cfg.RedisAddr, "redis.addr", "", "Redis address; when reachable it replaces the file cache")
	fs.StringVar(&cfg.RedisPassword, "redis.password", "", "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis.db", 0, "Redis database number")

	fs.BoolVar(&cfg.Serve, "serve", false, "Run the HTTP API instead of a single generation")
	fs.StringVar(&cfg.Addr, "addr", defaults.Addr, "Listen address for -serve")
	fs.StringVar(&corsOrigins, "cors.origins", "", "Comma-separated allowed CORS origins (empty allows all)")
	fs.IntVar(&cfg.RateLimit, "rate.limit", defaults.RateLimit, "Requests per minute per client IP; negative disables")

	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Skip remote and LLM generators and use the local generator only")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return app.Config{}, true, nil
	}

	// Snapshot explicit flag values; file and env are layered underneath them.
	flagged := cfg
	flagged.LLMTemperature = float32(temperature)
	flagged.CORSOrigins = app.SplitList(corsOrigins)
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg = defaults
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(app.SplitList(envFiles)...); err != nil {
		return app.Config{}, false, fmt.Errorf("load env files: %w", err)
	}
	app.ApplyEnvOverrides(&cfg)
	applyExplicitFlags(&cfg, flagged, set)

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, false, err
	}
	return cfg, false, nil
}

// applyExplicitFlags copies the fields whose flags were set on the command line.
func applyExplicitFlags(cfg *app.Config, f app.Config, set map[string]bool) {
	copyIf := func(name string, apply func()) {
		if set[name] {
			apply()
		}
	}
	copyIf("description", func() { cfg.Description = f.Description })
	copyIf("input", func() { cfg.InputPath = f.InputPath })
	copyIf("output", func() { cfg.OutputPath = f.OutputPath })
	copyIf("output.dir", func() { cfg.OutputDir = f.OutputDir })
	copyIf("output.html", func() { cfg.OutputHTML = f.OutputHTML })
	copyIf("output.pdf", func() { cfg.OutputPDF = f.OutputPDF })
	copyIf("output.text", func() { cfg.OutputText = f.OutputText })
	copyIf("no-manifest", func() { cfg.NoManifest = f.NoManifest })
	copyIf("llm.base", func() { cfg.LLMBaseURL = f.LLMBaseURL })
	copyIf("llm.model", func() { cfg.LLMModel = f.LLMModel })
	copyIf("llm.key", func() { cfg.LLMAPIKey = f.LLMAPIKey })
	copyIf("llm.temperature", func() { cfg.LLMTemperature = f.LLMTemperature })
	copyIf("llm.cacheOnly", func() { cfg.LLMCacheOnly = f.LLMCacheOnly })
	copyIf("remote.url", func() { cfg.RemoteURL = f.RemoteURL })
	copyIf("remote.token", func() { cfg.RemoteToken = f.RemoteToken })
	copyIf("remote.retries", func() { cfg.RemoteRetries = f.RemoteRetries })
	copyIf("remote.timeout", func() { cfg.RemoteTimeout = f.RemoteTimeout })
	copyIf("cache.dir", func() { cfg.CacheDir = f.CacheDir })
	copyIf("cache.maxAge", func() { cfg.CacheMaxAge = f.CacheMaxAge })
	copyIf("cache.maxEntries", func() { cfg.CacheMaxEntries = f.CacheMaxEntries })
	copyIf("cache.clear", func() { cfg.CacheClear = f.CacheClear })
	copyIf("cache.strictPerms", func() { cfg.CacheStrictPerms = f.CacheStrictPerms })
	copyIf("redis.addr", func() { cfg.RedisAddr = f.RedisAddr })
	copyIf("redis.password", func() { cfg.RedisPassword = f.RedisPassword })
	copyIf("redis.db", func() { cfg.RedisDB = f.RedisDB })
	copyIf("serve", func() { cfg.Serve = f.Serve })
	copyIf("addr", func() { cfg.Addr = f.Addr })
	copyIf("cors.origins", func() { cfg.CORSOrigins = f.CORSOrigins })
	copyIf("rate.limit", func() { cfg.RateLimit = f.RateLimit })
	copyIf("dry-run", func() { cfg.DryRun = f.DryRun })
	copyIf("v", func() { cfg.Verbose = f.Verbose })
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	if cfg.Serve {
		return a.Serve(ctx)
	}
	return a.Run(ctx)
}
