package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Input: an inline description wins over InputPath ("-" reads stdin).
	Description string
	InputPath   string

	// Outputs. OutputPath "-" writes the JSON result to stdout.
	OutputPath string
	OutputDir  string
	OutputHTML string
	OutputPDF  string
	OutputText string
	NoManifest bool

	// LLM
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string
	LLMTemperature float32
	LLMCacheOnly   bool

	// Remote generation service
	RemoteURL     string
	RemoteToken   string
	RemoteRetries int
	RemoteTimeout time.Duration

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	// Server
	Serve       bool
	Addr        string
	CORSOrigins []string
	RateLimit   int

	// Behavior
	DryRun  bool
	Verbose bool
}
