package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. main calls it after the config file and before re-applying explicit
// flags, so env beats file and flags beat env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.RemoteURL, "REMOTE_URL", "API_URL")
	setString(&cfg.RemoteToken, "REMOTE_TOKEN")
	setString(&cfg.CacheDir, "CACHE_DIR")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Addr, "ADDR")

	setInt := func(dst *int, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	setInt(&cfg.RemoteRetries, "REMOTE_RETRIES")
	setInt(&cfg.RedisDB, "REDIS_DB")
	setInt(&cfg.RateLimit, "RATE_LIMIT")
	setInt(&cfg.CacheMaxEntries, "CACHE_MAX_ENTRIES")

	setDuration := func(dst *time.Duration, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setDuration(&cfg.RemoteTimeout, "REMOTE_TIMEOUT")

	if s := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); s != "" {
		if f, err := strconv.ParseFloat(s, 32); err == nil {
			cfg.LLMTemperature = float32(f)
		}
	}
	if s := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); s != "" {
		cfg.CORSOrigins = SplitList(s)
	}

	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.LLMCacheOnly, "LLM_CACHE_ONLY")
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
