package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// onto the dotted flag names.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output struct {
		JSON string `yaml:"json" json:"json"`
		Dir  string `yaml:"dir" json:"dir"`
		HTML string `yaml:"html" json:"html"`
		PDF  string `yaml:"pdf" json:"pdf"`
		Text string `yaml:"text" json:"text"`
	} `yaml:"output" json:"output"`

	LLM struct {
		BaseURL     string  `yaml:"base" json:"base"`
		Model       string  `yaml:"model" json:"model"`
		APIKey      string  `yaml:"key" json:"key"`
		Temperature float32 `yaml:"temperature" json:"temperature"`
		CacheOnly   bool    `yaml:"cacheOnly" json:"cacheOnly"`
	} `yaml:"llm" json:"llm"`

	Remote struct {
		URL     string        `yaml:"url" json:"url"`
		Token   string        `yaml:"token" json:"token"`
		Retries int           `yaml:"retries" json:"retries"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"remote" json:"remote"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Redis struct {
		Addr     string `yaml:"addr" json:"addr"`
		Password string `yaml:"password" json:"password"`
		DB       int    `yaml:"db" json:"db"`
	} `yaml:"redis" json:"redis"`

	Server struct {
		Addr        string   `yaml:"addr" json:"addr"`
		CORSOrigins []string `yaml:"corsOrigins" json:"corsOrigins"`
		RateLimit   int      `yaml:"rateLimit" json:"rateLimit"`
	} `yaml:"server" json:"server"`

	DryRun  bool `yaml:"dryRun" json:"dryRun"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every non-zero value from fc onto cfg. It runs
// before env and flags, so cfg only holds defaults at this point.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	str(&cfg.InputPath, fc.Input)
	str(&cfg.OutputPath, fc.Output.JSON)
	str(&cfg.OutputDir, fc.Output.Dir)
	str(&cfg.OutputHTML, fc.Output.HTML)
	str(&cfg.OutputPDF, fc.Output.PDF)
	str(&cfg.OutputText, fc.Output.Text)

	str(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	str(&cfg.LLMModel, fc.LLM.Model)
	str(&cfg.LLMAPIKey, fc.LLM.APIKey)
	if fc.LLM.Temperature > 0 {
		cfg.LLMTemperature = fc.LLM.Temperature
	}
	if fc.LLM.CacheOnly {
		cfg.LLMCacheOnly = true
	}

	str(&cfg.RemoteURL, fc.Remote.URL)
	str(&cfg.RemoteToken, fc.Remote.Token)
	if fc.Remote.Retries > 0 {
		cfg.RemoteRetries = fc.Remote.Retries
	}
	if fc.Remote.Timeout > 0 {
		cfg.RemoteTimeout = fc.Remote.Timeout
	}

	str(&cfg.CacheDir, fc.Cache.Dir)
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	str(&cfg.RedisAddr, fc.Redis.Addr)
	str(&cfg.RedisPassword, fc.Redis.Password)
	if fc.Redis.DB > 0 {
		cfg.RedisDB = fc.Redis.DB
	}

	str(&cfg.Addr, fc.Server.Addr)
	if len(fc.Server.CORSOrigins) > 0 {
		cfg.CORSOrigins = append([]string{}, fc.Server.CORSOrigins...)
	}
	if fc.Server.RateLimit != 0 {
		cfg.RateLimit = fc.Server.RateLimit
	}

	if fc.DryRun {
		cfg.DryRun = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig checks settings that would otherwise fail late.
func ValidateConfig(cfg Config) error {
	if cfg.Serve {
		if strings.TrimSpace(cfg.Addr) == "" {
			return errors.New("config: server addr is required")
		}
	} else {
		if strings.TrimSpace(cfg.Description) == "" && strings.TrimSpace(cfg.InputPath) == "" {
			return errors.New("config: a description or input path is required")
		}
		if strings.TrimSpace(cfg.OutputPath) == "" && strings.TrimSpace(cfg.OutputDir) == "" {
			return errors.New("config: output path is required")
		}
	}
	if cfg.LLMCacheOnly && strings.TrimSpace(cfg.CacheDir) == "" && strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: llm.cacheOnly needs cache.dir or redis.addr")
	}
	if cfg.RemoteRetries < 0 || cfg.CacheMaxEntries < 0 || cfg.RemoteTimeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		return errors.New("config: llm.temperature must be within 0..2")
	}
	return nil
}
