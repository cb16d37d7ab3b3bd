package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Load constructs the runtime configuration by merging defaults, a
// discovered .env file, process environment variables, and caller
// overrides, in that order of increasing precedence.
//
// A missing API key is a fatal construction error: the client cannot be
// built without one.
func Load(opts ...Option) (RuntimeConfig, Metadata, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookupWithAliases(),
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meta := Metadata{sources: map[string]ValueSource{}, loadedAt: time.Now()}
	cfg := RuntimeConfig{
		Endpoint:  DefaultEndpoint,
		TimeoutMs: DefaultTimeoutMs,
		LogLevel:  DefaultLogLevel,
	}

	envFile, err := loadEnvFile(options)
	if err != nil {
		return RuntimeConfig{}, Metadata{}, fmt.Errorf("load .env file: %w", err)
	}
	applyEnvFile(&cfg, &meta, envFile)
	applyEnv(&cfg, &meta, options.envLookup)
	applyOverrides(&cfg, &meta, options.overrides)

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.APIKey == "" {
		return RuntimeConfig{}, Metadata{}, fmt.Errorf("agentbay: API key is required (set AGENTBAY_API_KEY or pass an explicit config)")
	}

	return cfg, meta, nil
}

func applyEnvFile(cfg *RuntimeConfig, meta *Metadata, values map[string]string) {
	if v, ok := values["AGENTBAY_API_KEY"]; ok && v != "" {
		cfg.APIKey = v
		meta.sources["api_key"] = SourceFile
	}
	if v, ok := values["AGENTBAY_ENDPOINT"]; ok && v != "" {
		cfg.Endpoint = v
		meta.sources["endpoint"] = SourceFile
	}
	if v, ok := values["AGENTBAY_TIMEOUT_MS"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
			meta.sources["timeout_ms"] = SourceFile
		}
	}
	if v, ok := values["LOG_LEVEL"]; ok && v != "" {
		cfg.LogLevel = v
		meta.sources["log_level"] = SourceFile
	}
}

func applyEnv(cfg *RuntimeConfig, meta *Metadata, lookup EnvLookup) {
	if v, ok := lookup("AGENTBAY_API_KEY"); ok && v != "" {
		cfg.APIKey = v
		meta.sources["api_key"] = SourceEnv
	}
	if v, ok := lookup("AGENTBAY_ENDPOINT"); ok && v != "" {
		cfg.Endpoint = v
		meta.sources["endpoint"] = SourceEnv
	}
	if v, ok := lookup("AGENTBAY_TIMEOUT_MS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutMs = n
			meta.sources["timeout_ms"] = SourceEnv
		}
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
		meta.sources["log_level"] = SourceEnv
	}
}

func applyOverrides(cfg *RuntimeConfig, meta *Metadata, overrides Overrides) {
	if overrides.APIKey != nil {
		cfg.APIKey = *overrides.APIKey
		meta.sources["api_key"] = SourceOverride
	}
	if overrides.Endpoint != nil {
		cfg.Endpoint = *overrides.Endpoint
		meta.sources["endpoint"] = SourceOverride
	}
	if overrides.TimeoutMs != nil {
		cfg.TimeoutMs = *overrides.TimeoutMs
		meta.sources["timeout_ms"] = SourceOverride
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
		meta.sources["log_level"] = SourceOverride
	}
}
