package config

import "time"

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

// Defaults mirror the managed endpoint AgentBay sessions are brokered
// through when the caller supplies none of their own.
const (
	DefaultEndpoint  = "wuyingai.cn-shanghai.aliyuncs.com"
	DefaultTimeoutMs = 60000
	DefaultLogLevel  = "INFO"
)

// RuntimeConfig is the resolved configuration for an AgentBay client.
type RuntimeConfig struct {
	APIKey     string `json:"api_key" yaml:"api_key"`
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	TimeoutMs  int    `json:"timeout_ms" yaml:"timeout_ms"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
}

// Metadata records provenance for each resolved field.
type Metadata struct {
	sources  map[string]ValueSource
	loadedAt time.Time
}

// Sources returns a copy of the provenance map.
func (m Metadata) Sources() map[string]ValueSource {
	if m.sources == nil {
		return map[string]ValueSource{}
	}
	out := make(map[string]ValueSource, len(m.sources))
	for k, v := range m.sources {
		out[k] = v
	}
	return out
}

// Source returns the origin of a single field, defaulting to SourceDefault.
func (m Metadata) Source(field string) ValueSource {
	if m.sources == nil {
		return SourceDefault
	}
	if src, ok := m.sources[field]; ok {
		return src
	}
	return SourceDefault
}

// LoadedAt returns when the configuration was resolved.
func (m Metadata) LoadedAt() time.Time {
	return m.loadedAt
}

// Overrides conveys caller-specified values that win over env/file sources.
type Overrides struct {
	APIKey    *string
	Endpoint  *string
	TimeoutMs *int
	LogLevel  *string
}

// EnvLookup resolves the value for an environment variable name.
type EnvLookup func(string) (string, bool)
