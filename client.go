package agentbay

import (
	"net/http"
	"sync"
	"time"

	"github.com/aliyun/agentbay-sdk-go/internal/config"
	"github.com/aliyun/agentbay-sdk-go/internal/errorkit"
	"github.com/aliyun/agentbay-sdk-go/internal/httpx"
	"github.com/aliyun/agentbay-sdk-go/internal/logging"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
	"github.com/aliyun/agentbay-sdk-go/internal/metrics"
)

// AgentBay is the entry point: it holds the wire client, the global
// ContextService, and the set of live sessions created through it.
type AgentBay struct {
	wire       *mcpapi.Client
	httpClient *http.Client
	logger     logging.Logger
	metrics    metrics.Recorder

	Context *ContextService

	mu       sync.Mutex
	sessions map[string]*Session

	// vpcBreakers tracks one circuit breaker per distinct VPC sandbox
	// endpoint (network interface IP + port), since callToolVPC talks to
	// the sandbox directly rather than through the managed RPC plane and
	// a single misbehaving sandbox shouldn't be retried into the ground.
	vpcBreakers *errorkit.CircuitBreakerManager
}

// Option configures AgentBay construction beyond what environment/config
// loading provides.
type Option func(*agentOptions)

type agentOptions struct {
	configOpts []config.Option
	metrics    metrics.Recorder
}

// WithConfigOptions passes through internal/config.Option values, e.g. to
// supply an explicit EnvLookup or Overrides in tests.
func WithConfigOptions(opts ...config.Option) Option {
	return func(o *agentOptions) { o.configOpts = append(o.configOpts, opts...) }
}

// WithMetrics enables a metrics recorder (see internal/metrics). The
// default is a no-op recorder so the core library stays dependency-light
// when metrics are unused.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(o *agentOptions) { o.metrics = recorder }
}

// New constructs an AgentBay client, loading configuration from the
// environment, a discovered .env file, and built-in defaults.
func New(opts ...Option) (*AgentBay, error) {
	options := agentOptions{metrics: metrics.Noop()}
	for _, opt := range opts {
		opt(&options)
	}

	cfg, _, err := config.Load(options.configOpts...)
	if err != nil {
		return nil, err
	}
	return newFromConfig(cfg, options.metrics)
}

// NewAgentBay constructs an AgentBay client with an explicit API key, which
// takes precedence over any key found in the environment or a .env file;
// every other setting is still resolved from the environment, .env and the
// defaults.
func NewAgentBay(apiKey string, opts ...Option) (*AgentBay, error) {
	options := agentOptions{metrics: metrics.Noop()}
	for _, opt := range opts {
		opt(&options)
	}
	override := apiKey
	configOpts := append([]config.Option{config.WithOverrides(config.Overrides{APIKey: &override})}, options.configOpts...)

	cfg, _, err := config.Load(configOpts...)
	if err != nil {
		return nil, err
	}
	return newFromConfig(cfg, options.metrics)
}

func newFromConfig(cfg config.RuntimeConfig, recorder metrics.Recorder) (*AgentBay, error) {
	logger := logging.NewComponentLogger("AgentBay")
	httpClient := httpx.New(time.Duration(cfg.TimeoutMs)*time.Millisecond, logger)
	wire := mcpapi.New(cfg.Endpoint, cfg.APIKey, httpClient, logging.NewComponentLogger("mcpapi"))

	ab := &AgentBay{
		wire:        wire,
		httpClient:  httpClient,
		logger:      logger,
		metrics:     recorder,
		sessions:    map[string]*Session{},
		vpcBreakers: errorkit.NewCircuitBreakerManager(errorkit.DefaultCircuitBreakerConfig()),
	}
	ab.Context = newContextService(wire, logging.NewComponentLogger("ContextService"))
	return ab, nil
}

func (ab *AgentBay) registerSession(s *Session) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.sessions[s.SessionID] = s
}

func (ab *AgentBay) unregisterSession(sessionID string) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	delete(ab.sessions, sessionID)
}

// sessionCount reports how many sessions are currently registered; used by
// tests asserting the map is maintained correctly under concurrent
// create/delete.
func (ab *AgentBay) sessionCount() int {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	return len(ab.sessions)
}
