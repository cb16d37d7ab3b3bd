package agentbay

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/aliyun/agentbay-sdk-go/internal/errorkit"
	"github.com/aliyun/agentbay-sdk-go/internal/logging"
	"github.com/aliyun/agentbay-sdk-go/internal/mcpapi"
	"github.com/aliyun/agentbay-sdk-go/internal/metrics"
)

// newTestAgentBay builds an AgentBay wired directly to an httptest TLS
// server, bypassing environment/.env discovery entirely. Tests register
// routes on mux for the mcpapi actions they exercise.
func newTestAgentBay(t *testing.T, mux *http.ServeMux) (*AgentBay, *httptest.Server) {
	t.Helper()
	server := httptest.NewTLSServer(mux)
	t.Cleanup(server.Close)

	httpClient := server.Client()
	httpClient.Transport.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	endpoint := strings.TrimPrefix(server.URL, "https://")
	wire := mcpapi.New(endpoint, "test-key", httpClient, logging.NewComponentLogger("test"))

	ab := &AgentBay{
		wire:        wire,
		httpClient:  httpClient,
		logger:      logging.NewComponentLogger("test"),
		metrics:     metrics.Noop(),
		sessions:    map[string]*Session{},
		vpcBreakers: errorkit.NewCircuitBreakerManager(errorkit.DefaultCircuitBreakerConfig()),
	}
	ab.Context = newContextService(wire, logging.NewComponentLogger("test"))
	return ab, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
}
