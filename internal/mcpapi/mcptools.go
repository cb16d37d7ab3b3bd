package mcpapi

import "encoding/json"

// McpToolDescriptor is one entry of the JSON string ListMcpTools returns in
// its data field.
type McpToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Server      string          `json:"server"`
	Tool        string          `json:"tool"`
}

// ParseMcpTools decodes ListMcpTools' JSON-encoded-string data field.
func ParseMcpTools(raw string) ([]McpToolDescriptor, error) {
	if raw == "" {
		return nil, nil
	}
	var tools []McpToolDescriptor
	if err := json.Unmarshal([]byte(raw), &tools); err != nil {
		return nil, err
	}
	return tools, nil
}
