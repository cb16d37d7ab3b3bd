package agentbay

import (
	"context"
	"strings"
)

// Capability wrappers give each tool family a strongly-typed surface while
// leaving the dispatcher itself generic: it has no notion of tool schemas,
// only of the uniform CallTool envelope.

// CommandCapability wraps the shell/command-execution tool.
type CommandCapability struct{ session *Session }

// ExecuteCommand runs a shell command inside the session.
func (c *CommandCapability) ExecuteCommand(ctx context.Context, command string) ToolResult {
	return c.session.CallTool(ctx, "shell", map[string]any{"command": command}, false)
}

// CodeCapability wraps the code-execution tool.
type CodeCapability struct{ session *Session }

// RunCode executes source in the given language inside the session.
func (c *CodeCapability) RunCode(ctx context.Context, language, code string) ToolResult {
	return c.session.CallTool(ctx, "run_code", map[string]any{"language": language, "code": code}, false)
}

// ComputerCapability wraps desktop-automation tools.
type ComputerCapability struct{ session *Session }

var normalizedKeyNames = map[string]string{
	"ctrl": "Ctrl", "control": "Ctrl",
	"alt": "Alt",
	"shift": "Shift",
	"tab": "Tab",
	"enter": "Enter", "return": "Enter",
	"esc": "Esc", "escape": "Esc",
	"space": "Space",
	"backspace": "Backspace",
	"delete": "Delete",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
}

// NormalizeKeyName maps a caller-supplied key name (any case) to the
// canonical name the remote desktop expects: known modifiers/special keys
// to their Title-case form, F-keys to uppercase, single characters to
// lowercase. Any other name is rejected with a ValidationError.
func NormalizeKeyName(key string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "" {
		return "", &ValidationError{Field: "key", Message: "must not be empty"}
	}
	if canonical, ok := normalizedKeyNames[lower]; ok {
		return canonical, nil
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		if _, err := parseFKeyNumber(lower[1:]); err == nil {
			return strings.ToUpper(lower), nil
		}
	}
	if len(lower) == 1 {
		return lower, nil
	}
	return "", &ValidationError{Field: "key", Message: "unrecognized key name: " + key}
}

func parseFKeyNumber(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, &ValidationError{Field: "key", Message: "not an F-key"}
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, &ValidationError{Field: "key", Message: "not an F-key"}
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// SendKey presses a normalized key combination on the remote desktop.
func (c *ComputerCapability) SendKey(ctx context.Context, key string) ToolResult {
	normalized, err := NormalizeKeyName(key)
	if err != nil {
		return ToolResult{Result: failResult(ErrorKindValidation, "", err.Error())}
	}
	return c.session.CallTool(ctx, "send_key", map[string]any{"key": normalized}, false)
}

// Screenshot captures the remote desktop's current frame.
func (c *ComputerCapability) Screenshot(ctx context.Context) ToolResult {
	return c.session.CallTool(ctx, "screenshot", nil, false)
}

// MobileCapability wraps mobile-emulator automation tools.
type MobileCapability struct{ session *Session }

// Tap taps the emulator screen at the given coordinates.
func (c *MobileCapability) Tap(ctx context.Context, x, y int) ToolResult {
	return c.session.CallTool(ctx, "tap", map[string]any{"x": x, "y": y}, false)
}

// BrowserCapability wraps browser-automation tools.
type BrowserCapability struct{ session *Session }

// Navigate loads a URL in the session's browser.
func (c *BrowserCapability) Navigate(ctx context.Context, url string) ToolResult {
	return c.session.CallTool(ctx, "navigate", map[string]any{"url": url}, false)
}

// AgentCapability wraps higher-level agent/task tools hosted by the
// session's image.
type AgentCapability struct{ session *Session }

// RunTask issues a natural-language task to the session's agent tool.
func (c *AgentCapability) RunTask(ctx context.Context, task string) ToolResult {
	return c.session.CallTool(ctx, "agent_task", map[string]any{"task": task}, false)
}
