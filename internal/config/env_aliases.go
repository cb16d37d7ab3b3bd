package config

// DefaultEnvAliases returns the canonical alias map resolving legacy
// environment variable names to the SDK's current ones.
func DefaultEnvAliases() map[string][]string {
	aliases := map[string][]string{
		"AGENTBAY_API_KEY":     {"WUYING_API_KEY"},
		"AGENTBAY_ENDPOINT":    {"WUYING_ENDPOINT"},
		"AGENTBAY_TIMEOUT_MS":  {"WUYING_TIMEOUT_MS"},
	}
	out := make(map[string][]string, len(aliases))
	for k, v := range aliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// AliasEnvLookup wraps lookup so that a query for a canonical key also
// checks its registered aliases, in order, when the canonical key is unset.
func AliasEnvLookup(lookup EnvLookup, aliases map[string][]string) EnvLookup {
	return func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		for _, alias := range aliases[key] {
			if value, ok := lookup(alias); ok {
				return value, true
			}
		}
		return "", false
	}
}

// DefaultEnvLookupWithAliases composes DefaultEnvLookup with DefaultEnvAliases.
func DefaultEnvLookupWithAliases() EnvLookup {
	return AliasEnvLookup(DefaultEnvLookup, DefaultEnvAliases())
}
