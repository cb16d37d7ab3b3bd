package logging

import "regexp"

// secretPatterns mask values that would otherwise leak API keys, VPC
// session tokens, or bearer credentials into log output.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key\s*[=:]\s*)([^\s&"']+)`),
	regexp.MustCompile(`(?i)(token\s*[=:]\s*)([^\s&"']+)`),
	regexp.MustCompile(`(?i)(Bearer\s+)([^\s"']+)`),
}

// sanitizeLogLine masks secret-shaped substrings in a log line without
// otherwise altering its content.
func sanitizeLogLine(line string) string {
	for _, pattern := range secretPatterns {
		line = pattern.ReplaceAllString(line, "${1}***")
	}
	return line
}
