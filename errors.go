package setupforge

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed or inconsistent setup script. It is
// returned by ParseScript for syntax problems (with the offending line)
// and by Validate for cross-reference problems.
type ConfigError struct {
	Path string // script path, empty when parsing from a reader
	Line int    // 1-based line number, 0 when not tied to a line
	Msg  string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

// configErrf builds a ConfigError tied to a script line.
func configErrf(line int, format string, args ...any) *ConfigError {
	return &ConfigError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// quote wraps a value in double quotes for error messages.
func quote(s string) string {
	return `"` + s + `"`
}

// normalizeWord lowercases a directive or flag word.
func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// equalFold is a shorthand for case-insensitive identifier comparison.
func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
