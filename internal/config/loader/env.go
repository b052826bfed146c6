package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by
// NewEnvLoader when no prefix is given.
const DefaultEnvPrefix = "MARKUPCORE_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "MARKUPCORE_")
	mapping map[string]string // Env var suffix -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore; an empty prefix means
// DefaultEnvPrefix.
func NewEnvLoader(prefix string) *EnvLoader {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
	}
}

// defaultEnvMapping maps variable names, without prefix, to config paths
// that the generic SECTION_SETTING_NAME rule cannot express.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"FOREGROUND": "theme.base.foreground",
		"BACKGROUND": "theme.base.background",
		"FONT":       "theme.base.font",
		"FONT_SIZE":  "theme.base.size",
		"MERGE_MODE": "theme.mergeMode",
		"LOG_LEVEL":  "debug.logLevel",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		key := strings.TrimPrefix(name, l.prefix)
		if key == "" {
			continue
		}

		path, mapped := l.mapping[key]
		if !mapped {
			path = envToPath(key)
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom mapping from a variable name without prefix to
// a config path.
func (l *EnvLoader) AddMapping(key, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[key] = configPath
}

// RemoveMapping removes a mapping.
func (l *EnvLoader) RemoveMapping(key string) {
	delete(l.mapping, key)
}

// envToPath converts CACHE_PRELOAD to cache.preload and DEBUG_LOG_LEVEL to
// debug.logLevel: the first word is the section, the rest the camelCase
// setting name.
func envToPath(name string) string {
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) == 1 {
		return parts[0]
	}

	var setting strings.Builder
	setting.WriteString(parts[1])
	for _, p := range parts[2:] {
		if p != "" {
			setting.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	return parts[0] + "." + setting.String()
}

// parseValue converts a variable to a bool, integer, float or string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
