package configx

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables source
// ===========================

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix   string
	priority int
}

// NewEnvSource creates a new environment variable source
func NewEnvSource(prefix string, priority int) Source {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
	}
}

// Load loads configuration values from environment variables.
// Underscores nest keys: LECTORA_OCR_APIKEY becomes ocr.apikey
// when the prefix is "LECTORA_".
func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, value := parts[0], parts[1]

		if s.prefix != "" {
			if !strings.HasPrefix(key, s.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.prefix)
		}

		key = strings.ToLower(key)
		setNested(result, strings.Split(key, "_"), convertValue(value))
	}

	return result, nil
}

// Name returns the name of the source
func (s *EnvSource) Name() string {
	return fmt.Sprintf("env(%s)", s.prefix)
}

// Priority returns the priority of the source
func (s *EnvSource) Priority() int {
	return s.priority
}

// DotEnv file source
// ===========================

// DotEnvSource loads configuration from a .env file
type DotEnvSource struct {
	path     string
	priority int
}

// NewDotEnvSource creates a new .env file source
func NewDotEnvSource(path string, priority int) Source {
	return &DotEnvSource{
		path:     path,
		priority: priority,
	}
}

// Load loads configuration values from a .env file.
// A missing file yields no values rather than an error so the source
// can be registered unconditionally.
func (s *DotEnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) > 1 && (value[0] == '"' && value[len(value)-1] == '"' ||
			value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}

		key = strings.ToLower(key)
		setNested(result, strings.Split(key, "_"), convertValue(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	return result, nil
}

// Name returns the name of the source
func (s *DotEnvSource) Name() string {
	return fmt.Sprintf("dotenv(%s)", s.path)
}

// Priority returns the priority of the source
func (s *DotEnvSource) Priority() int {
	return s.priority
}

// Map source
// ===========================

// MapSource loads configuration from a map
type MapSource struct {
	values   map[string]any
	name     string
	priority int
}

// NewMapSource creates a new map source. Dotted keys are expanded into
// nested maps so "server.addr" resolves the same way env keys do.
func NewMapSource(values map[string]any, name string, priority int) Source {
	expanded := make(map[string]any, len(values))
	for key, val := range values {
		if nested, ok := val.(map[string]any); ok {
			val = deepCopyMap(nested)
		}
		setNested(expanded, strings.Split(key, "."), val)
	}
	return &MapSource{
		values:   expanded,
		name:     name,
		priority: priority,
	}
}

// Load loads configuration values from the map
func (s *MapSource) Load() (map[string]any, error) {
	return deepCopyMap(s.values), nil
}

// Name returns the name of the source
func (s *MapSource) Name() string {
	return s.name
}

// Priority returns the priority of the source
func (s *MapSource) Priority() int {
	return s.priority
}

// Helper functions
// ===========================

// setNested places a value in a nested map structure, creating maps as needed
func setNested(result map[string]any, parts []string, value any) {
	current := result
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return
		}

		if nested, ok := current[part].(map[string]any); ok {
			current = nested
			continue
		}

		newMap := make(map[string]any)
		current[part] = newMap
		current = newMap
	}
}

// convertValue attempts to convert a string value to a more appropriate type
func convertValue(value string) any {
	switch value {
	case "true", "TRUE", "yes", "YES":
		return true
	case "false", "FALSE", "no", "NO":
		return false
	}

	if i, err := strconv.Atoi(value); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return value
}
