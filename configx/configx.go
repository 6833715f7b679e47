package configx

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config represents the main configuration interface
type Config interface {
	// Get retrieves a configuration value by key
	Get(key string) Value

	// Set sets a configuration value
	Set(key string, val any)

	// Has checks if a configuration key exists
	Has(key string) bool

	// AllSettings returns all settings as a map
	AllSettings() map[string]any

	// RequireEnv specifies environment variables that must be present
	RequireEnv(envVars ...string) error
}

// Source represents a configuration source
type Source interface {
	// Load loads configuration values from the source
	Load() (map[string]any, error)

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher values override lower)
	Priority() int
}

// Value wraps a configuration value and provides type conversion methods
type Value interface {
	// IsSet returns true if the value exists
	IsSet() bool

	// AsString returns the value as a string
	AsString() string

	// AsStringDefault returns the value as a string or a default value
	AsStringDefault(def string) string

	// AsInt returns the value as an int
	AsInt() int

	// AsIntDefault returns the value as an int or a default value
	AsIntDefault(def int) int

	// AsFloat returns the value as a float64
	AsFloat() float64

	// AsFloatDefault returns the value as a float64 or a default value
	AsFloatDefault(def float64) float64

	// AsBool returns the value as a bool
	AsBool() bool

	// AsBoolDefault returns the value as a bool or a default value
	AsBoolDefault(def bool) bool

	// AsDurationDefault returns the value as a duration or a default value
	AsDurationDefault(def time.Duration) time.Duration

	// AsStruct unmarshals the value into a struct
	AsStruct(target any) error
}

const (
	PriorityDefault = 10 // Lowest priority
	PriorityEnv     = 20
	PriorityDotEnv  = 25
	PriorityMap     = 40 // Highest priority
)

//-----------------------------------------------------------------------------
// Implementation
//-----------------------------------------------------------------------------

// configuration is the concrete implementation of Config
type configuration struct {
	sync.RWMutex
	values  map[string]any
	sources []Source
}

// Get retrieves a configuration value by key
func (c *configuration) Get(key string) Value {
	c.RLock()
	defer c.RUnlock()

	if key == "" {
		return newValue("", c.values)
	}

	return newValue(key, c.findValue(key))
}

// findValue searches for a key, supporting nested keys with dot notation
func (c *configuration) findValue(key string) any {
	parts := strings.Split(key, ".")
	current := c.values

	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return v
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		current = m
	}

	return nil
}

// Set sets a configuration value
func (c *configuration) Set(key string, val any) {
	c.Lock()
	defer c.Unlock()

	parts := strings.Split(key, ".")
	current := c.values

	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = val
			return
		}

		if m, ok := current[part].(map[string]any); ok {
			current = m
			continue
		}

		newMap := make(map[string]any)
		current[part] = newMap
		current = newMap
	}
}

// Has checks if a configuration key exists
func (c *configuration) Has(key string) bool {
	c.RLock()
	defer c.RUnlock()

	return c.findValue(key) != nil
}

// AllSettings returns a copy of all settings
func (c *configuration) AllSettings() map[string]any {
	c.RLock()
	defer c.RUnlock()

	return deepCopyMap(c.values)
}

// RequireEnv specifies environment variables that must be present
func (c *configuration) RequireEnv(envVars ...string) error {
	var missing []string
	for _, env := range envVars {
		if os.Getenv(env) == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// load merges all sources in priority order (lower priority first)
func (c *configuration) load() error {
	c.Lock()
	defer c.Unlock()

	sort.SliceStable(c.sources, func(i, j int) bool {
		return c.sources[i].Priority() < c.sources[j].Priority()
	})

	values := make(map[string]any)
	for _, source := range c.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("error loading from source %s: %w", source.Name(), err)
		}
		mergeMapRecursive(values, data)
	}

	c.values = values
	return nil
}

// deepCopyMap creates a deep copy of a map
func deepCopyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			result[k] = deepCopyMap(nested)
			continue
		}
		result[k] = v
	}
	return result
}

// mergeMapRecursive recursively merges src into dst
func mergeMapRecursive(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				mergeMapRecursive(dstMap, srcMap)
				continue
			}
			dst[k] = deepCopyMap(srcMap)
			continue
		}
		dst[k] = v
	}
}

//-----------------------------------------------------------------------------
// Value implementation
//-----------------------------------------------------------------------------

// value implements the Value interface
type value struct {
	key string
	val any
}

// newValue creates a new Value instance
func newValue(key string, val any) Value {
	return &value{
		key: key,
		val: val,
	}
}

// IsSet returns true if the value exists
func (v *value) IsSet() bool {
	return v.val != nil
}

// AsString returns the value as a string
func (v *value) AsString() string {
	return v.AsStringDefault("")
}

// AsStringDefault returns the value as a string or a default value
func (v *value) AsStringDefault(def string) string {
	if !v.IsSet() {
		return def
	}

	switch val := v.val.(type) {
	case string:
		return val
	case int, int64, uint, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		return def
	}
}

// AsInt returns the value as an int
func (v *value) AsInt() int {
	return v.AsIntDefault(0)
}

// AsIntDefault returns the value as an int or a default value
func (v *value) AsIntDefault(def int) int {
	if !v.IsSet() {
		return def
	}

	switch val := v.val.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}

	return def
}

// AsFloat returns the value as a float64
func (v *value) AsFloat() float64 {
	return v.AsFloatDefault(0)
}

// AsFloatDefault returns the value as a float64 or a default value
func (v *value) AsFloatDefault(def float64) float64 {
	if !v.IsSet() {
		return def
	}

	switch val := v.val.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return def
}

// AsBool returns the value as a bool
func (v *value) AsBool() bool {
	return v.AsBoolDefault(false)
}

// AsBoolDefault returns the value as a bool or a default value
func (v *value) AsBoolDefault(def bool) bool {
	if !v.IsSet() {
		return def
	}

	switch val := v.val.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		switch val {
		case "yes", "y", "Y":
			return true
		}
	}

	return def
}

// AsDurationDefault returns the value as a duration or a default value
func (v *value) AsDurationDefault(def time.Duration) time.Duration {
	if !v.IsSet() {
		return def
	}

	switch val := v.val.(type) {
	case time.Duration:
		return val
	case int, int64, float64:
		// Assume milliseconds
		return time.Duration(v.AsInt()) * time.Millisecond
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return def
}

// AsStruct unmarshals the value into a struct
func (v *value) AsStruct(target any) error {
	if !v.IsSet() {
		return fmt.Errorf("value not set")
	}

	jsonData, err := json.Marshal(v.val)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to JSON: %w", err)
	}

	if err := json.Unmarshal(jsonData, target); err != nil {
		return fmt.Errorf("failed to unmarshal configuration to struct: %w", err)
	}

	return nil
}

//-----------------------------------------------------------------------------
// Builder
//-----------------------------------------------------------------------------

// Builder provides a fluent API for building configuration
type Builder interface {
	// FromEnv adds an environment variable source
	FromEnv(prefix string) Builder

	// FromDotEnv adds a .env file source; a missing file is not an error
	FromDotEnv(path string) Builder

	// FromMap adds a map source
	FromMap(values map[string]any, name string) Builder

	// WithDefaults adds default values
	WithDefaults(defaults map[string]any) Builder

	// RequireEnv specifies environment variables that must be present
	RequireEnv(envVars ...string) Builder

	// Build builds the configuration
	Build() (Config, error)
}

// builder implements the Builder interface
type builder struct {
	sources     []Source
	requiredEnv []string
}

// NewBuilder creates a new configuration builder
func NewBuilder() Builder {
	return &builder{}
}

// FromEnv adds an environment variable source
func (b *builder) FromEnv(prefix string) Builder {
	b.sources = append(b.sources, NewEnvSource(prefix, PriorityEnv))
	return b
}

// FromDotEnv adds a .env file source
func (b *builder) FromDotEnv(path string) Builder {
	b.sources = append(b.sources, NewDotEnvSource(path, PriorityDotEnv))
	return b
}

// FromMap adds a map source
func (b *builder) FromMap(values map[string]any, name string) Builder {
	b.sources = append(b.sources, NewMapSource(values, name, PriorityMap))
	return b
}

// WithDefaults adds default values
func (b *builder) WithDefaults(defaults map[string]any) Builder {
	b.sources = append(b.sources, NewMapSource(defaults, "defaults", PriorityDefault))
	return b
}

// RequireEnv specifies environment variables that must be present
func (b *builder) RequireEnv(envVars ...string) Builder {
	b.requiredEnv = append(b.requiredEnv, envVars...)
	return b
}

// Build builds the configuration
func (b *builder) Build() (Config, error) {
	cfg := &configuration{
		values:  make(map[string]any),
		sources: b.sources,
	}

	if err := cfg.load(); err != nil {
		return nil, err
	}

	if len(b.requiredEnv) > 0 {
		if err := cfg.RequireEnv(b.requiredEnv...); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
