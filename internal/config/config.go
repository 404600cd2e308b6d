// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete jarvis client configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Jarvis backend connection
	Server ServerConfig `toml:"server" json:"server"`

	// Stored login
	Session SessionConfig `toml:"session" json:"session"`

	// Local chat transcript store
	History HistoryConfig `toml:"history" json:"history"`

	// Log file
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`
}

// ServerConfig describes how to reach the Jarvis REST API.
type ServerConfig struct {
	// URL is the backend origin. The client appends /api.
	URL string `toml:"url" json:"url"`

	// TimeoutSecs bounds every request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// RateLimit is the sustained requests per second allowed. 0 disables limiting.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	// RateBurst is the token bucket size.
	RateBurst int `toml:"rate_burst" json:"rate_burst"`

	// BreakerFailures is the number of consecutive failures that open the breaker.
	BreakerFailures int `toml:"breaker_failures" json:"breaker_failures"`
	// BreakerCooldownSecs is how long the breaker stays open.
	BreakerCooldownSecs int `toml:"breaker_cooldown_secs" json:"breaker_cooldown_secs"`

	// MaxResponseMB caps response bodies.
	MaxResponseMB int `toml:"max_response_mb" json:"max_response_mb"`
}

// SessionConfig controls the stored credential.
type SessionConfig struct {
	// Path of the credential file. Empty means ~/.jarvis/session.json.
	Path string `toml:"path" json:"path"`
	// Watch makes the TUI log out when the credential file is removed by another process.
	Watch bool `toml:"watch" json:"watch"`
}

// HistoryConfig controls the sqlite transcript store.
type HistoryConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path of the database. Empty means ~/.jarvis/history.db.
	Path string `toml:"path" json:"path"`
	// MaxSessions keeps only the newest N chat sessions. 0 keeps all.
	MaxSessions int `toml:"max_sessions" json:"max_sessions"`
	// ReplHistoryFile is the liner history file for `jarvis chat`.
	ReplHistoryFile string `toml:"repl_history_file" json:"repl_history_file"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// Path of the log file. Empty means ~/.jarvis/jarvis.log.
	Path string `toml:"path" json:"path"`
}

// UIConfig controls terminal rendering.
type UIConfig struct {
	// Theme is dark, light or auto.
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders minutes of meeting through glamour.
	Markdown bool `toml:"markdown" json:"markdown"`
	// ShowLogs shows the system log panel in the chat screen.
	ShowLogs bool `toml:"show_logs" json:"show_logs"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultServerURL is the backend origin used when nothing else is configured.
const DefaultServerURL = "http://localhost:8001"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			URL:                 DefaultServerURL,
			TimeoutSecs:         60, // MoM generation can take a while server side
			RateLimit:           5,
			RateBurst:           10,
			BreakerFailures:     5,
			BreakerCooldownSecs: 30,
			MaxResponseMB:       10,
		},
		Session: SessionConfig{
			Watch: true,
		},
		History: HistoryConfig{
			Enabled:     true,
			MaxSessions: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
			ShowLogs: true,
		},
	}
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	c.Server.URL = strings.TrimRight(c.Server.URL, "/")
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = d.Server.RateBurst
	}
	if c.Server.BreakerFailures == 0 {
		c.Server.BreakerFailures = d.Server.BreakerFailures
	}
	if c.Server.BreakerCooldownSecs == 0 {
		c.Server.BreakerCooldownSecs = d.Server.BreakerCooldownSecs
	}
	if c.Server.MaxResponseMB == 0 {
		c.Server.MaxResponseMB = d.Server.MaxResponseMB
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// BreakerCooldown returns how long an open breaker rejects requests.
func (c *Config) BreakerCooldown() time.Duration {
	return time.Duration(c.Server.BreakerCooldownSecs) * time.Second
}

// APIBaseURL returns the REST root, the server origin plus /api.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.Server.URL, "/") + "/api"
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the jarvis configuration directory, ~/.jarvis unless
// JARVIS_HOME is set.
func ConfigDir() (string, error) {
	if dir := os.Getenv("JARVIS_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".jarvis"), nil
}

func pathInConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return pathInConfigDir("config.toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return pathInConfigDir("config.json") }

// SessionPath returns the credential file path.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}
	return pathInConfigDir("session.json")
}

// HistoryPath returns the transcript database path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return pathInConfigDir("history.db")
}

// ReplHistoryPath returns the liner history file path.
func (c *Config) ReplHistoryPath() (string, error) {
	if c.History.ReplHistoryFile != "" {
		return c.History.ReplHistoryFile, nil
	}
	return pathInConfigDir("chat_history")
}

// LogPath returns the log file path.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	return pathInConfigDir("jarvis.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.jarvis/config.toml, falling back to config.json and then to
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return finish(Default())
	}
	if util.FileExists(tomlPath) {
		return LoadFromPath(tomlPath)
	}
	jsonPath, err := ConfigPathJSON()
	if err == nil && util.FileExists(jsonPath) {
		return LoadFromPath(jsonPath)
	}
	return finish(Default())
}

// LoadFromPath loads a config file, choosing the decoder by extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to ~/.jarvis/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# jarvis client configuration\n")
	b.WriteString("# Edit by hand or with `jarvis config set <key> <value>`.\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting found by Validate.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validThemes = map[string]bool{"dark": true, "light": true, "auto": true}
)

// Validate checks every setting and returns ValidateErrors when any is bad.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.URL)
	switch {
	case err != nil:
		errs = append(errs, ValidationError{"server.url", err.Error()})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{"server.url", fmt.Sprintf("scheme must be http or https, got %q", u.Scheme)})
	case u.Host == "":
		errs = append(errs, ValidationError{"server.url", "missing host"})
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{"server.timeout_secs", "must be between 1 and 600"})
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, ValidationError{"server.rate_limit", "must not be negative"})
	}
	if c.Server.RateBurst < 1 {
		errs = append(errs, ValidationError{"server.rate_burst", "must be at least 1"})
	}
	if c.Server.BreakerFailures < 1 {
		errs = append(errs, ValidationError{"server.breaker_failures", "must be at least 1"})
	}
	if c.Server.BreakerCooldownSecs < 1 {
		errs = append(errs, ValidationError{"server.breaker_cooldown_secs", "must be at least 1"})
	}
	if c.Server.MaxResponseMB < 1 || c.Server.MaxResponseMB > 100 {
		errs = append(errs, ValidationError{"server.max_response_mb", "must be between 1 and 100"})
	}
	if c.History.MaxSessions < 0 {
		errs = append(errs, ValidationError{"history.max_sessions", "must not be negative"})
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("invalid level %q, must be one of: debug, info, warn, error", c.Logging.Level)})
	}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("invalid theme %q, must be one of: dark, light, auto", c.UI.Theme)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies JARVIS_* environment variables:
//   - JARVIS_SERVER: server.url
//   - JARVIS_TIMEOUT: server.timeout_secs
//   - JARVIS_LOG_LEVEL: logging.level
//   - JARVIS_THEME: ui.theme
//   - JARVIS_NO_HISTORY: disables history.enabled
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("JARVIS_SERVER"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("JARVIS_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("JARVIS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JARVIS_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("JARVIS_NO_HISTORY"); v == "1" || strings.EqualFold(v, "true") {
		c.History.Enabled = false
	}
}

// =============================================================================
// GET/SET (DOT NOTATION)
// =============================================================================

// Get returns the value at a dotted key such as "server.url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value at a dotted key. String values are converted to the
// field's type. The result is not validated; call Validate before saving.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		name := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName turns snake_case or kebab-case into the Go field name.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if s, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(s)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value %q", s)
			}
			field.SetInt(n)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid number value %q", s)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("invalid boolean value %q", s)
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("nil value")
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys lists every settable key in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"server.url",
		"server.timeout_secs",
		"server.rate_limit",
		"server.rate_burst",
		"server.breaker_failures",
		"server.breaker_cooldown_secs",
		"server.max_response_mb",
		"session.path",
		"session.watch",
		"history.enabled",
		"history.path",
		"history.max_sessions",
		"history.repl_history_file",
		"logging.level",
		"logging.path",
		"ui.theme",
		"ui.markdown",
		"ui.show_logs",
	}
}

// Clone returns a copy of c. Config holds only value fields.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as indented JSON for `jarvis config show`.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the process-wide config, loading it on first use. A config
// that fails to load is reported on stderr and replaced by defaults.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		loaded, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			loaded = Default()
		}
		globalConfig = loaded
	}
	return globalConfig
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the process-wide config.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
