// Package config loads hello-bott settings.
//
// Settings come from defaults, then an optional YAML file (path from the
// --config flag or HELLOBOTT_CONFIG), then environment variables. Later
// sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	// DBPath is the SQLite database file, or ":memory:".
	DBPath string `yaml:"db_path"`
	// RequireRegistration rejects callers without a users row.
	RequireRegistration bool `yaml:"require_registration"`

	Log  LogConfig  `yaml:"log"`
	HTTP HTTPConfig `yaml:"http"`
	Chat ChatConfig `yaml:"chat"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is auto, text or json. auto picks text on a terminal.
	Format string `yaml:"format"`
}

// HTTPConfig controls the web server.
type HTTPConfig struct {
	// Addr is the listen address; empty disables the server.
	Addr string `yaml:"addr"`
	// Token is the bearer token /api requests must carry. The API
	// rejects every request while it is empty.
	Token string `yaml:"token"`
}

// ChatConfig describes the chat platform connection.
type ChatConfig struct {
	Token   string `yaml:"token"`
	RTMURL  string `yaml:"rtm_url"`
	APIURL  string `yaml:"api_url"`
	BotID   string `yaml:"bot_id"`
	BotName string `yaml:"bot_name"`
	// OwnerID is treated as a team owner before it is registered. The
	// RTM hello event fills it in when empty.
	OwnerID string `yaml:"owner_id"`
}

// DefaultConfig returns a Config with sensible defaults. The chat
// connection is disabled until a token and stream URL are provided.
func DefaultConfig() Config {
	return Config{
		DBPath: "hellobott.db",
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
		Chat: ChatConfig{
			APIURL:  "https://slack.com/api",
			BotName: "taskman",
		},
	}
}

// Load builds the configuration from path (skipped when empty, falling
// back to HELLOBOTT_CONFIG) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("HELLOBOTT_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HELLOBOTT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("HELLOBOTT_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("HELLOBOTT_HTTP_TOKEN"); v != "" {
		c.HTTP.Token = v
	}
	if v := os.Getenv("HELLOBOTT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HELLOBOTT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("SLACK_TOKEN"); v != "" {
		c.Chat.Token = v
	}
	if v := os.Getenv("HELLOBOTT_CHAT_TOKEN"); v != "" {
		c.Chat.Token = v
	}
	if v := os.Getenv("HELLOBOTT_CHAT_RTM_URL"); v != "" {
		c.Chat.RTMURL = v
	}
	if v := os.Getenv("HELLOBOTT_CHAT_API_URL"); v != "" {
		c.Chat.APIURL = v
	}
	if v := os.Getenv("HELLOBOTT_BOT_ID"); v != "" {
		c.Chat.BotID = v
	}
	if v := os.Getenv("HELLOBOTT_BOT_NAME"); v != "" {
		c.Chat.BotName = v
	}
	if v := os.Getenv("HELLOBOTT_OWNER_ID"); v != "" {
		c.Chat.OwnerID = v
	}
	if v := os.Getenv("HELLOBOTT_REQUIRE_REGISTRATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RequireRegistration = b
		}
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be one of auto, text, json", c.Log.Format))
	}
	if c.Chat.RTMURL != "" && c.Chat.Token == "" {
		errs = append(errs, errors.New("chat.token is required when chat.rtm_url is set"))
	}
	return errors.Join(errs...)
}

// ChatEnabled reports whether the real-time chat stream should run.
func (c Config) ChatEnabled() bool {
	return c.Chat.RTMURL != "" && c.Chat.Token != ""
}
