package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/insightdelivered/finmd/internal/logger"
)

// Config is the resolved runtime configuration.
type Config struct {
	HTTPAddr     string
	BodyLimitMB  int
	LogLevel     string
	LogFormat    string
	PreviewStyle string
	PreviewWidth int
}

// ConfigOption is one config key with its default value and a short
// description of what it controls.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns every configuration key with its default and meaning.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for `finmd serve`"},
		{Key: "body_limit_mb", Default: 32, Comment: "Maximum request body size in megabytes, uploads included"},

		{Key: "log.level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "log.format", Default: "console", Comment: "console or json"},

		{Key: "preview.style", Default: "dark", Comment: "glamour style for --pretty output (dark, light, notty, ...)"},
		{Key: "preview.width", Default: 100, Comment: "Word wrap width for --pretty output"},
	}
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// A missing config file is not an error; an unreadable one is.
func Load(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("finmd")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "finmd"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "finmd"))
		}
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	// FINMD_LOG_LEVEL and friends
	v.SetEnvPrefix("finmd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// FromViper snapshots the resolved values.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr:     v.GetString("http_addr"),
		BodyLimitMB:  v.GetInt("body_limit_mb"),
		LogLevel:     v.GetString("log.level"),
		LogFormat:    v.GetString("log.format"),
		PreviewStyle: v.GetString("preview.style"),
		PreviewWidth: v.GetInt("preview.width"),
	}
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.HTTPAddr) == "" {
		problems = append(problems, "http_addr is required")
	}
	if c.BodyLimitMB <= 0 {
		problems = append(problems, "body_limit_mb must be greater than 0")
	}
	if lvl := strings.ToLower(strings.TrimSpace(c.LogLevel)); lvl != "" && logger.ParseLevel(lvl).String() != lvl {
		problems = append(problems, fmt.Sprintf("log.level %q is not a known level", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be console or json, got %q", c.LogFormat))
	}
	if c.PreviewWidth <= 0 {
		problems = append(problems, "preview.width must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// BodyLimitBytes returns the body limit in bytes.
func (c Config) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}
