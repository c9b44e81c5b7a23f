package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mailbox backing stores. Exactly one is active per process.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const envPrefix = "LUMEN"

type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
	DB        DBConfig        `mapstructure:"db"`
	Mailbox   MailboxConfig   `mapstructure:"mailbox"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Relay     RelayConfig     `mapstructure:"relay"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type MailboxConfig struct {
	Backend           string `mapstructure:"backend"`             // sqlite | memory
	RetainManualColor bool   `mapstructure:"retain_manual_color"` // keep manual color across auto
}

type SimulatorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Tick    time.Duration `mapstructure:"tick"`
}

type MQTTConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Address       string `mapstructure:"address"`
	ReadingsTopic string `mapstructure:"readings_topic"`
	CommandTopic  string `mapstructure:"command_topic"`
}

type RelayConfig struct {
	Port         string        `mapstructure:"port"`
	Upstream     string        `mapstructure:"upstream"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"` // 0 disables limiting
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("db.path", "lumen.db")
	v.SetDefault("mailbox.backend", BackendSQLite)
	v.SetDefault("mailbox.retain_manual_color", true)
	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.tick", "2s")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.address", ":1883")
	v.SetDefault("mqtt.readings_topic", "luz/luminosidade")
	v.SetDefault("mqtt.command_topic", "luz/controle")
	v.SetDefault("relay.port", "8080")
	v.SetDefault("relay.upstream", "http://localhost:8000")
	v.SetDefault("relay.timeout", "10s")
	v.SetDefault("relay.rate_limit_rps", 0)
}

// Load reads config.yml from the given search paths (default: configs, .).
// A missing file is not an error; defaults and LUMEN_* env vars still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the processes cannot start with.
func (c *Config) Validate() error {
	switch c.Mailbox.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("mailbox.backend %q: must be %q or %q", c.Mailbox.Backend, BackendSQLite, BackendMemory)
	}
	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return fmt.Errorf("simulator.tick must be positive, got %s", c.Simulator.Tick)
	}
	u, err := url.Parse(c.Relay.Upstream)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("relay.upstream %q: must be an absolute http(s) URL", c.Relay.Upstream)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("relay.upstream %q: unsupported scheme %q", c.Relay.Upstream, u.Scheme)
	}
	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("relay.timeout must be positive, got %s", c.Relay.Timeout)
	}
	if c.Relay.RateLimitRPS < 0 {
		return fmt.Errorf("relay.rate_limit_rps must not be negative, got %v", c.Relay.RateLimitRPS)
	}
	if c.MQTT.Enabled && (c.MQTT.ReadingsTopic == "" || c.MQTT.CommandTopic == "") {
		return errors.New("mqtt topics must not be empty when mqtt is enabled")
	}
	return nil
}
