package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go-panopticon/internal/logging"

	"github.com/spf13/viper"
)

const (
	DefaultPath = "config.yaml"
	envPrefix   = "PANOPTICON"
)

type Config struct {
	Token         string      `mapstructure:"token"`
	BotAccount    bool        `mapstructure:"bot_account"`
	LogDir        string      `mapstructure:"log_dir"`
	IgnoreServers []uint64    `mapstructure:"ignore_servers"`
	UseLocaltime  bool        `mapstructure:"use_localtime"`
	MaxMessages   int         `mapstructure:"max_messages"`
	WriteRetries  int         `mapstructure:"write_retries"`
	Agent         AgentConfig `mapstructure:"agent"`

	ignored map[uint64]struct{}
}

// AgentConfig covers the agent's own diagnostics, not the chat records.
type AgentConfig struct {
	LogFile           string        `mapstructure:"log_file"`
	LogLevel          string        `mapstructure:"log_level"`
	LogMaxAge         time.Duration `mapstructure:"log_max_age"`
	MinFreeMB         uint64        `mapstructure:"min_free_mb"`
	DiskCheckInterval time.Duration `mapstructure:"disk_check_interval"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	Workers           int           `mapstructure:"workers"`
	QueueDepth        int           `mapstructure:"queue_depth"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("bot_account", true)
	v.SetDefault("log_dir", "logs")
	v.SetDefault("ignore_servers", []uint64{})
	v.SetDefault("use_localtime", false)
	v.SetDefault("max_messages", 7500)
	v.SetDefault("write_retries", 0)

	v.SetDefault("agent.log_file", "panopticon.log")
	v.SetDefault("agent.log_level", "info")
	v.SetDefault("agent.log_max_age", 7*24*time.Hour)
	v.SetDefault("agent.min_free_mb", 512)
	v.SetDefault("agent.disk_check_interval", time.Minute)
	v.SetDefault("agent.metrics_interval", 5*time.Minute)
	v.SetDefault("agent.workers", 4)
	v.SetDefault("agent.queue_depth", 1024)
}

// Load reads the YAML file at path. Keys may be overridden by PANOPTICON_*
// environment variables (agent.log_level -> PANOPTICON_AGENT_LOG_LEVEL) and
// the token by DISCORD_TOKEN. Any error is fatal for the caller: the agent
// must not start on a partial configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ignored = make(map[uint64]struct{}, len(cfg.IgnoreServers))
	for _, id := range cfg.IgnoreServers {
		cfg.ignored[id] = struct{}{}
	}

	return &cfg, nil
}

// PathFromEnv returns the config path named by PANOPTICON_CONFIG, or the
// default.
func PathFromEnv() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Token) == "" {
		errs = append(errs, errors.New("token is required"))
	}
	if strings.TrimSpace(c.LogDir) == "" {
		errs = append(errs, errors.New("log_dir is required"))
	}
	if c.MaxMessages < 0 {
		errs = append(errs, fmt.Errorf("max_messages must not be negative, got %d", c.MaxMessages))
	}
	if c.WriteRetries < 0 {
		errs = append(errs, fmt.Errorf("write_retries must not be negative, got %d", c.WriteRetries))
	}
	if _, err := logging.ParseLevel(c.Agent.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("agent.log_level: %w", err))
	}
	if c.Agent.DiskCheckInterval < 0 {
		errs = append(errs, errors.New("agent.disk_check_interval must not be negative"))
	}
	if c.Agent.MetricsInterval < 0 {
		errs = append(errs, errors.New("agent.metrics_interval must not be negative"))
	}
	if c.Agent.Workers < 1 {
		errs = append(errs, fmt.Errorf("agent.workers must be at least 1, got %d", c.Agent.Workers))
	}
	if c.Agent.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("agent.queue_depth must be at least 1, got %d", c.Agent.QueueDepth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// IsIgnored reports whether events from the guild are suppressed entirely.
func (c *Config) IsIgnored(guildID uint64) bool {
	_, ok := c.ignored[guildID]
	return ok
}

// WithIgnored returns a copy of c ignoring exactly the given guilds.
func (c *Config) WithIgnored(ids ...uint64) *Config {
	cp := *c
	cp.IgnoreServers = append([]uint64(nil), ids...)
	cp.ignored = make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		cp.ignored[id] = struct{}{}
	}
	return &cp
}

func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Agent.LogLevel)
	return level
}
