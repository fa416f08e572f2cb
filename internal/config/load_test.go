package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-panopticon/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
token: "abc.def"
bot_account: false
log_dir: /var/log/panopticon
use_localtime: true
ignore_servers:
  - 111111111111111111
  - "222222222222222222"
agent:
  log_level: warn
  log_max_age: 48h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Token != "abc.def" || cfg.BotAccount {
		t.Errorf("token/bot_account = %q/%v", cfg.Token, cfg.BotAccount)
	}
	if cfg.LogDir != "/var/log/panopticon" || !cfg.UseLocaltime {
		t.Errorf("log_dir/use_localtime = %q/%v", cfg.LogDir, cfg.UseLocaltime)
	}
	if !cfg.IsIgnored(111111111111111111) || !cfg.IsIgnored(222222222222222222) {
		t.Errorf("ignore set missing configured guilds: %v", cfg.IgnoreServers)
	}
	if cfg.IsIgnored(333) {
		t.Error("unlisted guild reported as ignored")
	}
	if cfg.LogLevel() != logging.LevelWarn {
		t.Errorf("log level = %v", cfg.LogLevel())
	}
	if cfg.Agent.LogMaxAge != 48*time.Hour {
		t.Errorf("log_max_age = %v", cfg.Agent.LogMaxAge)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "token: x\n"))
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.BotAccount {
		t.Error("bot_account should default to true")
	}
	if cfg.LogDir != "logs" {
		t.Errorf("log_dir default = %q", cfg.LogDir)
	}
	if cfg.UseLocaltime {
		t.Error("use_localtime should default to false")
	}
	if cfg.MaxMessages != 7500 {
		t.Errorf("max_messages default = %d", cfg.MaxMessages)
	}
	if cfg.Agent.LogFile != "panopticon.log" || cfg.Agent.DiskCheckInterval != time.Minute {
		t.Errorf("agent defaults = %+v", cfg.Agent)
	}
	if cfg.Agent.Workers != 4 || cfg.Agent.QueueDepth != 1024 || cfg.Agent.MetricsInterval != 5*time.Minute {
		t.Errorf("pool defaults = %+v", cfg.Agent)
	}
	if len(cfg.IgnoreServers) != 0 {
		t.Errorf("ignore_servers default = %v", cfg.IgnoreServers)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "token: from-file\nlog_dir: from-file\n")
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("PANOPTICON_LOG_DIR", "/tmp/env-logs")
	t.Setenv("PANOPTICON_AGENT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("token = %q, want env override", cfg.Token)
	}
	if cfg.LogDir != "/tmp/env-logs" {
		t.Errorf("log_dir = %q, want env override", cfg.LogDir)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing token", "log_dir: logs\n", "token is required"},
		{"empty log dir", "token: x\nlog_dir: \"\"\n", "log_dir is required"},
		{"bad level", "token: x\nagent:\n  log_level: loud\n", "agent.log_level"},
		{"negative retries", "token: x\nwrite_retries: -1\n", "write_retries"},
		{"no workers", "token: x\nagent:\n  workers: 0\n", "agent.workers"},
		{"malformed yaml", "token: [unterminated\n", "failed to read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestWithIgnored(t *testing.T) {
	base := &Config{Token: "x", LogDir: "logs"}
	cfg := base.WithIgnored(5, 6)

	if !cfg.IsIgnored(5) || !cfg.IsIgnored(6) || cfg.IsIgnored(7) {
		t.Errorf("unexpected ignore set %v", cfg.IgnoreServers)
	}
	if base.IsIgnored(5) {
		t.Error("WithIgnored modified the original config")
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("PANOPTICON_CONFIG", "")
	if got := PathFromEnv(); got != DefaultPath {
		t.Errorf("got %q, want default", got)
	}
	t.Setenv("PANOPTICON_CONFIG", "/etc/panopticon.yaml")
	if got := PathFromEnv(); got != "/etc/panopticon.yaml" {
		t.Errorf("got %q", got)
	}
}
