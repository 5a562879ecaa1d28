// Package config defines the configuration schema for pagepulse.
//
// Configuration lives in ~/.pagepulse/config.json; credentials may also be
// supplied through PAGEPULSE_* environment variables, which take precedence
// over the file.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GraphConfig holds the Graph API credentials and target page.
type GraphConfig struct {
	AccessToken string `json:"accessToken" env:"ACCESS_TOKEN"`
	PageID      string `json:"pageId" env:"PAGE_ID"`
	Version     string `json:"version,omitempty" env:"API_VERSION"`
}

// SlackNotifyConfig configures the Slack outcome sink.
type SlackNotifyConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken" env:"SLACK_BOT_TOKEN"`
	Channel  string `json:"channel" env:"SLACK_CHANNEL"`
}

// TelegramNotifyConfig configures the Telegram outcome sink.
type TelegramNotifyConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token" env:"TELEGRAM_TOKEN"`
	ChatID  int64  `json:"chatId" env:"TELEGRAM_CHAT_ID"`
}

// NotifyConfig groups the outcome sinks.
type NotifyConfig struct {
	Slack    SlackNotifyConfig    `json:"slack"`
	Telegram TelegramNotifyConfig `json:"telegram"`
}

// Config is the root configuration.
type Config struct {
	Graph        GraphConfig  `json:"graph"`
	Notify       NotifyConfig `json:"notify"`
	TemplatesDir string       `json:"templatesDir,omitempty" env:"TEMPLATES_DIR"`
	SchedulePath string       `json:"schedulePath,omitempty" env:"SCHEDULE_PATH"`
}

// DefaultConfig returns the configuration used before any file or
// environment override is applied.
func DefaultConfig() Config {
	return Config{
		TemplatesDir: filepath.Join(DataDir(), "templates"),
		SchedulePath: filepath.Join(DataDir(), "schedule.json"),
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
