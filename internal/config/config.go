package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Git      GitConfig      `mapstructure:"git"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	S3       S3Config       `mapstructure:"s3"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type BackupConfig struct {
	ExportDir string `mapstructure:"export_dir"`
	// Hours between cycles when no cron schedule is set.
	IntervalHours  float64 `mapstructure:"interval_hours"`
	RetentionHours float64 `mapstructure:"retention_hours"`
	Compress       bool    `mapstructure:"compress"`
	// Optional six-field cron expression; overrides interval_hours.
	Schedule              string `mapstructure:"schedule"`
	CommandTimeoutMinutes int    `mapstructure:"command_timeout_minutes"`
}

type GitConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	RepoDir string `mapstructure:"repo_dir"`
	Remote  string `mapstructure:"remote"`
	Branch  string `mapstructure:"branch"`
}

type WebhookConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url"`
	Username       string `mapstructure:"username"`
	MaxUploadMB    int    `mapstructure:"max_upload_mb"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	SendFile bool   `mapstructure:"send_file"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "dbkeeper")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("database.port", 3306)
	v.SetDefault("backup.interval_hours", 24)
	v.SetDefault("backup.retention_hours", 168)
	v.SetDefault("backup.command_timeout_minutes", 10)
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.branch", "main")
	v.SetDefault("webhook.username", "dbkeeper")
	v.SetDefault("webhook.max_upload_mb", 8)
	v.SetDefault("webhook.timeout_seconds", 60)

	v.SetEnvPrefix("DBKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}

	if c.Backup.ExportDir == "" {
		return fmt.Errorf("backup.export_dir is required")
	}
	if c.Backup.IntervalHours <= 0 {
		return fmt.Errorf("backup.interval_hours must be positive")
	}
	if c.Backup.RetentionHours <= 0 {
		return fmt.Errorf("backup.retention_hours must be positive")
	}
	if c.Backup.CommandTimeoutMinutes <= 0 {
		return fmt.Errorf("backup.command_timeout_minutes must be positive")
	}

	if c.Git.Enabled {
		if c.Git.RepoDir == "" {
			return fmt.Errorf("git.repo_dir is required when git is enabled")
		}
		if c.Git.Remote == "" {
			return fmt.Errorf("git.remote is required when git is enabled")
		}
		if c.Git.Branch == "" {
			return fmt.Errorf("git.branch is required when git is enabled")
		}
	}

	if c.Webhook.Enabled {
		if c.Webhook.URL == "" {
			return fmt.Errorf("webhook.url is required when webhook is enabled")
		}
		if c.Webhook.MaxUploadMB <= 0 {
			return fmt.Errorf("webhook.max_upload_mb must be positive")
		}
	}

	if c.S3.Enabled {
		if c.S3.Region == "" {
			return fmt.Errorf("s3.region is required when s3 is enabled")
		}
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required when s3 is enabled")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3.access_key and s3.secret_key are required when s3 is enabled")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	return nil
}
