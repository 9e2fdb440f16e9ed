package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DefaultSourceType    = "senate_stock_watcher"
	DefaultSourceURL     = "https://senate-stock-watcher-data.s3-us-west-2.amazonaws.com/aggregate/all_transactions.json"
	DefaultSubjectPrefix = "[Politician Trade Alert]"
	DefaultDatabasePath  = "sqlite:///data/trades.db"

	TransportSMTP    = "smtp"
	TransportMailgun = "mailgun"
)

// DefaultPoliticians is the watchlist used when no config file exists.
var DefaultPoliticians = []string{"Nancy Pelosi"}

// Config stores all configuration for the application.
// Structure comes from the YAML file; secrets come from the environment.
type Config struct {
	Politicians          []string         `mapstructure:"politicians" validate:"min=1,dive,required"`
	CheckIntervalMinutes int              `mapstructure:"check_interval_minutes" validate:"min=1"`
	Email                EmailConfig      `mapstructure:"email"`
	DataSource           DataSourceConfig `mapstructure:"data_source"`
	SMTP                 SMTPConfig       `mapstructure:"smtp"`
	Mailgun              MailgunConfig    `mapstructure:"mailgun"`
	Database             DatabaseConfig   `mapstructure:"database"`
	Log                  LogConfig        `mapstructure:"log"`
}

// EmailConfig defines the notification settings.
type EmailConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	Transport     string        `mapstructure:"transport" validate:"oneof=smtp mailgun"`
	From          string        `mapstructure:"from"`
	To            string        `mapstructure:"to"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Recipients splits the configured destination into addresses.
func (e EmailConfig) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(e.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// DataSourceConfig defines the inbound disclosure feed.
type DataSourceConfig struct {
	Type    string        `mapstructure:"type" validate:"required"`
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SMTPConfig defines the mail server settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MailgunConfig defines the Mailgun API settings.
type MailgunConfig struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig defines the datastore location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig defines the logger settings.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// CheckInterval returns the scheduler interval.
func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalMinutes) * time.Minute
}

var envBindings = map[string]string{
	"smtp.host":       "SMTP_HOST",
	"smtp.port":       "SMTP_PORT",
	"smtp.username":   "SMTP_USERNAME",
	"smtp.password":   "SMTP_PASSWORD",
	"email.from":      "EMAIL_FROM",
	"email.to":        "EMAIL_TO",
	"mailgun.domain":  "MAILGUN_DOMAIN",
	"mailgun.api_key": "MAILGUN_API_KEY",
	"database.path":   "DATABASE_PATH",
	"log.level":       "LOG_LEVEL",
	"log.encoding":    "LOG_ENCODING",
}

// LoadConfig reads configuration from the YAML file at path and the environment.
// A missing file falls back to the built-in defaults.
func LoadConfig(path string) (config Config, err error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return config, errors.Wrapf(err, "bind %s", env)
		}
	}

	v.SetDefault("check_interval_minutes", 60)
	v.SetDefault("email.enabled", true)
	v.SetDefault("email.subject_prefix", DefaultSubjectPrefix)
	v.SetDefault("email.transport", TransportSMTP)
	v.SetDefault("email.timeout", "30s")
	v.SetDefault("data_source.type", DefaultSourceType)
	v.SetDefault("data_source.url", DefaultSourceURL)
	v.SetDefault("data_source.timeout", "30s")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.encoding", "console")

	if path != "" && fileExists(path) {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			return config, errors.Wrapf(err, "read config file %s", path)
		}
	} else {
		v.SetDefault("politicians", DefaultPoliticians)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "decode config")
	}
	for i, name := range config.Politicians {
		config.Politicians[i] = strings.TrimSpace(name)
	}
	if config.Email.From == "" {
		config.Email.From = config.SMTP.Username
	}
	config.Email.Transport = strings.ToLower(strings.TrimSpace(config.Email.Transport))
	return config, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
