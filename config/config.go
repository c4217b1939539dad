// Package config loads the service settings from an optional YAML file and
// the environment. Environment variables always win over the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // scheduler timezones in minimal images

	"github.com/ortelius/obsolescence-backend/util"
	"gopkg.in/yaml.v2"
)

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port        string `yaml:"port"`
	CorsOrigins string `yaml:"cors_origins"`
}

// DatabaseConfig holds the ArangoDB connection settings
type DatabaseConfig struct {
	URL  string `yaml:"url"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	Name string `yaml:"name"`
}

// Endpoint returns the explicit URL or one built from host and port
func (d DatabaseConfig) Endpoint() string {
	if d.URL != "" {
		return d.URL
	}
	return "http://" + d.Host + ":" + d.Port
}

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Sender     string `yaml:"sender"`
	SenderName string `yaml:"sender_name"`
	UseTLS     bool   `yaml:"use_tls"`
}

// Configured reports whether mail can be sent at all
func (s SMTPConfig) Configured() bool {
	return util.IsNotEmpty(s.Host) && util.IsNotEmpty(s.Sender)
}

// TeamsConfig holds the incoming webhook settings
type TeamsConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// AlertsConfig holds the daily job lookahead
type AlertsConfig struct {
	ThresholdMonths int `yaml:"threshold_months"`
}

// SchedulerConfig holds the cron trigger settings
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Timezone string `yaml:"timezone"`
	Schedule string `yaml:"schedule"`

	Location *time.Location `yaml:"-"`
}

// NotificationsConfig holds the delivery audit settings
type NotificationsConfig struct {
	RecordFailures bool `yaml:"record_failures"`
}

// AuthConfig holds the token signing secret
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// KafkaConfig holds the event settings. No brokers disables Kafka entirely.
type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	RequestTopic string   `yaml:"request_topic"`
	GroupID      string   `yaml:"group_id"`
	APIKey       string   `yaml:"api_key"`
	APISecret    string   `yaml:"api_secret"`
}

// Enabled reports whether any broker is configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the complete service configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	Teams         TeamsConfig         `yaml:"teams"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Auth          AuthConfig          `yaml:"auth"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Log           LogConfig           `yaml:"log"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        "3000",
			CorsOrigins: "http://localhost:3000,http://localhost:4000,http://127.0.0.1:3000,http://127.0.0.1:4000",
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: "8529",
			User: "root",
			Pass: "mypassword",
			Name: "obsolescence",
		},
		SMTP:      SMTPConfig{Port: 587, UseTLS: true},
		Teams:     TeamsConfig{Timeout: 10 * time.Second},
		Alerts:    AlertsConfig{ThresholdMonths: 6},
		Scheduler: SchedulerConfig{Enabled: true, Timezone: "Europe/Paris", Schedule: "0 7 * * *"},
		Auth:      AuthConfig{JWTSecret: "change-me-in-production"},
		Kafka: KafkaConfig{
			Topic:        "notification-events",
			RequestTopic: "notification-requests",
			GroupID:      "obsolescence-backend-worker",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and the environment, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = util.GetEnvDefault("MS_PORT", c.Server.Port)
	c.Server.CorsOrigins = util.GetEnvDefault("CORS_ORIGINS", c.Server.CorsOrigins)

	c.Database.URL = util.GetEnvDefault("ARANGO_URL", c.Database.URL)
	c.Database.Host = util.GetEnvDefault("ARANGO_HOST", c.Database.Host)
	c.Database.Port = util.GetEnvDefault("ARANGO_PORT", c.Database.Port)
	c.Database.User = util.GetEnvDefault("ARANGO_USER", c.Database.User)
	c.Database.Pass = util.GetEnvDefault("ARANGO_PASS", c.Database.Pass)
	c.Database.Name = util.GetEnvDefault("ARANGO_DB", c.Database.Name)

	c.SMTP.Host = util.GetEnvDefault("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = util.GetEnvInt("SMTP_PORT", c.SMTP.Port)
	c.SMTP.User = util.GetEnvDefault("SMTP_USER", c.SMTP.User)
	c.SMTP.Password = util.GetEnvDefault("SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.Sender = util.GetEnvDefault("SMTP_SENDER", c.SMTP.Sender)
	c.SMTP.SenderName = util.GetEnvDefault("SMTP_SENDER_NAME", c.SMTP.SenderName)
	c.SMTP.UseTLS = util.GetEnvBool("SMTP_USE_TLS", c.SMTP.UseTLS)

	c.Teams.WebhookURL = util.GetEnvDefault("TEAMS_WEBHOOK_URL", c.Teams.WebhookURL)
	if v := os.Getenv("TEAMS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Teams.Timeout = d
		}
	}

	c.Alerts.ThresholdMonths = util.GetEnvInt("ALERT_THRESHOLD_MONTHS", c.Alerts.ThresholdMonths)

	c.Scheduler.Enabled = util.GetEnvBool("SCHEDULER_ENABLED", c.Scheduler.Enabled)
	c.Scheduler.Timezone = util.GetEnvDefault("SCHEDULER_TIMEZONE", c.Scheduler.Timezone)
	c.Scheduler.Schedule = util.GetEnvDefault("SCHEDULER_SCHEDULE", c.Scheduler.Schedule)

	c.Notifications.RecordFailures = util.GetEnvBool("NOTIFY_RECORD_FAILURES", c.Notifications.RecordFailures)

	c.Auth.JWTSecret = util.GetEnvDefault("JWT_SECRET", c.Auth.JWTSecret)

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = util.SplitAndTrim(v)
	}
	c.Kafka.Topic = util.GetEnvDefault("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.RequestTopic = util.GetEnvDefault("KAFKA_REQUEST_TOPIC", c.Kafka.RequestTopic)
	c.Kafka.GroupID = util.GetEnvDefault("KAFKA_GROUP_ID", c.Kafka.GroupID)
	c.Kafka.APIKey = util.GetEnvDefault("KAFKA_API_KEY", c.Kafka.APIKey)
	c.Kafka.APISecret = util.GetEnvDefault("KAFKA_API_SECRET", c.Kafka.APISecret)

	c.Log.Level = strings.ToLower(util.GetEnvDefault("LOG_LEVEL", c.Log.Level))
}

func (c *Config) validate() error {
	if c.Alerts.ThresholdMonths < 0 {
		return fmt.Errorf("alerts.threshold_months must not be negative, got %d", c.Alerts.ThresholdMonths)
	}
	if c.Teams.Timeout <= 0 {
		c.Teams.Timeout = 10 * time.Second
	}
	if c.Scheduler.Schedule == "" {
		c.Scheduler.Schedule = "0 7 * * *"
	}

	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}
	c.Scheduler.Location = loc
	return nil
}
