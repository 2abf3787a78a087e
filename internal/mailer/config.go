// Package mailer holds configuration of the activation mail worker.
package mailer

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"acara-backend/internal/config"
	"acara-backend/internal/mail"
	"acara-backend/internal/messaging"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

// DefaultConfigPath is read first; environment variables fill in and override it.
const DefaultConfigPath = "mailer.yml"

type Config struct {
	RabbitMQ          RabbitMQConfig `yaml:"rabbitmq"`
	SMTP              SMTPConfig     `yaml:"smtp"`
	Log               LogConfig      `yaml:"log"`
	ActivationQueue   string         `yaml:"activation_queue" env:"ACTIVATION_QUEUE" env-default:"account_activation_emails"`
	WorkerConcurrency int            `yaml:"worker_concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
	ProcessTimeout    time.Duration  `yaml:"process_timeout" env:"PROCESS_TIMEOUT" env-default:"30s"`
	PublicBaseURL     string         `yaml:"public_base_url" env:"PUBLIC_BASE_URL" env-default:"http://localhost:3000"`
	SecretsDir        string         `yaml:"secrets_dir" env:"SECRETS_DIR" env-default:"/run/secrets"`
	HealthCheckPort   string         `yaml:"health_check_port" env:"HEALTH_CHECK_PORT" env-default:"8088"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-required:"true"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-required:"true"`
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
}

// LoadConfig reads path when it exists and falls back to the environment alone.
// An empty SMTP password is looked up in the smtp_password secret.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read mailer config %s: %w", path, err)
		}
	} else {
		zap.L().Info("Mailer config file not found, reading environment", zap.String("path", path))
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read mailer config from env: %w", err)
		}
	}

	if cfg.SMTP.Password == "" && cfg.SMTP.User != "" {
		secret, err := config.ReadSecret(cfg.SecretsDir, "smtp_password")
		if err != nil {
			zap.L().Warn("SMTP password not configured", zap.Error(err))
		} else {
			cfg.SMTP.Password = secret
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ActivationQueue == "" {
		c.ActivationQueue = messaging.DefaultActivationQueue
	}
	if c.WorkerConcurrency < 1 {
		return errors.New("worker_concurrency must be at least 1")
	}
	if c.ProcessTimeout <= 0 {
		return errors.New("process_timeout must be positive")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid smtp port %d", c.SMTP.Port)
	}
	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		return fmt.Errorf("invalid public_base_url: %w", err)
	}
	return nil
}

func (c *Config) SMTPSenderConfig() mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     c.SMTP.Host,
		Port:     c.SMTP.Port,
		User:     c.SMTP.User,
		Password: c.SMTP.Password,
		From:     c.SMTP.From,
	}
}

// ActivationLink mirrors the link built by the API server.
func (c *Config) ActivationLink(code string) string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/auth/activation?code=" + url.QueryEscape(code)
}
