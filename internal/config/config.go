package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	// EnvProduction enables secure cookies and JSON logs.
	EnvProduction = "production"

	minProductionSecretLen = 32
)

// Config holds application level configuration loaded from an optional YAML
// file and environment variables.
type Config struct {
	Env        string `yaml:"env"`
	ServerPort string `yaml:"server_port"`
	BaseURL    string `yaml:"base_url"`
	LogLevel   string `yaml:"log_level"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseDSN string `yaml:"database_dsn"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	RedisPass string `yaml:"redis_password"`

	// SessionTTL is both the token validity window and the cookie lifetime.
	SessionSecret       string        `yaml:"session_secret"`
	SessionTTL          time.Duration `yaml:"session_ttl"`
	VerificationCodeTTL time.Duration `yaml:"verification_code_ttl"`
	MaxVerifyAttempts   int           `yaml:"max_verify_attempts"`
	VerifyLockout       time.Duration `yaml:"verify_lockout"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	MailFrom     string `yaml:"mail_from"`

	SwaggerHost string `yaml:"swagger_host"`
}

// Defaults returns a Config populated with development defaults.
func Defaults() *Config {
	return &Config{
		Env:                 "development",
		ServerPort:          "8080",
		BaseURL:             "http://localhost:8080",
		LogLevel:            "info",
		DBDriver:            "mysql",
		DatabaseDSN:         "user:password@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:           "localhost:6379",
		SessionTTL:          7 * 24 * time.Hour,
		VerificationCodeTTL: 24 * time.Hour,
		MaxVerifyAttempts:   5,
		VerifyLockout:       15 * time.Minute,
		SMTPPort:            587,
	}
}

// Load builds Config from defaults, the YAML file named by CONFIG_PATH (if
// any) and the environment, then validates it.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for tools that only touch the database. Secrets and
// mail settings are not required.
func LoadDatabase() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if errs := cfg.databaseErrors(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Env = getEnv("APP_ENV", c.Env)
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DatabaseDSN = getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", c.DatabaseDSN))
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.SessionSecret = getEnv("SESSION_SECRET", getEnv("JWT_SECRET", c.SessionSecret))
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPUser = getEnv("SMTP_USER", c.SMTPUser)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.MailFrom = getEnv("MAIL_FROM", c.MailFrom)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)

	var err error
	if c.RedisDB, err = getEnvInt("REDIS_DB", c.RedisDB); err != nil {
		return err
	}
	if c.SMTPPort, err = getEnvInt("SMTP_PORT", c.SMTPPort); err != nil {
		return err
	}
	if c.MaxVerifyAttempts, err = getEnvInt("MAX_VERIFY_ATTEMPTS", c.MaxVerifyAttempts); err != nil {
		return err
	}
	if c.SessionTTL, err = getEnvDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.VerificationCodeTTL, err = getEnvDuration("VERIFICATION_CODE_TTL", c.VerificationCodeTTL); err != nil {
		return err
	}
	if c.VerifyLockout, err = getEnvDuration("VERIFY_LOCKOUT", c.VerifyLockout); err != nil {
		return err
	}
	if c.MailFrom == "" {
		c.MailFrom = c.SMTPUser
	}
	return nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET (or JWT_SECRET) is required"))
	} else if c.IsProduction() && len(c.SessionSecret) < minProductionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", minProductionSecretLen))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.VerificationCodeTTL < 0 {
		errs = append(errs, errors.New("VERIFICATION_CODE_TTL must not be negative"))
	}
	if c.SMTPHost == "" {
		errs = append(errs, errors.New("SMTP_HOST is required"))
	}
	if c.MailFrom == "" {
		errs = append(errs, errors.New("MAIL_FROM (or SMTP_USER) is required"))
	}
	errs = append(errs, c.databaseErrors()...)

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) databaseErrors() []error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	return errs
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
