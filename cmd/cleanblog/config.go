package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/cleanblog"
)

const insecureSecret = "change-me"

// Config is everything the server reads from the environment, .env or config.yml.
type Config struct {
	SecretKey       string        `mapstructure:"SECRET_KEY"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	Addr            string        `mapstructure:"ADDR"`
	SiteName        string        `mapstructure:"SITE_NAME"`
	SiteURL         string        `mapstructure:"SITE_URL"`
	SiteDescription string        `mapstructure:"SITE_DESCRIPTION"`
	SiteAuthor      string        `mapstructure:"SITE_AUTHOR"`
	CookieSecure    bool          `mapstructure:"COOKIE_SECURE"`
	PostsPerPage    int           `mapstructure:"POSTS_PER_PAGE"`
	PostCacheTTL    time.Duration `mapstructure:"POST_CACHE_TTL"`
	StaticDir       string        `mapstructure:"STATIC_DIR"`
	AppEnv          string        `mapstructure:"APP_ENV"`

	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFile     string `mapstructure:"LOG_FILE"`
	LogToStdout bool   `mapstructure:"LOG_TO_STDOUT"`
	LogJSON     bool   `mapstructure:"LOG_JSON"`
}

// LoadConfig reads .env (if present) into the process environment, then
// layers environment variables over config.yml over defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("SECRET_KEY", insecureSecret)
	v.SetDefault("DATABASE_URL", "sqlite:///data/blog.db")
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("SITE_NAME", "Clean Blog")
	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("SITE_DESCRIPTION", "A collection of random musings.")
	v.SetDefault("SITE_AUTHOR", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("POSTS_PER_PAGE", 10)
	v.SetDefault("POST_CACHE_TTL", "5m")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_TO_STDOUT", true)
	v.SetDefault("LOG_JSON", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.isProduction() {
		if c.SecretKey == insecureSecret {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
	}
	if c.PostsPerPage < 0 {
		return errors.New("POSTS_PER_PAGE must not be negative")
	}
	return nil
}

func (c *Config) isProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Site maps the loaded values onto the App configuration.
func (c *Config) Site() cleanblog.SiteConfig {
	return cleanblog.SiteConfig{
		Name:         c.SiteName,
		URL:          c.SiteURL,
		Description:  c.SiteDescription,
		Author:       c.SiteAuthor,
		Addr:         c.Addr,
		DatabaseURL:  c.DatabaseURL,
		SecretKey:    c.SecretKey,
		CookieSecure: c.CookieSecure,
		PostsPerPage: c.PostsPerPage,
		PostCacheTTL: c.PostCacheTTL,
	}
}

// Logging maps the loaded values onto the logger setup.
func (c *Config) Logging() cleanblog.LogConfig {
	return cleanblog.LogConfig{
		Level:    c.LogLevel,
		File:     c.LogFile,
		ToStdout: c.LogToStdout,
		JSON:     c.LogJSON,
	}
}
