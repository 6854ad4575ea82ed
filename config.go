package cleanblog

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SiteConfig holds all configuration for a cleanblog site.
type SiteConfig struct {
	Name        string // Site name (default "Clean Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Site owner, shown in the footer

	Addr        string // Listen address (default ":3000")
	DatabaseURL string // postgres:// URL or SQLite path (default "data/blog.db")

	SecretKey    string // Required: signs the session cookie
	CookieSecure bool   // Set true for HTTPS

	PostsPerPage     int           // Listing page size (default 10)
	PostCacheTTL     time.Duration // Listing cache TTL (default 5min)
	LoginMaxAttempts int           // Failed logins allowed per window and IP (default 5)
	LoginWindow      time.Duration // Login limiter window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Clean Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/blog.db"
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 10
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LoginMaxAttempts <= 0 {
		c.LoginMaxAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory served under /static (default "static").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithClock overrides the time source used to stamp post dates.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(a *App) {
		a.bcryptCost = cost
	}
}
