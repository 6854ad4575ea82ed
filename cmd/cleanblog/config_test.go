package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "sqlite:///data/blog.db", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("DATABASE_URL", "postgres://blog:pw@db:5432/blog")
	t.Setenv("POSTS_PER_PAGE", "3")
	t.Setenv("POST_CACHE_TTL", "30s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	site := cfg.Site()
	assert.Equal(t, "from-env", site.SecretKey)
	assert.Equal(t, "postgres://blog:pw@db:5432/blog", site.DatabaseURL)
	assert.Equal(t, 3, site.PostsPerPage)
	assert.Equal(t, 30*time.Second, site.PostCacheTTL)
	assert.True(t, site.CookieSecure)
}

func TestLoadConfigReadsDotEnvAndYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv never overrides a set variable; restore SITE_AUTHOR afterwards.
	t.Setenv("SITE_AUTHOR", "")
	os.Unsetenv("SITE_AUTHOR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SITE_AUTHOR=Angela\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("SITE_NAME: Yaml Blog\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Angela", cfg.SiteAuthor)
	assert.Equal(t, "Yaml Blog", cfg.SiteName)
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := &Config{SecretKey: insecureSecret, AppEnv: "production"}
	assert.Error(t, cfg.Validate())

	cfg.SecretKey = "short"
	assert.Error(t, cfg.Validate())

	cfg.SecretKey = "a-long-enough-production-secret-value-123"
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&Config{SecretKey: " "}).Validate())
}

func TestLoggingConfig(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFile: "/var/log/cleanblog", LogToStdout: true}
	lc := cfg.Logging()
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "/var/log/cleanblog", lc.File)
	assert.True(t, lc.ToStdout)
}
