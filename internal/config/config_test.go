package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[engine]
day_capacity_ceiling = 5
commit_timeout_ms = 750
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Engine.DayCapacityCeiling)
	assert.Equal(t, 750*time.Millisecond, cfg.Engine.CommitTimeout())
	// не указанные в файле значения остаются по умолчанию
	assert.Equal(t, 62, cfg.Engine.MaxRangeDays)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_EnvWins(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db.internal"
`)
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("DAY_CAPACITY_CEILING", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, 12, cfg.Engine.DayCapacityCeiling)
}

func TestLoad_BadEnvInt(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("HTTP_PORT", "eighty")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"port":           func(c *Config) { c.Server.HTTPPort = 0 },
		"db host":        func(c *Config) { c.Database.Host = "" },
		"redis":          func(c *Config) { c.Redis.Addr = "" },
		"catalog":        func(c *Config) { c.CatalogService.URL = "" },
		"commit timeout": func(c *Config) { c.Engine.CommitTimeoutMs = 0 },
		"range":          func(c *Config) { c.Engine.MaxRangeDays = -1 },
		"rate limit":     func(c *Config) { c.RateLimit.RPS = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	// нулевой потолок допустим: признак заполненности выключен
	cfg := Default()
	cfg.Engine.DayCapacityCeiling = 0
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
