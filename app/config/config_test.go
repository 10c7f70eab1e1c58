package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 1000, cfg.App.BatchLimit)
	assert.Equal(t, SourceMongo, cfg.Geo.Source)
	assert.Equal(t, "admin_units", cfg.Geo.Mongo.Collection)
	assert.Equal(t, 5*time.Minute, cfg.Geo.CacheTTL)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Second, cfg.Quotes.AdapterTimeout)
	assert.False(t, cfg.Carriers.GHN.Enabled)
	assert.Equal(t, "https://online-gateway.ghn.vn", cfg.Carriers.GHN.BaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
geo:
  source: file
  file: testdata/geo.yaml
rate_limit:
  requests: 5
  window: 10s
quotes:
  adapter_timeout: 3s
carriers:
  ghn:
    enabled: true
    token: from-file
    shop_id: "885"
    timeout: 2s
`)
	t.Setenv("CARRIERS_GHN_TOKEN", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, SourceFile, cfg.Geo.Source)
	assert.Equal(t, "testdata/geo.yaml", cfg.Geo.File)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 3*time.Second, cfg.Quotes.AdapterTimeout)
	assert.True(t, cfg.Carriers.GHN.Enabled)
	assert.Equal(t, "from-env", cfg.Carriers.GHN.Token)
	assert.Equal(t, "885", cfg.Carriers.GHN.ShopID)
	assert.Equal(t, 2*time.Second, cfg.Carriers.GHN.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:       AppConfig{BatchLimit: 1000},
			Geo:       GeoConfig{Source: SourceMongo},
			Cache:     CacheConfig{Enabled: true, Backend: BackendMemory},
			RateLimit: RateLimitConfig{Enabled: true, Backend: BackendMemory, Requests: 1, Window: time.Second},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "file source without path", mutate: func(c *Config) { c.Geo.Source = SourceFile }, wantErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.Geo.Source = "postgres" }, wantErr: true},
		{name: "redis cache without url", mutate: func(c *Config) { c.Cache.Backend = BackendHybrid }, wantErr: true},
		{name: "redis cache with url", mutate: func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Redis.URL = "redis://localhost:6379"
		}},
		{name: "disabled cache ignores backend", mutate: func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.Backend = "bogus"
		}},
		{name: "redis limiter without url", mutate: func(c *Config) { c.RateLimit.Backend = BackendRedis }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.RateLimit.Window = 0 }, wantErr: true},
		{name: "zero batch limit", mutate: func(c *Config) { c.App.BatchLimit = 0 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
