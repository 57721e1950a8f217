package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"SECRET":       "s3cret",
		"STORE_DRIVER": DriverSQLite,
		"DATABASE_URL": "file:test.db",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, uint(5), cfg.RateLimitPerSecond)
	assert.Equal(t, time.Minute, cfg.SearchCacheTTL)
	assert.False(t, cfg.ResubmitRejectedOnEdit)
	assert.False(t, cfg.MediaEnabled())
	assert.False(t, cfg.MailEnabled())
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"SECRET":                    "s3cret",
		"STORE_DRIVER":              DriverMongo,
		"MONGO_URI":                 "mongodb://localhost:27017",
		"RESUBMIT_REJECTED_ON_EDIT": "true",
		"SEARCH_CACHE_TTL":          "5m",
		"EMAIL_WORKERS":             "4",
		"SMTP_HOST":                 "smtp.example.com",
		"CORS_ALLOWED_ORIGINS":      "https://ceylonhomes.lk, https://admin.ceylonhomes.lk",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.ResubmitRejectedOnEdit)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, 4, cfg.EmailWorkers)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, []string{"https://ceylonhomes.lk", "https://admin.ceylonhomes.lk"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":    {"STORE_DRIVER": DriverSQLite, "DATABASE_URL": "file:x"},
		"unknown driver":    {"SECRET": "s", "STORE_DRIVER": "cassandra"},
		"mongo without uri": {"SECRET": "s", "STORE_DRIVER": DriverMongo},
		"sql without url":   {"SECRET": "s", "STORE_DRIVER": DriverPostgres},
		"bad int":           {"SECRET": "s", "STORE_DRIVER": DriverSQLite, "DATABASE_URL": "file:x", "SMTP_PORT": "abc"},
		"bad duration":      {"SECRET": "s", "STORE_DRIVER": DriverSQLite, "DATABASE_URL": "file:x", "SEARCH_CACHE_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"SECRET", "STORE_DRIVER", "MONGO_URI", "DATABASE_URL"} {
				t.Setenv(k, "")
			}
			setEnv(t, env)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
