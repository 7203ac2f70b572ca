package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MONGO_URI", "DB_NAME", "STORE_BACKEND", "LOG_LEVEL",
		"ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "STRICT_STATUS_CODES", "LEGACY_HEARTBEAT"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "presence", cfg.DBName)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.StrictStatusCodes)
	assert.True(t, cfg.LegacyHeartbeat)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("STRICT_STATUS_CODES", "true")
	t.Setenv("LEGACY_HEARTBEAT", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.True(t, cfg.StrictStatusCodes)
	assert.False(t, cfg.LegacyHeartbeat)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REQUEST_TIMEOUT", "soon"},
		{"STRICT_STATUS_CODES", "maybe"},
		{"LEGACY_HEARTBEAT", "nope"},
		{"STORE_BACKEND", "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
