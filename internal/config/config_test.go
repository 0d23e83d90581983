package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "board", cfg.IndexName)
	assert.Equal(t, 1, cfg.IndexShards)
	assert.Equal(t, 0, cfg.IndexReplicas)
	assert.Equal(t, 5*time.Minute, cfg.RedisTTL)
	assert.True(t, cfg.CacheEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("INDEX_NAME", "boards-test")
	t.Setenv("DATA_DIR", "/var/lib/bulletin")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("INDEX_SHARDS", "3")

	cfg := LoadConfig()

	assert.Equal(t, "boards-test", cfg.IndexName)
	assert.Equal(t, 30*time.Second, cfg.RedisTTL)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 3, cfg.IndexShards)
	assert.Equal(t, filepath.Join("/var/lib/bulletin", "boards-test"), cfg.IndexPath())
}

func TestLoadConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("REDIS_TTL", "not-a-duration")

	cfg := LoadConfig()
	assert.Equal(t, 5*time.Minute, cfg.RedisTTL)
}
