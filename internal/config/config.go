package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	ServerPort    string
	Env           string
	DataDir       string
	IndexName     string
	IndexShards   int
	IndexReplicas int
	RedisURL      string
	RedisTTL      time.Duration
	CacheEnabled  bool
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
	}

	return Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Env:           getEnv("ENV", "dev"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		IndexName:     getEnv("INDEX_NAME", "board"),
		IndexShards:   getEnvAsInt("INDEX_SHARDS", 1),
		IndexReplicas: getEnvAsInt("INDEX_REPLICAS", 0),
		RedisURL:      getEnv("REDIS_URL", "redis:6379"),
		RedisTTL:      ttl,
		CacheEnabled:  getEnvAsBool("CACHE_ENABLED", true),
	}
}

// IndexPath is the on-disk location of the search index.
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, c.IndexName)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}
