package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache applied to public catalog
// reads. KeyStrategy selects which request parts form the cache key;
// MaxBodyBytes bounds what gets stored.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      boolOr("CACHE_ENABLED", true),
		Methods:      map[string]bool{},
		TTL:          durOr("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strOr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       strOr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: intOr("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	for _, m := range strings.Split(strOr("CACHE_METHODS", "GET"), ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			cfg.Methods[m] = true
		}
	}
	return cfg
}
