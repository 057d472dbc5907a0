package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the catalog response cache. When Enabled
// is false or no Redis client is configured, caching is skipped.
// KeyStrategy decides which parts of the request make up the key; Purge
// uses Prefix to drop every cached entry at once. RouteTTL overrides TTL
// for individual route paths.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	RouteTTL     map[string]time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// TTLFor returns the entry lifetime for a route path such as
// "/api/campaigns".
func (c CacheConfig) TTLFor(route string) time.Duration {
	if d, ok := c.RouteTTL[route]; ok && d > 0 {
		return d
	}
	return c.TTL
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		Methods: parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:     envDur("CACHE_TTL", 60*time.Second),
		// campaigns expire by the clock, so keep them close to real time
		RouteTTL: map[string]time.Duration{
			"/api/campaigns": envDur("CACHE_CAMPAIGNS_TTL", 10*time.Second),
		},
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "fleetease:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range splitList(s) {
		m[strings.ToUpper(p)] = true
	}
	return m
}
